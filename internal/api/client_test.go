package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClient_AttachesCredentialsAndHeaders(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":1,"username":"ari"}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, func() string { return "tok-123" })
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	user, err := client.Me(context.Background())
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if user.Username != "ari" {
		t.Fatalf("user = %#v, want username ari", user)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want Bearer tok-123", gotAuth)
	}
	if gotRequestID == "" {
		t.Errorf("X-Request-ID missing")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_AnonymousWhenTokenEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("Authorization = %q, want empty", auth)
		}
		_, _ = w.Write([]byte(`{"data":[],"current_page":1,"last_page":1,"total":0}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, func() string { return "" })
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Posts(context.Background(), 1, 20); err != nil {
		t.Fatalf("Posts returned error: %v", err)
	}
}

func TestClient_PreservesBasePathPrefix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"data":[],"current_page":1,"last_page":1,"total":0}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api/", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.Posts(context.Background(), 1, 0); err != nil {
		t.Fatalf("Posts returned error: %v", err)
	}
	if gotPath != "/api/posts" {
		t.Errorf("request path = %q, want /api/posts", gotPath)
	}
}

func TestClient_DecodesPaginationEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page"); got != "2" {
			t.Errorf("page = %q, want 2", got)
		}
		if got := r.URL.Query().Get("per_page"); got != "10" {
			t.Errorf("per_page = %q, want 10", got)
		}
		_, _ = w.Write([]byte(`{
			"data": [{"id": 11, "caption": "first"}, {"id": 12, "caption": "second"}],
			"current_page": 2, "last_page": 3, "per_page": 10, "total": 25,
			"next_page_url": "http://x/posts?page=3"
		}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	page, err := client.Posts(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("Posts returned error: %v", err)
	}

	want := []Post{{ID: 11, Caption: "first"}, {ID: 12, Caption: "second"}}
	if diff := cmp.Diff(want, page.Data); diff != "" {
		t.Errorf("page data mismatch (-want +got):\n%s", diff)
	}
	if page.CurrentPage != 2 || page.LastPage != 3 || page.Total != 25 {
		t.Errorf("envelope = %d/%d total %d, want 2/3 total 25", page.CurrentPage, page.LastPage, page.Total)
	}
	if !page.HasMore() {
		t.Errorf("HasMore() = false, want true")
	}
}

func TestPage_HasMoreTreatsNullNextAsExhausted(t *testing.T) {
	page := Page[Post]{CurrentPage: 3, LastPage: 3, NextPageURL: nil}
	if page.HasMore() {
		t.Errorf("HasMore() = true for current_page == last_page with null next_page_url")
	}
}

func TestClient_ClassifiesErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantKind   Kind
		wantFields int
	}{
		{"unauthorized", 401, `{"message":"Unauthenticated."}`, KindUnauthorized, 0},
		{"validation", 422, `{"message":"The given data was invalid.","errors":{"email":["taken"],"password":["too short"]}}`, KindValidation, 2},
		{"not found", 404, `{"message":"Not found."}`, KindNotFound, 0},
		{"server", 500, ``, KindServer, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewClient(srv.URL, nil)
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			_, err = client.Me(context.Background())
			if err == nil {
				t.Fatalf("Me returned nil error for status %d", tt.status)
			}
			apiErr, ok := err.(*Error)
			if !ok {
				t.Fatalf("error type = %T, want *Error", err)
			}
			if apiErr.Kind != tt.wantKind {
				t.Errorf("Kind = %d, want %d", apiErr.Kind, tt.wantKind)
			}
			if len(apiErr.Fields) != tt.wantFields {
				t.Errorf("Fields = %v, want %d entries", apiErr.Fields, tt.wantFields)
			}
		})
	}
}

func TestClient_TransportFailureKind(t *testing.T) {
	// Port 1 is essentially guaranteed to refuse connections.
	client, err := NewClient("127.0.0.1:1", nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.Me(context.Background())
	if err == nil {
		t.Fatal("Me returned nil error for unreachable server")
	}
	if !IsTransport(err) {
		t.Errorf("IsTransport(%v) = false, want true", err)
	}
	if IsUnauthorized(err) {
		t.Errorf("IsUnauthorized(%v) = true, want false", err)
	}
}

func TestAsValidation(t *testing.T) {
	err := &Error{Kind: KindValidation, Status: 422, Fields: map[string][]string{"email": {"taken"}}}
	fields, ok := AsValidation(err)
	if !ok {
		t.Fatal("AsValidation = false, want true")
	}
	if got := fields["email"]; len(got) != 1 || got[0] != "taken" {
		t.Errorf("fields[email] = %v, want [taken]", got)
	}

	if _, ok := AsValidation(&Error{Kind: KindServer, Status: 500}); ok {
		t.Error("AsValidation reported true for a server error")
	}
}
