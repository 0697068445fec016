package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TokenSource returns the current bearer token, or "" for anonymous requests.
// It is consulted per request so a login mid-session takes effect immediately.
type TokenSource func() string

// Service defines the operations the UI consumes. Implemented by *Client;
// useful for testing view commands without a live server.
type Service interface {
	Me(ctx context.Context) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*SessionResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error)
	Logout(ctx context.Context) error
	Posts(ctx context.Context, page, perPage int) (Page[Post], error)
	CreatePost(ctx context.Context, caption string) (*Post, error)
	ToggleLike(ctx context.Context, postID int64) (*LikeResponse, error)
	Comments(ctx context.Context, postID int64, page int) (Page[Comment], error)
	CreateComment(ctx context.Context, postID int64, body string, parentID *int64) (*Comment, error)
	ToggleFollow(ctx context.Context, username string) (*FollowToggleResponse, error)
	Profile(ctx context.Context, username string, page int) (*ProfileResponse, error)
}

// Ensure Client implements Service at compile time.
var _ Service = (*Client)(nil)

// Client talks to the feed server's HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	token     TokenSource
}

const (
	defaultUserAgent = "perch/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client for the given server address. A bare host:port is
// accepted and treated as http. token may be nil for anonymous-only use.
func NewClient(server string, token TokenSource) (*Client, error) {
	base, err := parseBaseURL(server)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		token:     token,
	}, nil
}

// Me performs the session probe.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var payload User
	if err := c.do(ctx, http.MethodGet, &url.URL{Path: "/sessions/me"}, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*SessionResponse, error) {
	var payload SessionResponse
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/sessions"}, req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Register creates an account and returns its session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*SessionResponse, error) {
	var payload SessionResponse
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/accounts"}, req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Logout invalidates the server-side session. Best effort; the local token is
// cleared by the caller regardless.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, &url.URL{Path: "/sessions"}, nil, nil)
}

// Posts fetches one page of the feed.
func (c *Client) Posts(ctx context.Context, page, perPage int) (Page[Post], error) {
	values := url.Values{}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		values.Set("per_page", strconv.Itoa(perPage))
	}
	return fetchPage[Post](ctx, c, &url.URL{Path: "/posts", RawQuery: values.Encode()})
}

// CreatePost publishes a new post.
func (c *Client) CreatePost(ctx context.Context, caption string) (*Post, error) {
	body := struct {
		Caption string `json:"caption"`
	}{Caption: caption}
	var payload Post
	if err := c.do(ctx, http.MethodPost, &url.URL{Path: "/posts"}, body, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToggleLike flips the viewer's like on a post and returns the authoritative state.
func (c *Client) ToggleLike(ctx context.Context, postID int64) (*LikeResponse, error) {
	rel := &url.URL{Path: fmt.Sprintf("/posts/%d/like", postID)}
	var payload LikeResponse
	if err := c.do(ctx, http.MethodPost, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Comments fetches one page of a post's comment thread.
func (c *Client) Comments(ctx context.Context, postID int64, page int) (Page[Comment], error) {
	values := url.Values{}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	rel := &url.URL{Path: fmt.Sprintf("/posts/%d/comments", postID), RawQuery: values.Encode()}
	return fetchPage[Comment](ctx, c, rel)
}

// CreateComment adds a comment, optionally as a reply to parentID.
func (c *Client) CreateComment(ctx context.Context, postID int64, body string, parentID *int64) (*Comment, error) {
	req := struct {
		Body     string `json:"body"`
		ParentID *int64 `json:"parent_id,omitempty"`
	}{Body: body, ParentID: parentID}
	rel := &url.URL{Path: fmt.Sprintf("/posts/%d/comments", postID)}
	var payload Comment
	if err := c.do(ctx, http.MethodPost, rel, req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ToggleFollow flips the viewer's follow on a user and returns the authoritative state.
func (c *Client) ToggleFollow(ctx context.Context, username string) (*FollowToggleResponse, error) {
	rel := &url.URL{Path: "/users/" + url.PathEscape(username) + "/follow-toggle"}
	var payload FollowToggleResponse
	if err := c.do(ctx, http.MethodPost, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Profile fetches a user profile with the requested page of their posts.
func (c *Client) Profile(ctx context.Context, username string, page int) (*ProfileResponse, error) {
	values := url.Values{}
	if page > 0 {
		values.Set("page", strconv.Itoa(page))
	}
	rel := &url.URL{Path: "/users/" + url.PathEscape(username), RawQuery: values.Encode()}
	var payload ProfileResponse
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func fetchPage[T any](ctx context.Context, c *Client, rel *url.URL) (Page[T], error) {
	var payload Page[T]
	if err := c.do(ctx, http.MethodGet, rel, nil, &payload); err != nil {
		return Page[T]{}, err
	}
	return payload, nil
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	// Preserve any path prefix on the base URL (e.g. http://host/api).
	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + rel.Path
	reqURL.RawQuery = rel.RawQuery

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindTransport, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var payload errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		_ = json.Unmarshal(raw, &payload)
		return classify(resp.StatusCode, payload)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		return nil, fmt.Errorf("server address is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", server, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
