package pager

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/perchapp/perch/internal/api"
)

type item struct {
	ID   int
	Body string
}

func page(nums []int, current, last, total int) api.Page[item] {
	data := make([]item, 0, len(nums))
	for _, n := range nums {
		data = append(data, item{ID: n})
	}
	next := "next"
	p := api.Page[item]{Data: data, CurrentPage: current, LastPage: last, Total: total}
	if current < last {
		p.NextPageURL = &next
	}
	return p
}

func ids(items []item) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestLoader_FirstPageReplacesItems(t *testing.T) {
	var l Loader[item]

	req, ok := l.LoadFirst()
	if !ok {
		t.Fatal("LoadFirst refused on idle loader")
	}
	if req.Page != 1 {
		t.Fatalf("LoadFirst page = %d, want 1", req.Page)
	}
	if l.Status() != StatusLoadingInitial {
		t.Fatalf("status = %v, want StatusLoadingInitial", l.Status())
	}

	if out := l.Apply(req, page([]int{1, 2, 3}, 1, 3, 9), nil); out != Applied {
		t.Fatalf("Apply = %v, want Applied", out)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, ids(l.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if l.Status() != StatusReady || l.CurrentPage() != 1 || l.LastPage() != 3 || l.Total() != 9 {
		t.Errorf("state = status %v page %d/%d total %d, want Ready 1/3 9",
			l.Status(), l.CurrentPage(), l.LastPage(), l.Total())
	}
}

func TestLoader_AppendsPagesInOrder(t *testing.T) {
	var l Loader[item]

	req, _ := l.LoadFirst()
	l.Apply(req, page([]int{1, 2}, 1, 3, 6), nil)

	req, ok := l.LoadNext()
	if !ok || req.Page != 2 {
		t.Fatalf("LoadNext = (%+v, %v), want page 2 dispatch", req, ok)
	}
	l.Apply(req, page([]int{3, 4}, 2, 3, 6), nil)

	req, _ = l.LoadNext()
	l.Apply(req, page([]int{5, 6}, 3, 3, 6), nil)

	// Items must equal the concatenation of pages 1..3 in server order.
	if diff := cmp.Diff([]int{1, 2, 3, 4, 5, 6}, ids(l.Items())); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if l.HasMore() {
		t.Errorf("HasMore() = true after final page")
	}
	if _, ok := l.LoadNext(); ok {
		t.Errorf("LoadNext dispatched past the last page")
	}
}

func TestLoader_DuplicateLoadNextIsNoOp(t *testing.T) {
	var l Loader[item]
	req, _ := l.LoadFirst()
	l.Apply(req, page([]int{1}, 1, 5, 5), nil)

	first, ok := l.LoadNext()
	if !ok {
		t.Fatal("first LoadNext refused")
	}
	for i := 0; i < 3; i++ {
		if _, ok := l.LoadNext(); ok {
			t.Fatalf("LoadNext %d dispatched while another fetch is in flight", i+2)
		}
	}

	l.Apply(first, page([]int{2}, 2, 5, 5), nil)
	if got := len(l.Items()); got != 2 {
		t.Errorf("items length = %d, want 2 (exactly one resolved fetch)", got)
	}
}

func TestLoader_LoadNextFailureKeepsCursorForRetry(t *testing.T) {
	var l Loader[item]
	req, _ := l.LoadFirst()
	l.Apply(req, page([]int{1, 2}, 1, 2, 4), nil)

	req, _ = l.LoadNext()
	if out := l.Apply(req, api.Page[item]{}, errors.New("boom")); out != Errored {
		t.Fatalf("Apply = %v, want Errored", out)
	}
	if l.Status() != StatusError {
		t.Errorf("status = %v, want StatusError", l.Status())
	}
	if diff := cmp.Diff([]int{1, 2}, ids(l.Items())); diff != "" {
		t.Errorf("items changed on failure (-want +got):\n%s", diff)
	}
	if l.CurrentPage() != 1 {
		t.Errorf("cursor = %d, want 1 (unchanged)", l.CurrentPage())
	}

	// Retry dispatches the same page again.
	retry, ok := l.LoadNext()
	if !ok || retry.Page != 2 {
		t.Fatalf("retry LoadNext = (%+v, %v), want page 2 dispatch", retry, ok)
	}
}

func TestLoader_StaleResponseAfterRefreshDiscarded(t *testing.T) {
	var l Loader[item]
	req, _ := l.LoadFirst()
	l.Apply(req, page([]int{1, 2}, 1, 3, 6), nil)

	more, _ := l.LoadNext()
	refresh, ok := l.Refresh()
	if !ok {
		t.Fatal("Refresh refused while load-more in flight")
	}

	// The superseded load-more resolves after the refresh was issued.
	if out := l.Apply(more, page([]int{3, 4}, 2, 3, 6), nil); out != Stale {
		t.Fatalf("stale Apply = %v, want Stale", out)
	}
	if diff := cmp.Diff([]int{1, 2}, ids(l.Items())); diff != "" {
		t.Errorf("stale response mutated items (-want +got):\n%s", diff)
	}

	l.Apply(refresh, page([]int{9, 1}, 1, 3, 6), nil)
	if diff := cmp.Diff([]int{9, 1}, ids(l.Items())); diff != "" {
		t.Errorf("refresh result not applied (-want +got):\n%s", diff)
	}
}

func TestLoader_RefreshKeepsItemsUntilResolved(t *testing.T) {
	var l Loader[item]
	req, _ := l.LoadFirst()
	l.Apply(req, page([]int{1, 2}, 1, 2, 4), nil)

	refresh, _ := l.Refresh()
	if !l.Refreshing() {
		t.Error("Refreshing() = false while refresh in flight")
	}
	if got := len(l.Items()); got != 2 {
		t.Errorf("items hidden during refresh: length = %d, want 2", got)
	}
	if _, ok := l.Refresh(); ok {
		t.Error("second Refresh dispatched while one is in flight")
	}

	l.Apply(refresh, page([]int{7}, 1, 1, 1), nil)
	if diff := cmp.Diff([]int{7}, ids(l.Items())); diff != "" {
		t.Errorf("items after refresh (-want +got):\n%s", diff)
	}
}

func TestLoader_RefreshUnchangedFirstPage(t *testing.T) {
	var l Loader[item]
	req, _ := l.LoadFirst()
	l.Apply(req, page([]int{1, 2}, 1, 3, 6), nil)
	more, _ := l.LoadNext()
	l.Apply(more, page([]int{3, 4}, 2, 3, 6), nil)

	refresh, _ := l.Refresh()
	out := l.Apply(refresh, page([]int{1, 2}, 1, 3, 7), nil)
	if out != Unchanged {
		t.Fatalf("Apply = %v, want Unchanged", out)
	}
	// Accumulated pages and cursor survive; advisory total moves.
	if diff := cmp.Diff([]int{1, 2, 3, 4}, ids(l.Items())); diff != "" {
		t.Errorf("unchanged refresh replaced items (-want +got):\n%s", diff)
	}
	if l.CurrentPage() != 2 {
		t.Errorf("cursor = %d, want 2", l.CurrentPage())
	}
	if l.Total() != 7 {
		t.Errorf("total = %d, want 7", l.Total())
	}
}

func TestLoader_EmptyCollection(t *testing.T) {
	var l Loader[item]
	req, _ := l.LoadFirst()

	out := l.Apply(req, api.Page[item]{Data: []item{}, CurrentPage: 1, LastPage: 1, Total: 0}, nil)
	if out != Applied {
		t.Fatalf("Apply = %v, want Applied", out)
	}
	if l.Status() != StatusReady {
		t.Errorf("status = %v, want StatusReady", l.Status())
	}
	if len(l.Items()) != 0 {
		t.Errorf("items = %v, want empty", l.Items())
	}
	// currentPage (1) >= lastPage (1): loading more is a permanent no-op.
	for i := 0; i < 2; i++ {
		if _, ok := l.LoadNext(); ok {
			t.Fatal("LoadNext dispatched on an exhausted empty collection")
		}
	}
}

func TestLoader_InitialFailureLeavesEmpty(t *testing.T) {
	var l Loader[item]
	req, _ := l.LoadFirst()
	if out := l.Apply(req, api.Page[item]{}, errors.New("down")); out != Errored {
		t.Fatalf("Apply = %v, want Errored", out)
	}
	if l.Status() != StatusError || len(l.Items()) != 0 {
		t.Errorf("state = %v with %d items, want StatusError and empty", l.Status(), len(l.Items()))
	}
	if _, ok := l.LoadFirst(); !ok {
		t.Error("LoadFirst retry refused after failure")
	}
}

func TestLoader_NullNextPageMeansExhausted(t *testing.T) {
	var l Loader[item]
	req, _ := l.LoadFirst()

	// Server claims more pages but next_page_url is null; null wins.
	p := api.Page[item]{Data: []item{{ID: 1}}, CurrentPage: 1, LastPage: 4, Total: 4}
	l.Apply(req, p, nil)
	if l.HasMore() {
		t.Error("HasMore() = true with null next_page_url")
	}
}

func TestLoader_RefreshBeforeFirstLoadActsAsLoadFirst(t *testing.T) {
	var l Loader[item]
	req, ok := l.Refresh()
	if !ok || req.Kind != ReqInitial {
		t.Fatalf("Refresh on idle loader = (%+v, %v), want initial dispatch", req, ok)
	}
	if l.Status() != StatusLoadingInitial {
		t.Errorf("status = %v, want StatusLoadingInitial", l.Status())
	}
}

func TestLoader_SetItemReplacesInPlace(t *testing.T) {
	var l Loader[item]
	req, _ := l.LoadFirst()
	l.Apply(req, page([]int{1, 2, 3}, 1, 1, 3), nil)

	l.SetItem(1, item{ID: 2, Body: "edited"})
	if diff := cmp.Diff([]int{1, 2, 3}, ids(l.Items())); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	if l.Items()[1].Body != "edited" {
		t.Errorf("Body = %q, want edited", l.Items()[1].Body)
	}

	// Out-of-range indexes are ignored.
	l.SetItem(-1, item{ID: 99})
	l.SetItem(3, item{ID: 99})
	if diff := cmp.Diff([]int{1, 2, 3}, ids(l.Items())); diff != "" {
		t.Errorf("ids after out-of-range SetItem (-want +got):\n%s", diff)
	}
}

func TestLoader_ResponseFromAbandonedLoaderDiscarded(t *testing.T) {
	// A view torn down mid-fetch leaves its last request in flight. When the
	// same target is re-opened, a fresh loader starts over; the stray
	// response must not splice its page into the new collection.
	var old Loader[item]
	req, _ := old.LoadFirst()
	old.Apply(req, page([]int{1, 2}, 1, 4, 8), nil)
	req, _ = old.LoadNext()
	old.Apply(req, page([]int{3, 4}, 2, 4, 8), nil)
	req, _ = old.LoadNext()
	old.Apply(req, page([]int{5, 6}, 3, 4, 8), nil)
	inflight, _ := old.LoadNext() // page 4, never resolved in the old view

	var fresh Loader[item]
	req, _ = fresh.LoadFirst()
	fresh.Apply(req, page([]int{1, 2}, 1, 4, 8), nil)

	if got := fresh.Apply(inflight, page([]int{7, 8}, 4, 4, 8), nil); got != Stale {
		t.Fatalf("Apply(abandoned page 4) = %v, want Stale", got)
	}
	if diff := cmp.Diff([]int{1, 2}, ids(fresh.Items())); diff != "" {
		t.Errorf("items mutated by stray response (-want +got):\n%s", diff)
	}
	if fresh.CurrentPage() != 1 {
		t.Errorf("CurrentPage() = %d, want 1", fresh.CurrentPage())
	}

	// The fresh loader still pages forward normally.
	req, ok := fresh.LoadNext()
	if !ok || req.Page != 2 {
		t.Fatalf("LoadNext = (%+v, %v), want page 2 dispatch", req, ok)
	}
	fresh.Apply(req, page([]int{3, 4}, 2, 4, 8), nil)
	if diff := cmp.Diff([]int{1, 2, 3, 4}, ids(fresh.Items())); diff != "" {
		t.Errorf("items after page 2 (-want +got):\n%s", diff)
	}
}
