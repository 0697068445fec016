package pager

import (
	"reflect"

	"github.com/perchapp/perch/internal/api"
)

// Status is the loader's fetch state.
type Status int

const (
	// StatusIdle means nothing has been requested yet.
	StatusIdle Status = iota
	// StatusLoadingInitial means the first page is in flight and there is
	// nothing to show.
	StatusLoadingInitial
	// StatusLoadingMore means a follow-up page is in flight behind existing items.
	StatusLoadingMore
	// StatusError means the most recent fetch failed. Items are untouched and
	// re-invoking the failed operation retries it.
	StatusError
	// StatusReady means the last fetch succeeded.
	StatusReady
)

// RequestKind distinguishes the three fetch operations.
type RequestKind int

const (
	ReqInitial RequestKind = iota
	ReqMore
	ReqRefresh
)

// Request describes a fetch the caller must dispatch. The loader performs no
// I/O itself: the view layer runs the request and feeds the response back
// through Apply. The generation tag identifies stale responses.
type Request struct {
	Page int
	Kind RequestKind
	gen  int
}

// Outcome reports what Apply did with a response.
type Outcome int

const (
	// Applied means items and cursor were updated.
	Applied Outcome = iota
	// Stale means the response belonged to a superseded request and was discarded.
	Stale
	// Unchanged means a refresh returned a first page identical to the one on
	// screen; nothing was replaced.
	Unchanged
	// Errored means the fetch failed; items and cursor are untouched.
	Errored
)

// Loader accumulates pages of a homogeneous collection. It owns the page
// cursor, guards against overlapping fetches, and discards responses that a
// refresh has made stale. Not safe for concurrent use; it is designed to be
// driven entirely from a single update loop.
type Loader[T any] struct {
	items        []T
	currentPage  int
	lastPage     int
	total        int
	status       Status
	gen          int
	refreshing   bool
	firstPageLen int
}

// Items returns the accumulated items in server page order. The slice is the
// loader's backing store; callers must treat it as read-only.
func (l *Loader[T]) Items() []T { return l.items }

// SetItem replaces the item at index in place. This is the one sanctioned
// mutation of loaded items, used by optimistic toggles; out-of-range indexes
// are ignored (the item may have been dropped by an intervening refresh).
func (l *Loader[T]) SetItem(index int, item T) {
	if index < 0 || index >= len(l.items) {
		return
	}
	l.items[index] = item
}

// Status returns the current fetch state.
func (l *Loader[T]) Status() Status { return l.status }

// CurrentPage returns the last successfully fetched page number, 0 before the
// first fetch.
func (l *Loader[T]) CurrentPage() int { return l.currentPage }

// LastPage returns the server-reported total page count.
func (l *Loader[T]) LastPage() int { return l.lastPage }

// Total returns the server-reported total item count. Advisory, for display.
func (l *Loader[T]) Total() int { return l.total }

// Refreshing reports whether a refresh is in flight behind visible items.
func (l *Loader[T]) Refreshing() bool { return l.refreshing }

// HasMore reports whether another page exists.
func (l *Loader[T]) HasMore() bool { return l.currentPage < l.lastPage }

// Loading reports whether any fetch is in flight.
func (l *Loader[T]) Loading() bool {
	return l.refreshing || l.status == StatusLoadingInitial || l.status == StatusLoadingMore
}

// LoadFirst resets the collection and requests page 1. Returns false while an
// initial fetch or refresh is already in flight. An in-flight load-more is
// superseded; its response will be discarded as stale.
func (l *Loader[T]) LoadFirst() (Request, bool) {
	if l.status == StatusLoadingInitial || l.refreshing {
		return Request{}, false
	}
	l.gen++
	l.items = nil
	l.currentPage = 0
	l.lastPage = 0
	l.total = 0
	l.firstPageLen = 0
	l.status = StatusLoadingInitial
	return Request{Page: 1, Kind: ReqInitial, gen: l.gen}, true
}

// LoadNext requests the page after the current cursor. No-op while any fetch
// is in flight or when the collection is exhausted, so rapid repeat calls
// dispatch at most one request.
func (l *Loader[T]) LoadNext() (Request, bool) {
	if l.Loading() {
		return Request{}, false
	}
	if l.currentPage >= l.lastPage {
		return Request{}, false
	}
	l.status = StatusLoadingMore
	return Request{Page: l.currentPage + 1, Kind: ReqMore, gen: l.gen}, true
}

// Refresh requests page 1 while keeping the existing items visible until the
// response lands. Refresh wins over an in-flight load-more: the older
// response is invalidated. Before the first load it behaves like LoadFirst.
func (l *Loader[T]) Refresh() (Request, bool) {
	if l.refreshing {
		return Request{}, false
	}
	if l.currentPage == 0 {
		return l.LoadFirst()
	}
	l.gen++
	if l.status == StatusLoadingMore {
		l.status = StatusReady
	}
	l.refreshing = true
	return Request{Page: 1, Kind: ReqRefresh, gen: l.gen}, true
}

// Apply feeds a fetch result back into the loader. Responses whose request
// was superseded by a reset, or that do not line up with the fetch the loader
// is currently waiting on, are discarded without touching state. The second
// check matters when a view is abandoned mid-fetch and re-opened: the stray
// response reaches a fresh loader whose generation counter happens to match,
// but its page does not extend the new cursor.
func (l *Loader[T]) Apply(req Request, page api.Page[T], err error) Outcome {
	if req.gen != l.gen {
		return Stale
	}
	switch req.Kind {
	case ReqInitial:
		if l.status != StatusLoadingInitial {
			return Stale
		}
	case ReqMore:
		if l.status != StatusLoadingMore || req.Page != l.currentPage+1 {
			return Stale
		}
	case ReqRefresh:
		if !l.refreshing {
			return Stale
		}
	}
	if err != nil {
		l.refreshing = false
		l.status = StatusError
		return Errored
	}

	switch req.Kind {
	case ReqInitial:
		l.items = page.Data
		l.firstPageLen = len(page.Data)
		l.setCursor(req, page)
		l.status = StatusReady
		return Applied

	case ReqMore:
		l.items = append(l.items, page.Data...)
		l.setCursor(req, page)
		l.status = StatusReady
		return Applied

	default: // ReqRefresh
		l.refreshing = false
		l.status = StatusReady
		if l.sameFirstPage(page.Data) {
			// Keep already-loaded pages; only advisory fields move.
			l.lastPage = page.LastPage
			l.total = page.Total
			return Unchanged
		}
		l.items = page.Data
		l.firstPageLen = len(page.Data)
		l.setCursor(req, page)
		return Applied
	}
}

func (l *Loader[T]) setCursor(req Request, page api.Page[T]) {
	l.currentPage = page.CurrentPage
	if l.currentPage == 0 {
		l.currentPage = req.Page
	}
	l.lastPage = page.LastPage
	// A null next_page_url means exhausted regardless of last_page.
	if page.NextPageURL == nil && l.lastPage > l.currentPage {
		l.lastPage = l.currentPage
	}
	l.total = page.Total
}

// sameFirstPage compares a refreshed first page against the head of the
// current items by value.
func (l *Loader[T]) sameFirstPage(data []T) bool {
	if len(data) != l.firstPageLen || l.firstPageLen > len(l.items) {
		return false
	}
	for i := range data {
		if !reflect.DeepEqual(data[i], l.items[i]) {
			return false
		}
	}
	return true
}
