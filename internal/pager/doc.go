// Package pager implements the page-cursor state machine behind every
// incrementally loaded collection (the feed, comment threads, profile posts).
//
// # Overview
//
// A Loader[T] accumulates pages in server order and owns the invariants the
// views rely on:
//
//   - at most one fetch is in flight per collection; extra LoadNext calls
//     while loading are no-ops
//   - items only grow while the cursor advances; the only reset points are
//     LoadFirst and a refresh that actually changed the first page
//   - a response to a request superseded by a refresh is discarded
//
// # I/O Boundary
//
// The loader never touches the network. LoadFirst, LoadNext, and Refresh
// return a Request describing the fetch the caller must dispatch; the caller
// runs it (as a Bubble Tea command) and hands the response to Apply. Because
// both halves run on the single UI update loop, no locking is needed and
// every state transition is sequential.
//
// # Stale Responses
//
// Each Request carries the generation counter valid at dispatch time.
// LoadFirst and Refresh bump the generation, so a load-more response that
// arrives after an intervening reset no longer matches and Apply reports
// Stale without mutating anything. Apply additionally requires the response
// to line up with the fetch currently in flight (its kind, and for load-more
// the page just past the cursor), which also rejects requests carried over
// from an abandoned loader instance whose generation happens to coincide.
// This replaces any reliance on responses arriving in request order.
//
// # Refresh Semantics
//
// Refresh keeps the current items on screen until the new first page
// resolves, avoiding a flash to empty. If the refreshed first page is
// value-identical to the head of the current items, Apply reports Unchanged
// and leaves the accumulated pages and cursor alone, so a refresh never
// throws away pages the user has already scrolled through for no reason.
// This comparison applies uniformly to every collection.
//
// # Error Semantics
//
// A failed fetch sets StatusError and touches nothing else: items, cursor,
// and totals keep their pre-request values, so re-invoking the same
// operation is a retry. An initial load failure therefore leaves the
// collection empty, which is the one case the views render as a full-panel
// error.
package pager
