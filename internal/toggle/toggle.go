// Package toggle coordinates optimistic two-state mutations (like, follow).
//
// A toggle has three phases: propose (flip locally before the server
// answers), then confirm with the server's authoritative value or revert to
// the exact pre-toggle state on failure. The controller owns the pending
// bookkeeping so the revert path is always exact; the caller owns the state
// being displayed and applies the returned Change to it.
//
// While a toggle for a target is in flight, further toggles for the same
// target are rejected, so a rapid double-press costs one round trip, not two.
// Distinct targets are independent.
package toggle

// Change describes the values the caller should now display for a target.
type Change struct {
	TargetID string
	Active   bool
	Count    int
}

type pending struct {
	prevActive bool
	prevCount  int
}

// Controller tracks in-flight toggles by target. The zero value is ready to
// use. Not safe for concurrent use; drive it from the UI update loop.
type Controller struct {
	inflight map[string]pending
}

// Pending reports whether a toggle for id is awaiting its server response.
func (c *Controller) Pending(id string) bool {
	_, ok := c.inflight[id]
	return ok
}

// Begin proposes a toggle. active and count are the values currently
// displayed; the returned Change is the optimistic flip (count incremented
// when turning on, decremented floored at zero when turning off). Returns
// false when a toggle for id is already in flight, in which case nothing is
// recorded and the caller must not dispatch a request.
func (c *Controller) Begin(id string, active bool, count int) (Change, bool) {
	if c.Pending(id) {
		return Change{}, false
	}
	if c.inflight == nil {
		c.inflight = make(map[string]pending)
	}
	c.inflight[id] = pending{prevActive: active, prevCount: count}

	next := Change{TargetID: id, Active: !active}
	if next.Active {
		next.Count = count + 1
	} else {
		next.Count = count - 1
		if next.Count < 0 {
			next.Count = 0
		}
	}
	return next, true
}

// Confirm settles a toggle with the server's authoritative values, which
// overwrite the optimistic guess even when they agree with it. hasCount is
// false for toggles whose response carries no counter (follow); the counter
// is then derived from the authoritative boolean and the pre-toggle values.
func (c *Controller) Confirm(id string, active bool, count int, hasCount bool) (Change, bool) {
	prev, ok := c.inflight[id]
	if !ok {
		return Change{}, false
	}
	delete(c.inflight, id)

	change := Change{TargetID: id, Active: active}
	if hasCount {
		change.Count = count
		return change, true
	}
	// No authoritative counter: derive it from the authoritative boolean and
	// the pre-toggle values, so a server that refused the flip also restores
	// the counter.
	if active == prev.prevActive {
		change.Count = prev.prevCount
	} else if active {
		change.Count = prev.prevCount + 1
	} else {
		change.Count = prev.prevCount - 1
		if change.Count < 0 {
			change.Count = 0
		}
	}
	return change, true
}

// Revert abandons a failed toggle and returns the exact pre-toggle values.
func (c *Controller) Revert(id string) (Change, bool) {
	prev, ok := c.inflight[id]
	if !ok {
		return Change{}, false
	}
	delete(c.inflight, id)
	return Change{TargetID: id, Active: prev.prevActive, Count: prev.prevCount}, true
}
