package session

import (
	"sync"

	"github.com/perchapp/perch/internal/api"
)

// Store is the single source of truth for the authenticated identity. The
// zero value is ready to use and represents an anonymous session.
//
// The UI mutates it only from the update loop, but the mutex keeps it safe
// for reads from commands running off-loop.
type Store struct {
	mu        sync.Mutex
	user      *api.User
	probed    bool
	loggedOut bool // unauthorized trigger already fired
}

// User returns the current identity, if any.
func (s *Store) User() (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return api.User{}, false
	}
	return *s.user, true
}

// Authenticated reports whether an identity is present.
func (s *Store) Authenticated() bool {
	_, ok := s.User()
	return ok
}

// BeginProbe reports whether the session probe should run. It returns true
// exactly once per process lifetime; the probe is never retried, whatever its
// outcome. Anonymous browsing is a valid resting state.
func (s *Store) BeginProbe() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.probed {
		return false
	}
	s.probed = true
	return true
}

// FinishProbe records the probe result. A nil user (probe failure or no
// session) leaves the store anonymous.
func (s *Store) FinishProbe(user *api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user != nil {
		s.user = user
		s.loggedOut = false
	}
}

// SetUser installs an identity after login or registration and re-arms the
// forced-logout trigger.
func (s *Store) SetUser(user api.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.user = &u
	s.loggedOut = false
}

// Clear drops the identity. Used by explicit logout; does not itself trigger
// any navigation.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// ForceLogout handles an unauthorized response from any request. It clears
// the identity and returns true only for the first trigger since the last
// successful authentication; near-simultaneous 401s from multiple in-flight
// requests collapse into a single redirect.
func (s *Store) ForceLogout() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loggedOut {
		return false
	}
	s.loggedOut = true
	s.user = nil
	return true
}
