package session

import (
	"sync"
	"testing"

	"github.com/perchapp/perch/internal/api"
)

func TestBeginProbe_FiresExactlyOnce(t *testing.T) {
	var s Store
	if !s.BeginProbe() {
		t.Fatal("first BeginProbe = false, want true")
	}
	for i := 0; i < 3; i++ {
		if s.BeginProbe() {
			t.Fatal("BeginProbe fired twice")
		}
	}
}

func TestFinishProbe_NilLeavesAnonymous(t *testing.T) {
	var s Store
	s.BeginProbe()
	s.FinishProbe(nil)
	if s.Authenticated() {
		t.Error("store authenticated after failed probe")
	}

	s.FinishProbe(&api.User{ID: 1, Username: "ari"})
	user, ok := s.User()
	if !ok || user.Username != "ari" {
		t.Errorf("User() = (%#v, %v), want ari", user, ok)
	}
}

func TestForceLogout_SingleTrigger(t *testing.T) {
	var s Store
	s.SetUser(api.User{ID: 1, Username: "ari"})

	if !s.ForceLogout() {
		t.Fatal("first ForceLogout = false, want true")
	}
	if s.Authenticated() {
		t.Error("identity survives forced logout")
	}
	if s.ForceLogout() {
		t.Error("second ForceLogout fired; trigger must be suppressed")
	}

	// A new login re-arms the trigger.
	s.SetUser(api.User{ID: 1, Username: "ari"})
	if !s.ForceLogout() {
		t.Error("ForceLogout did not re-arm after SetUser")
	}
}

func TestForceLogout_ConcurrentUnauthorizedResponses(t *testing.T) {
	var s Store
	s.SetUser(api.User{ID: 1})

	// Two in-flight requests observe a 401 near-simultaneously.
	var wg sync.WaitGroup
	fired := make(chan bool, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fired <- s.ForceLogout()
		}()
	}
	wg.Wait()
	close(fired)

	count := 0
	for f := range fired {
		if f {
			count++
		}
	}
	if count != 1 {
		t.Errorf("forced logout fired %d times, want exactly once", count)
	}
}

func TestClear_DoesNotArmTrigger(t *testing.T) {
	var s Store
	s.SetUser(api.User{ID: 1})
	s.Clear()
	if s.Authenticated() {
		t.Error("identity survives Clear")
	}
	// Explicit logout is not an unauthorized response; a later 401 while
	// anonymous still fires once.
	if !s.ForceLogout() {
		t.Error("ForceLogout suppressed after plain Clear")
	}
}
