package auth

import (
	"testing"
	"time"
)

func TestSessionExpiry(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sm := NewSessionManager(time.Hour)
	sm.now = func() time.Time { return base }

	session := sm.Create("u1", "pilot@club.test", "jwt")
	if session.ExpiresAt != base.Add(time.Hour) {
		t.Fatalf("expires at %v, want ttl from injected clock", session.ExpiresAt)
	}

	if _, ok := sm.Get(session.Token); !ok {
		t.Fatal("fresh session not resolvable")
	}

	sm.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, ok := sm.Get(session.Token); ok {
		t.Fatal("expired session still resolvable")
	}
	// Get drops the expired entry.
	if sm.Active() != 0 {
		t.Fatalf("active = %d after expired lookup, want 0", sm.Active())
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	sm := NewSessionManager(time.Hour)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token := sm.Create("u1", "pilot@club.test", "jwt").Token
		if seen[token] {
			t.Fatalf("duplicate token %q", token)
		}
		seen[token] = true
	}
}

func TestSweepRemovesOnlyExpired(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	sm := NewSessionManager(time.Hour)
	sm.now = func() time.Time { return base }

	old := sm.Create("u1", "old@club.test", "jwt")

	sm.now = func() time.Time { return base.Add(30 * time.Minute) }
	fresh := sm.Create("u2", "fresh@club.test", "jwt")

	sm.now = func() time.Time { return base.Add(90 * time.Minute) }
	if removed := sm.Sweep(); removed != 1 {
		t.Fatalf("sweep removed %d sessions, want 1", removed)
	}

	if _, ok := sm.Get(old.Token); ok {
		t.Error("expired session survived the sweep")
	}
	if _, ok := sm.Get(fresh.Token); !ok {
		t.Error("live session removed by the sweep")
	}
}

func TestDestroyUnknownTokenIsNoop(t *testing.T) {
	sm := NewSessionManager(time.Hour)
	sm.Create("u1", "pilot@club.test", "jwt")

	sm.Destroy("no-such-token")
	if sm.Active() != 1 {
		t.Fatalf("active = %d, want 1", sm.Active())
	}
}
