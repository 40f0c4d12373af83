package session

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"padbridge/internal/protocol"
)

func newTestStore() *Store {
	return NewStore(zap.NewNop().Sugar())
}

// TestResolveAdmitsUnknownSenders tests that resolving never fails and that
// new senders default to player1.
func TestResolveAdmitsUnknownSenders(t *testing.T) {
	st := newTestStore()

	sess := st.Resolve("10.0.0.5:40000")
	if sess == nil {
		t.Fatal("Expected a session, got nil")
	}
	if sess.Player != protocol.Player1 {
		t.Errorf("Expected default identity player1, got %q", sess.Player)
	}
	if sess.Touch == nil {
		t.Error("Expected touch state to be allocated with the session")
	}
	if again := st.Resolve("10.0.0.5:40000"); again != sess {
		t.Error("Expected resolve to return the same session for the same address")
	}
	if st.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", st.Len())
	}
}

// TestSetPlayerReassignsIdentity tests identity reassignment.
func TestSetPlayerReassignsIdentity(t *testing.T) {
	st := newTestStore()
	st.Resolve("10.0.0.5:40000")
	st.SetPlayer("10.0.0.5:40000", protocol.Player2)

	if got := st.Player("10.0.0.5:40000"); got != protocol.Player2 {
		t.Errorf("Expected player2 after reassignment, got %q", got)
	}
}

// TestSweepEvictsSilentSessions tests timeout-based eviction: a session
// silent for >30s is gone after the next sweep, one with recent traffic
// survives.
func TestSweepEvictsSilentSessions(t *testing.T) {
	st := newTestStore()
	base := time.Now()

	stale := st.Resolve("10.0.0.5:40000")
	fresh := st.Resolve("10.0.0.6:40000")

	// Simulate: stale last spoke 31s ago, fresh spoke 5s ago.
	stale.LastSeen = base.Add(-31 * time.Second)
	fresh.LastSeen = base.Add(-5 * time.Second)

	evicted := st.Sweep(base, DefaultTimeout)
	if len(evicted) != 1 || evicted[0].Addr != "10.0.0.5:40000" {
		t.Fatalf("Expected only the stale session to be evicted, got %v", evicted)
	}
	if st.Len() != 1 {
		t.Errorf("Expected 1 surviving session, got %d", st.Len())
	}

	// Traffic at second 25 keeps a session alive past second 30.
	fresh.LastSeen = base.Add(-25 * time.Second)
	if evicted := st.Sweep(base.Add(5*time.Second), DefaultTimeout); len(evicted) != 0 {
		t.Errorf("Expected no eviction for recently active session, got %v", evicted)
	}
}
