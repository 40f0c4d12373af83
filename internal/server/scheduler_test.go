package server

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"padbridge/internal/actuator"
)

func newTestScheduler(delay time.Duration) (*Scheduler, *actuator.Recorder) {
	rec := &actuator.Recorder{}
	return NewScheduler(rec, zap.NewNop().Sugar(), &Metrics{}, delay), rec
}

func countOps(events []actuator.RecordedEvent, op string) int {
	n := 0
	for _, e := range events {
		if e.Op == op {
			n++
		}
	}
	return n
}

func TestAutoReleaseFiresOnce(t *testing.T) {
	sched, rec := newTestScheduler(20 * time.Millisecond)
	defer sched.Stop()

	sched.Press("player1", "A", false)
	time.Sleep(80 * time.Millisecond)

	events := rec.Events()
	if got := countOps(events, "press_button"); got != 1 {
		t.Errorf("expected 1 press, got %d", got)
	}
	if got := countOps(events, "release_button"); got != 1 {
		t.Errorf("expected 1 release, got %d", got)
	}
	if sched.PendingCount() != 0 {
		t.Errorf("expected no pending timers, got %d", sched.PendingCount())
	}
}

func TestExplicitReleasePreemptsTimer(t *testing.T) {
	sched, rec := newTestScheduler(50 * time.Millisecond)
	defer sched.Stop()

	sched.Press("player1", "B", false)
	sched.Release("player1", "B")
	time.Sleep(120 * time.Millisecond)

	if got := countOps(rec.Events(), "release_button"); got != 1 {
		t.Errorf("expected exactly 1 release, got %d", got)
	}
}

func TestHoldSkipsAutoRelease(t *testing.T) {
	sched, rec := newTestScheduler(20 * time.Millisecond)
	defer sched.Stop()

	sched.Press("player1", "X", true)
	time.Sleep(80 * time.Millisecond)

	if got := countOps(rec.Events(), "release_button"); got != 0 {
		t.Errorf("held button must not auto-release, got %d releases", got)
	}

	sched.Release("player1", "X")
	if got := countOps(rec.Events(), "release_button"); got != 1 {
		t.Errorf("expected 1 release after explicit release, got %d", got)
	}
}

func TestRepressReschedulesTimer(t *testing.T) {
	sched, rec := newTestScheduler(40 * time.Millisecond)
	defer sched.Stop()

	sched.Press("player1", "Y", false)
	time.Sleep(25 * time.Millisecond)
	sched.Press("player1", "Y", false)
	time.Sleep(25 * time.Millisecond)

	// First timer was cancelled by the second press, so only the
	// rescheduled release should be outstanding.
	if got := countOps(rec.Events(), "release_button"); got != 0 {
		t.Errorf("release fired too early: %d", got)
	}
	time.Sleep(40 * time.Millisecond)
	if got := countOps(rec.Events(), "release_button"); got != 1 {
		t.Errorf("expected 1 release after reschedule, got %d", got)
	}
}

func TestPerPlayerTimersAreIndependent(t *testing.T) {
	sched, rec := newTestScheduler(20 * time.Millisecond)
	defer sched.Stop()

	sched.Press("player1", "A", false)
	sched.Press("player2", "A", false)
	time.Sleep(80 * time.Millisecond)

	events := rec.Events()
	if got := countOps(events, "release_button"); got != 2 {
		t.Errorf("expected a release per player, got %d", got)
	}
}
