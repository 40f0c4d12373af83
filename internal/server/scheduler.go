package server

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"padbridge/internal/actuator"
)

// DefaultAutoRelease is the delay before a momentary button press is
// released automatically.
const DefaultAutoRelease = 100 * time.Millisecond

// Scheduler presses virtual controller buttons and schedules their
// cancellable auto-release. One pending timer exists per (player, button);
// re-pressing restarts the press and reschedules its timer.
type Scheduler struct {
	act     actuator.Actuator
	log     *zap.SugaredLogger
	metrics *Metrics
	delay   time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewScheduler creates a scheduler with the given auto-release delay.
func NewScheduler(act actuator.Actuator, log *zap.SugaredLogger, metrics *Metrics, delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultAutoRelease
	}
	return &Scheduler{
		act:     act,
		log:     log,
		metrics: metrics,
		delay:   delay,
		pending: make(map[string]*time.Timer),
	}
}

func actionKey(player, button string) string {
	return player + "/" + button
}

// Press presses a button. Unless hold is set, a release fires automatically
// after the configured delay. An actuator failure is logged but does not
// prevent the timer from being scheduled.
func (s *Scheduler) Press(player, button string, hold bool) {
	if err := s.act.PressButton(player, button); err != nil {
		s.log.Errorf("Failed to press %s for %s: %v", button, player, err)
		s.metrics.IncActuatorErrors()
	}

	k := actionKey(player, button)
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[k]; ok {
		t.Stop()
		delete(s.pending, k)
	}
	if hold {
		return
	}
	s.pending[k] = time.AfterFunc(s.delay, func() {
		s.autoRelease(player, button, k)
	})
}

func (s *Scheduler) autoRelease(player, button, k string) {
	s.mu.Lock()
	delete(s.pending, k)
	s.mu.Unlock()

	if err := s.act.ReleaseButton(player, button); err != nil {
		s.log.Errorf("Failed to auto-release %s for %s: %v", button, player, err)
		s.metrics.IncActuatorErrors()
	}
}

// Release cancels a pending auto-release for the action, if any, and
// releases the button.
func (s *Scheduler) Release(player, button string) {
	k := actionKey(player, button)
	s.mu.Lock()
	if t, ok := s.pending[k]; ok {
		t.Stop()
		delete(s.pending, k)
	}
	s.mu.Unlock()

	if err := s.act.ReleaseButton(player, button); err != nil {
		s.log.Errorf("Failed to release %s for %s: %v", button, player, err)
		s.metrics.IncActuatorErrors()
	}
}

// PendingCount returns the number of scheduled auto-releases.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Stop cancels all pending timers. Buttons already pressed stay pressed.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, t := range s.pending {
		t.Stop()
		delete(s.pending, k)
	}
}
