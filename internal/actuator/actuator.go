// Package actuator abstracts the OS input devices driven by the bridge:
// the shared pointer and keyboard, and one virtual game controller per
// player identity.
package actuator

import (
	"sync"
	"time"
)

// Actuator injects input events into the host. Implementations are
// synchronous, fallible and idempotent on repeated press/release.
type Actuator interface {
	// Shared keyboard.
	PressKey(key string) error
	ReleaseKey(key string) error
	// TapKey presses and releases in one call (literal text entry).
	TapKey(key string) error

	// Shared pointer.
	MovePointer(dx, dy int) error
	SetMouseButton(down bool) error

	// Per-player virtual controller. side is "LEFT" or "RIGHT";
	// stick coordinates are normalized to [-1, 1], triggers to [0, 1].
	SetStick(player, side string, x, y float64) error
	SetTrigger(player, side string, value float64) error
	PressButton(player, button string) error
	ReleaseButton(player, button string) error
}

// Nop discards every event. Used for dry runs and when no injection
// backend is available.
type Nop struct{}

func (Nop) PressKey(string) error                       { return nil }
func (Nop) ReleaseKey(string) error                     { return nil }
func (Nop) TapKey(string) error                         { return nil }
func (Nop) MovePointer(int, int) error                  { return nil }
func (Nop) SetMouseButton(bool) error                   { return nil }
func (Nop) SetStick(string, string, float64, float64) error { return nil }
func (Nop) SetTrigger(string, string, float64) error    { return nil }
func (Nop) PressButton(string, string) error            { return nil }
func (Nop) ReleaseButton(string, string) error          { return nil }

// RecordedEvent is one call captured by a Recorder.
type RecordedEvent struct {
	Time   time.Time
	Op     string // "press_key", "move_pointer", "press_button", ...
	Player string
	Key    string
	Button string
	Side   string
	DX, DY int
	X, Y   float64
	Value  float64
	Down   bool
}

// Recorder captures every call with a timestamp. It backs the test suites
// and is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []RecordedEvent
}

func (r *Recorder) record(e RecordedEvent) {
	e.Time = time.Now()
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []RecordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Reset discards recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

func (r *Recorder) PressKey(key string) error {
	r.record(RecordedEvent{Op: "press_key", Key: key})
	return nil
}

func (r *Recorder) ReleaseKey(key string) error {
	r.record(RecordedEvent{Op: "release_key", Key: key})
	return nil
}

func (r *Recorder) TapKey(key string) error {
	r.record(RecordedEvent{Op: "tap_key", Key: key})
	return nil
}

func (r *Recorder) MovePointer(dx, dy int) error {
	r.record(RecordedEvent{Op: "move_pointer", DX: dx, DY: dy})
	return nil
}

func (r *Recorder) SetMouseButton(down bool) error {
	r.record(RecordedEvent{Op: "set_mouse_button", Down: down})
	return nil
}

func (r *Recorder) SetStick(player, side string, x, y float64) error {
	r.record(RecordedEvent{Op: "set_stick", Player: player, Side: side, X: x, Y: y})
	return nil
}

func (r *Recorder) SetTrigger(player, side string, value float64) error {
	r.record(RecordedEvent{Op: "set_trigger", Player: player, Side: side, Value: value})
	return nil
}

func (r *Recorder) PressButton(player, button string) error {
	r.record(RecordedEvent{Op: "press_button", Player: player, Button: button})
	return nil
}

func (r *Recorder) ReleaseButton(player, button string) error {
	r.record(RecordedEvent{Op: "release_button", Player: player, Button: button})
	return nil
}
