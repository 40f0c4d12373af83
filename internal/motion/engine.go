package motion

import (
	"math"
	"sync"
	"time"
)

// MomentumTickInterval is the re-arm period of the edge-momentum decay loop.
const MomentumTickInterval = 20 * time.Millisecond

// State is the per-session smoothing state machine. All methods are
// safe for concurrent use; the receive loop and the momentum decay loop
// both mutate it.
type State struct {
	mu sync.Mutex

	havePrev     bool
	prevX, prevY float64

	// last smoothed delta, carried across samples and touch boundaries
	lastDX, lastDY float64

	momX, momY   float64
	edgeX, edgeY bool
	decaying     bool // a momentum loop currently owns the decay

	active   bool
	frames   int
	lastTime time.Time
}

// NewState returns a fresh smoothing state for one session.
func NewState() *State {
	return &State{}
}

// TouchDown resets the smoothing buffers for a new touch. The smoothed
// direction and any live momentum are deliberately preserved so a
// lift-and-reposition does not snap perceived motion.
func (s *State) TouchDown(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.havePrev = false
	s.frames = 0
	s.lastTime = now
	s.active = true
}

// TouchEnd marks the touch inactive. Momentum keeps decaying on its own.
func (s *State) TouchEnd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
}

// Active reports whether a touch is currently in progress.
func (s *State) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// TryStartDecay claims ownership of the momentum decay loop. It returns
// false when no axis is edge-active or another loop already runs.
func (s *State) TryStartDecay() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.decaying || (!s.edgeX && !s.edgeY) {
		return false
	}
	s.decaying = true
	return true
}

// Engine turns samples into pixel deltas according to the selected preset.
// The preset can be swapped at runtime (hot tuning through the status API).
type Engine struct {
	mu     sync.RWMutex
	preset Preset
}

// NewEngine creates an engine with the given preset.
func NewEngine(p Preset) *Engine {
	return &Engine{preset: p}
}

// Preset returns the current preset.
func (e *Engine) Preset() Preset {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.preset
}

// SetPreset swaps the smoothing policy for subsequent samples.
func (e *Engine) SetPreset(p Preset) {
	e.mu.Lock()
	e.preset = p
	e.mu.Unlock()
}

// Sample feeds one absolute normalized position into the state machine and
// returns the pixel delta to apply, if any.
//
// The first sample after a reset only records the reference position: a
// finger landing far from the previous touch must not teleport the pointer.
func (e *Engine) Sample(s *State, x, y float64, now time.Time) (dx, dy int, ok bool) {
	p := e.Preset()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || !s.havePrev {
		// New touch: remember where it starts, emit nothing.
		s.prevX, s.prevY = x, y
		s.havePrev = true
		s.active = true
		s.frames = 0
		s.lastTime = now
		return 0, 0, false
	}

	dt := now.Sub(s.lastTime)
	s.lastTime = now
	s.frames++

	rawX := x - s.prevX
	rawY := y - s.prevY
	s.prevX, s.prevY = x, y

	if math.Abs(rawX) < p.Deadzone && math.Abs(rawY) < p.Deadzone {
		return 0, 0, false
	}

	eff := p.Smoothing
	if p.Adaptive {
		if s.frames < 5 {
			eff = math.Min(0.9, eff+0.2)
		}
		if dt < 10*time.Millisecond {
			eff = math.Min(0.9, eff+0.1)
		}
	}

	smoothX := rawX*(1-eff) + s.lastDX*eff
	smoothY := rawY*(1-eff) + s.lastDY*eff
	s.lastDX, s.lastDY = smoothX, smoothY

	scaledX := clamp(smoothX*p.Sensitivity, p.MaxSpeed)
	scaledY := clamp(smoothY*p.Sensitivity, p.MaxSpeed)

	dx = int(scaledX)
	dy = int(scaledY)

	// Deliberate small motions must not vanish in integer truncation.
	if dx == 0 && math.Abs(smoothX) > p.Deadzone*2 {
		dx = unit(smoothX)
	}
	if dy == 0 && math.Abs(smoothY) > p.Deadzone*2 {
		dy = unit(smoothY)
	}

	if p.EdgeMomentum {
		if math.Abs(x) > p.EdgeMargin && math.Abs(scaledX) > p.EdgeThreshold {
			s.momX = scaledX
			s.edgeX = true
		}
		if math.Abs(y) > p.EdgeMargin && math.Abs(scaledY) > p.EdgeThreshold {
			s.momY = scaledY
			s.edgeY = true
		}
	}

	return dx, dy, dx != 0 || dy != 0
}

// Delta handles an already-relative delta: no reference position, no
// deadzone, no smoothing. The raw value is scaled by the delta gain and
// clamped per axis, with the same minimum unit step as the sample path so
// sub-pixel flicks are not lost to truncation.
func (e *Engine) Delta(rx, ry float64) (dx, dy int, ok bool) {
	p := e.Preset()
	scaledX := clamp(rx*p.DeltaGain, p.MaxSpeed)
	scaledY := clamp(ry*p.DeltaGain, p.MaxSpeed)
	dx = int(scaledX)
	dy = int(scaledY)
	if dx == 0 && math.Abs(scaledX) > 0.5 {
		dx = unit(scaledX)
	}
	if dy == 0 && math.Abs(scaledY) > 0.5 {
		dy = unit(scaledY)
	}
	return dx, dy, dx != 0 || dy != 0
}

// DecayTick advances edge momentum by one re-arm period and returns the
// pixel delta to emit. ok turns false once both axes are at rest; the
// caller must then stop its loop.
func (e *Engine) DecayTick(s *State) (dx, dy int, ok bool) {
	p := e.Preset()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edgeX {
		s.momX *= p.MomentumDecay
		if math.Abs(s.momX) < p.MomentumFloor {
			s.edgeX = false
			s.momX = 0
		} else {
			dx = int(s.momX)
		}
	}
	if s.edgeY {
		s.momY *= p.MomentumDecay
		if math.Abs(s.momY) < p.MomentumFloor {
			s.edgeY = false
			s.momY = 0
		} else {
			dy = int(s.momY)
		}
	}

	if !s.edgeX && !s.edgeY {
		s.decaying = false
		return dx, dy, false
	}
	return dx, dy, true
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}

func unit(v float64) int {
	if v > 0 {
		return 1
	}
	return -1
}
