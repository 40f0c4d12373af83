package motion

import (
	"testing"
	"time"
)

func step(t time.Time, d time.Duration) time.Time { return t.Add(d) }

// TestFirstSampleEmitsNothing tests that the first sample after a reset only
// records the reference position.
func TestFirstSampleEmitsNothing(t *testing.T) {
	e := NewEngine(Stability())
	s := NewState()
	now := time.Now()

	s.TouchDown(now)
	dx, dy, ok := e.Sample(s, 0.5, 0.5, now)
	if ok || dx != 0 || dy != 0 {
		t.Errorf("Expected no motion on first sample, got dx=%d dy=%d ok=%v", dx, dy, ok)
	}
	// The second sample moves relative to the first.
	_, _, ok = e.Sample(s, 0.6, 0.5, step(now, 20*time.Millisecond))
	if !ok {
		t.Error("Expected motion on second sample")
	}
}

// TestDeadzoneSuppressesIdenticalSamples tests that repeated identical
// samples produce no motion.
func TestDeadzoneSuppressesIdenticalSamples(t *testing.T) {
	e := NewEngine(Stability())
	s := NewState()
	now := time.Now()

	s.TouchDown(now)
	e.Sample(s, 0.2, 0.2, now)
	for i := 1; i <= 3; i++ {
		dx, dy, ok := e.Sample(s, 0.2, 0.2, step(now, time.Duration(i)*20*time.Millisecond))
		if ok || dx != 0 || dy != 0 {
			t.Errorf("Sample %d: expected deadzone suppression, got dx=%d dy=%d", i, dx, dy)
		}
	}
}

// TestSpeedClamp tests that one update never exceeds MaxSpeed per axis.
func TestSpeedClamp(t *testing.T) {
	e := NewEngine(Stability())
	s := NewState()
	now := time.Now()

	s.TouchDown(now)
	e.Sample(s, -1.0, -1.0, now)
	// Sweep the full surface repeatedly so the smoothed delta grows large.
	coords := []float64{1.0, -1.0, 1.0, -1.0}
	for i, c := range coords {
		dx, dy, _ := e.Sample(s, c, c, step(now, time.Duration(i+1)*20*time.Millisecond))
		if abs(dx) > 15 || abs(dy) > 15 {
			t.Errorf("Update %d exceeded max speed: dx=%d dy=%d", i, dx, dy)
		}
	}
}

// TestMinimumUnitStep tests that a deliberate small motion still moves the
// pointer by at least one pixel.
func TestMinimumUnitStep(t *testing.T) {
	e := NewEngine(Simple())
	s := NewState()
	now := time.Now()

	s.TouchDown(now)
	e.Sample(s, 0.0, 0.0, now)
	// 0.04 normalized: smoothed to 0.024, which scales to 0.6 px and would
	// truncate to zero without the unit-step rule.
	dx, _, ok := e.Sample(s, 0.04, 0.0, step(now, 20*time.Millisecond))
	if !ok || dx != 1 {
		t.Errorf("Expected minimum unit step of 1, got dx=%d ok=%v", dx, ok)
	}
}

// TestDeltaPathSkipsSmoothing tests that already-relative deltas get the
// delta gain and clamp applied, with no smoothing state in between.
func TestDeltaPathSkipsSmoothing(t *testing.T) {
	e := NewEngine(Stability())

	// Gain 40: 0.2 scales to 8 px, -0.1 to -4 px.
	dx, dy, ok := e.Delta(0.2, -0.1)
	if !ok || dx != 8 || dy != -4 {
		t.Errorf("Expected (8,-4), got (%d,%d) ok=%v", dx, dy, ok)
	}
	// No smoothing means the same input always yields the same output.
	dx2, dy2, _ := e.Delta(0.2, -0.1)
	if dx2 != dx || dy2 != dy {
		t.Errorf("Expected stateless delta path, got (%d,%d) then (%d,%d)", dx, dy, dx2, dy2)
	}
	// A full-scale delta is capped at max speed.
	if dx, _, _ = e.Delta(1.0, 0); dx != 15 {
		t.Errorf("Expected clamp to 15, got %d", dx)
	}
}

// TestFractionalDeltaMoves tests that fractional deltas survive integer
// truncation: scaled small motions keep at least one pixel.
func TestFractionalDeltaMoves(t *testing.T) {
	e := NewEngine(Stability())

	dx, dy, ok := e.Delta(0.5, 0.5)
	if !ok || dx == 0 || dy == 0 {
		t.Errorf("Expected fractional delta to move the pointer, got (%d,%d) ok=%v", dx, dy, ok)
	}
	// 0.02 scales to 0.8 px: below one pixel but a deliberate motion.
	if dx, _, ok = e.Delta(0.02, 0); !ok || dx != 1 {
		t.Errorf("Expected minimum unit step of 1, got dx=%d ok=%v", dx, ok)
	}
	// 0.01 scales to 0.4 px, which is treated as noise.
	if _, _, ok = e.Delta(0.01, 0); ok {
		t.Error("Expected sub-threshold delta to emit nothing")
	}
}

// TestEdgeMomentumDecays tests that a fast swipe to the surface edge latches
// momentum which decays to rest in a bounded number of ticks, independent of
// the touch ending.
func TestEdgeMomentumDecays(t *testing.T) {
	e := NewEngine(Momentum())
	s := NewState()
	now := time.Now()

	s.TouchDown(now)
	e.Sample(s, 0.0, 0.0, now)
	// Sustained fast motion toward the right edge.
	for i, x := range []float64{0.35, 0.7, 0.95} {
		e.Sample(s, x, 0.0, step(now, time.Duration(i+1)*20*time.Millisecond))
	}
	s.TouchEnd()

	if !s.TryStartDecay() {
		t.Fatal("Expected edge momentum to be latched after fast edge swipe")
	}

	ticks := 0
	total := 0
	for {
		dx, _, ok := e.DecayTick(s)
		total += dx
		if !ok {
			break
		}
		ticks++
		if ticks > 200 {
			t.Fatal("Momentum did not decay to rest")
		}
	}
	if ticks == 0 {
		t.Error("Expected at least one decaying tick")
	}
	if total <= 0 {
		t.Errorf("Expected rightward drift, got total dx=%d", total)
	}

	// Once at rest the loop ownership is released and cannot restart.
	if s.TryStartDecay() {
		t.Error("Expected no decay restart after momentum reached rest")
	}
}

// TestTouchDownPreservesDirection tests that a lift-and-reposition keeps the
// smoothed direction instead of snapping to zero.
func TestTouchDownPreservesDirection(t *testing.T) {
	e := NewEngine(Stability())
	s := NewState()
	now := time.Now()

	s.TouchDown(now)
	e.Sample(s, 0.0, 0.0, now)
	e.Sample(s, 0.3, 0.0, step(now, 20*time.Millisecond))
	s.TouchEnd()
	s.TouchDown(step(now, 100*time.Millisecond))

	if s.lastDX == 0 {
		t.Error("Expected smoothed direction to survive the touch boundary")
	}
	// And the first sample of the new touch still emits nothing.
	_, _, ok := e.Sample(s, -0.8, 0.1, step(now, 120*time.Millisecond))
	if ok {
		t.Error("Expected no motion on first sample of new touch")
	}
}

// TestPresetByName tests preset resolution including the fallback.
func TestPresetByName(t *testing.T) {
	if p := PresetByName("simple"); p.Name != "simple" || p.Smoothing != 0.4 || p.Sensitivity != 25 {
		t.Errorf("Unexpected simple preset: %+v", p)
	}
	if p := PresetByName("momentum"); !p.EdgeMomentum || p.MomentumDecay != 0.95 {
		t.Errorf("Unexpected momentum preset: %+v", p)
	}
	if p := PresetByName("bogus"); p.Name != "stability" || p.Sensitivity != 50 || p.DeltaGain != 40 {
		t.Errorf("Expected fallback to stability, got %+v", p)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
