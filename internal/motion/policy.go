// Package motion converts streams of normalized touch samples into discrete
// pixel deltas for the pointer. Smoothing behavior is selected through named
// presets; the hand-tuned constants come from device calibration sessions and
// should not be changed casually.
package motion

// Tuning holds the numeric knobs of the smoothing pipeline.
type Tuning struct {
	// Deadzone suppresses per-sample deltas smaller than this (normalized
	// units) as sensor noise.
	Deadzone float64 `json:"deadzone"`

	// Smoothing is the exponential smoothing factor; higher means more
	// smoothing and more latency.
	Smoothing float64 `json:"smoothing"`

	// Sensitivity scales normalized deltas to pixels.
	Sensitivity float64 `json:"sensitivity"`

	// MaxSpeed clamps the per-axis pixel delta of one update.
	MaxSpeed float64 `json:"max_speed"`

	// DeltaGain scales raw relative deltas to pixels; 40 px per 1.0 of
	// delta tracks the usual desktop pointer speed.
	DeltaGain float64 `json:"delta_gain"`

	// EdgeMargin is the normalized coordinate beyond which edge momentum
	// may latch (momentum preset only).
	EdgeMargin float64 `json:"edge_margin"`

	// EdgeThreshold is the minimum pixel delta magnitude that latches
	// momentum at the edge.
	EdgeThreshold float64 `json:"edge_threshold"`

	// MomentumDecay multiplies the momentum vector each tick.
	MomentumDecay float64 `json:"momentum_decay"`

	// MomentumFloor stops an axis once |momentum| falls below it (pixels).
	MomentumFloor float64 `json:"momentum_floor"`
}

// Preset is a named smoothing policy.
type Preset struct {
	Name string `json:"name"`
	Tuning

	// Adaptive raises the smoothing factor for the first samples after a
	// reset and for unusually fast sample bursts.
	Adaptive bool `json:"adaptive"`

	// EdgeMomentum keeps the pointer drifting past the physical edge of
	// the touch surface.
	EdgeMomentum bool `json:"edge_momentum"`
}

// Stability is the conservative default: strong smoothing, hard speed cap.
func Stability() Preset {
	return Preset{
		Name: "stability",
		Tuning: Tuning{
			Deadzone:    0.01,
			Smoothing:   0.7,
			Sensitivity: 50.0,
			MaxSpeed:    15.0,
			DeltaGain:   40.0,
		},
		Adaptive: true,
	}
}

// Simple is the light-touch variant: weaker smoothing, lower sensitivity,
// no burst handling.
func Simple() Preset {
	return Preset{
		Name: "simple",
		Tuning: Tuning{
			Deadzone:    0.01,
			Smoothing:   0.4,
			Sensitivity: 25.0,
			MaxSpeed:    15.0,
			DeltaGain:   40.0,
		},
	}
}

// Momentum is the stability pipeline plus edge-momentum extrapolation, so a
// swipe that runs off the touch surface keeps moving without re-centering.
func Momentum() Preset {
	p := Stability()
	p.Name = "momentum"
	p.EdgeMomentum = true
	p.EdgeMargin = 0.9
	p.EdgeThreshold = 4.0
	p.MomentumDecay = 0.95
	p.MomentumFloor = 2.0
	return p
}

// PresetByName resolves a configured policy name; unknown names fall back to
// the stability preset.
func PresetByName(name string) Preset {
	switch name {
	case "simple":
		return Simple()
	case "momentum":
		return Momentum()
	default:
		return Stability()
	}
}

// PresetWith resolves a policy name and applies optional overrides; zero
// values leave the preset's defaults in place.
func PresetWith(name string, sensitivity, maxSpeed, deltaGain float64) Preset {
	p := PresetByName(name)
	if sensitivity > 0 {
		p.Sensitivity = sensitivity
	}
	if maxSpeed > 0 {
		p.MaxSpeed = maxSpeed
	}
	if deltaGain > 0 {
		p.DeltaGain = deltaGain
	}
	return p
}
