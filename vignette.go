package vignette

import "math"

// coverageSnapDistance is the threshold below which an animating coverage
// snaps to its target, ending the transition cleanly.
const coverageSnapDistance = 0.001

// Vignette holds the host-facing effect settings, including the animated
// coverage transition. It is the mutable counterpart of Params: a host keeps
// one Vignette, retargets TargetCoverage as gameplay demands, calls Advance
// once per frame with the frame delta, and snapshots a Params block for the
// renderer.
//
// Vignette is not safe for concurrent mutation; drive it from the host's
// update loop.
type Vignette struct {
	// Coverage is the current cloud coverage in [0, 1].
	Coverage float64

	// TargetCoverage is the coverage Advance moves toward.
	TargetCoverage float64

	// TransitionSpeed controls how quickly Coverage approaches
	// TargetCoverage, in units of 1/seconds. Zero or negative means the
	// transition completes immediately.
	TransitionSpeed float64

	// EdgeSoftness is the width of the anti-aliased ring transition.
	EdgeSoftness float64

	// BoundaryThickness is the half-width of the boundary ring band.
	BoundaryThickness float64

	// WobbleStrength is the boundary perturbation amplitude.
	WobbleStrength float64

	// WobbleFrequency is the angular frequency of the wobble.
	WobbleFrequency float64

	// WobbleSpeed is the temporal frequency of the wobble drift.
	WobbleSpeed float64
}

// NewVignette returns a Vignette with the stock tuning: fully covered,
// transitioning toward mostly-open clouds.
func NewVignette() *Vignette {
	return &Vignette{
		Coverage:          1.0,
		TargetCoverage:    0.2,
		TransitionSpeed:   3.0,
		EdgeSoftness:      0.03,
		BoundaryThickness: 0.08,
		WobbleStrength:    0.045,
		WobbleFrequency:   8.0,
		WobbleSpeed:       2.0,
	}
}

// Advance moves Coverage toward the clamped TargetCoverage by dt seconds of
// exponential approach: the remaining distance decays by exp(-speed*dt) each
// step, which is frame-rate independent. Within coverageSnapDistance of the
// target, Coverage snaps to it exactly.
func (v *Vignette) Advance(dt float64) {
	target := clamp01(v.TargetCoverage)
	speed := math.Max(v.TransitionSpeed, 0)

	if speed == 0 {
		v.Coverage = target
		return
	}

	t := 1 - math.Exp(-speed*dt)
	v.Coverage += (target - v.Coverage) * t
	if math.Abs(target-v.Coverage) < coverageSnapDistance {
		v.Coverage = target
	}
}

// Params snapshots the current settings into a parameter block for the
// given elapsed time in seconds. The host-side floors mirror what a careful
// caller would upload: coverage clamped to [0, 1], edge softness at least
// 0.001, thickness, strength, and frequency non-negative. The compositor
// applies its own stricter clamps again on consumption.
func (v *Vignette) Params(elapsed float64) Params {
	return Params{
		Coverage:          clamp01(v.Coverage),
		Time:              elapsed,
		EdgeSoftness:      math.Max(v.EdgeSoftness, 0.001),
		BoundaryThickness: math.Max(v.BoundaryThickness, 0),
		WobbleStrength:    math.Max(v.WobbleStrength, 0),
		WobbleFrequency:   math.Max(v.WobbleFrequency, 0),
		WobbleSpeed:       v.WobbleSpeed,
	}
}
