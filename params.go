package vignette

import (
	"encoding/binary"
	"math"
)

// minEdgeSoftness is the floor applied to Params.EdgeSoftness before use.
// A zero-width transition zone would degenerate the ring's smoothstep.
const minEdgeSoftness = 0.01

// ParamsUniformSize is the byte size of the packed parameter block.
// Layout: two vec4<f32> — boundary (coverage, time, edge_softness,
// boundary_thickness) and wobble (strength, frequency, speed, padding).
const ParamsUniformSize = 32

// Params is the per-frame parameter block consumed by the boundary
// compositor. A host supplies a fresh block each frame; the compositor
// itself never mutates it.
//
// Out-of-range values are tolerated: the compositor clamps Coverage to
// [0, 1], floors EdgeSoftness to 0.01, and floors BoundaryThickness to 0
// before use. Time is the host's elapsed clock in seconds and drives all
// animation phase; trigonometric periodicity makes wraparound unnecessary.
type Params struct {
	// Coverage is the fraction of the screen intended to show cloud
	// (white) rather than scene. 0 = scene fully visible, 1 = fully
	// covered.
	Coverage float64

	// Time is the elapsed time in seconds, monotonically increasing.
	Time float64

	// EdgeSoftness is the width of the anti-aliased transition zone at
	// the boundary ring.
	EdgeSoftness float64

	// BoundaryThickness is the half-width of the boundary ring band.
	BoundaryThickness float64

	// WobbleStrength is the amplitude of the boundary's radial
	// perturbation.
	WobbleStrength float64

	// WobbleFrequency is the angular frequency of the wobble pattern
	// around the boundary.
	WobbleFrequency float64

	// WobbleSpeed is the temporal frequency at which the wobble pattern
	// drifts.
	WobbleSpeed float64
}

// Clamped returns a copy of the parameter block with the compositor's
// defensive clamps applied: Coverage in [0, 1], EdgeSoftness at least
// 0.01, BoundaryThickness at least 0. The remaining fields pass through
// unchanged.
func (p Params) Clamped() Params {
	p.Coverage = clamp01(p.Coverage)
	p.EdgeSoftness = math.Max(p.EdgeSoftness, minEdgeSoftness)
	p.BoundaryThickness = math.Max(p.BoundaryThickness, 0)
	return p
}

// Pack serializes the parameter block into the 32-byte uniform layout
// expected by the cloud_vignette shader:
//
//	vec4 boundary = (coverage, time, edge_softness, boundary_thickness)
//	vec4 wobble   = (wobble_strength, wobble_frequency, wobble_speed, 0)
//
// Values are little-endian float32. The clamps of Clamped are applied
// before packing so the GPU and CPU paths consume identical values.
func (p Params) Pack() []byte {
	p = p.Clamped()
	buf := make([]byte, ParamsUniformSize)
	fields := [8]float64{
		p.Coverage, p.Time, p.EdgeSoftness, p.BoundaryThickness,
		p.WobbleStrength, p.WobbleFrequency, p.WobbleSpeed, 0,
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(f)))
	}
	return buf
}

// clamp01 restricts a value to the [0, 1] range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
