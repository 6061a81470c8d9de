package vignette

import "math"

// centerEpsilon floors the distance from screen center before deriving the
// boundary direction, so the direction stays finite at the exact center.
const centerEpsilon = 0.0001

// Detuning constants for the two wobble wave components. They keep the two
// sinusoids drifting out of phase so the boundary never settles into a
// static or simply-periodic shape. Tunable; not derived from anything.
const (
	wobbleDetuneFreq  = 1.73
	wobbleDetuneSpeed = 1.29
)

// Boundary radius constants. openRadiusBase is sized so the whole visible
// screen sits inside the boundary at zero coverage; coveredRadius is the
// negative radius the boundary collapses to at full coverage.
const (
	openRadiusBase = 1.45
	coveredRadius  = -0.25
)

// SignedDistance returns the signed distance from the pixel at uv to the
// animated cloud boundary: negative inside the visible-scene region,
// positive in the cloud region.
//
// uv is remapped to a centered [-1, 1]^2 space. The boundary radius starts
// from a fully-open radius that clears the screen, collapses past the
// center as coverage approaches 1, and is perturbed by two detuned
// traveling sine waves evaluated along the pixel's direction from center.
func SignedDistance(uv Vec2, p Params) float64 {
	p = p.Clamped()

	centered := uv.Mul(2).Sub(V2(1, 1))
	dist := centered.Length()
	dir := centered.Div(math.Max(dist, centerEpsilon))

	w1 := math.Sin(dir.X*p.WobbleFrequency + p.Time*p.WobbleSpeed)
	w2 := math.Sin(dir.Y*p.WobbleFrequency*wobbleDetuneFreq - p.Time*p.WobbleSpeed*wobbleDetuneSpeed)
	wobble := (w1 + w2*0.5) * p.WobbleStrength

	openRadius := openRadiusBase + 1.5*p.WobbleStrength + p.BoundaryThickness*0.5 + p.EdgeSoftness
	clearRadius := lerp(openRadius, coveredRadius, p.Coverage)
	return dist - (clearRadius + wobble)
}

// FillMask returns the hard 0/1 cloud fill mask for a signed distance:
// 1 beyond the outer edge of the ring band, 0 otherwise. The bulk fill is
// intentionally aliased; only the ring of RingMask is smoothed.
func FillMask(signedDistance float64, p Params) float64 {
	p = p.Clamped()
	return step(p.BoundaryThickness*0.5, signedDistance)
}

// RingMask returns the anti-aliased boundary ring coverage for a signed
// distance: 1 on the ring centerline, falling smoothly to 0 over
// EdgeSoftness on both sides of the band's half-thickness. The mask depends
// only on |signedDistance|, so it is symmetric about the boundary.
func RingMask(signedDistance float64, p Params) float64 {
	p = p.Clamped()
	lineDistance := math.Abs(signedDistance)
	return 1 - smoothstep(p.BoundaryThickness*0.5, p.BoundaryThickness*0.5+p.EdgeSoftness, lineDistance)
}

// Composite evaluates the cloud boundary effect for a single pixel.
//
// scene is the rendered scene color at uv, uv is the normalized screen
// coordinate in [0, 1]^2, and p is the per-frame parameter block. The
// returned color blends the scene toward white outside the boundary and
// paints a soft white ring on the boundary itself. Alpha passes through
// from the scene unchanged.
//
// Composite is a pure function: no state is carried between pixels or
// frames, so invocations may run in any order and in parallel.
func Composite(scene RGBA, uv Vec2, p Params) RGBA {
	p = p.Clamped()

	sd := SignedDistance(uv, p)
	out := scene.LerpRGB(White, FillMask(sd, p))
	return out.LerpRGB(White, RingMask(sd, p))
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// step returns 0 when x < edge and 1 otherwise.
func step(edge, x float64) float64 {
	if x < edge {
		return 0
	}
	return 1
}

// smoothstep is the standard Hermite 0..1 transition between two edges.
// Matches the GLSL/WGSL builtin: clamped, 3t^2 - 2t^3.
func smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
