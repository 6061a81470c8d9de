// Package vignette implements a full-screen "cloud boundary" post-processing
// effect for Go renderers.
//
// # Overview
//
// The effect composites a rendered scene against a solid white "cloud" region.
// An animated, wobbling circular boundary separates the two: the scene stays
// visible inside the boundary, everything outside is filled white, and a soft
// anti-aliased ring marks the transition. Coverage of the cloud region is a
// single animated parameter, so a host can dissolve the scene into (or out of)
// the clouds over time.
//
// # Quick Start
//
//	import "github.com/gogpu/vignette"
//
//	src := vignette.FromImage(sceneImage)
//	dst := vignette.NewPixmap(src.Width(), src.Height())
//
//	v := vignette.NewVignette()
//	v.TargetCoverage = 0.2
//
//	r := vignette.NewSoftwareRenderer()
//	for frame := 0; frame < 120; frame++ {
//		v.Advance(1.0 / 60)
//		r.Render(dst, src, v.Params(float64(frame)/60))
//	}
//	dst.SavePNG("out.png")
//
// # Architecture
//
// The core is Composite, a pure per-pixel function from (scene color, UV,
// parameter block) to an output color. Everything else is host plumbing:
//   - Params / Vignette: the parameter block and its coverage animation
//   - Pixmap / Sampler: CPU pixel buffers and normalized-UV source sampling
//   - SoftwareRenderer: parallel CPU evaluation over a full frame
//   - gpu: the same effect as a WGSL fragment pipeline via gogpu/wgpu
//
// # Coordinate System
//
// UV coordinates are normalized to [0, 1] with the origin at the top-left,
// matching a standard full-screen draw. The compositor remaps them to a
// centered [-1, 1] space internally.
package vignette

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
