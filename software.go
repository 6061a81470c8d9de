package vignette

import (
	"log/slog"

	"github.com/gogpu/vignette/internal/parallel"
)

// SoftwareRenderer evaluates the boundary effect on the CPU, one invocation
// per output pixel. Rows are distributed across a pool of workers; every
// invocation is independent, so the pass is embarrassingly parallel.
type SoftwareRenderer struct {
	workers int
	sampler Sampler
}

// NewSoftwareRenderer creates a new CPU renderer.
func NewSoftwareRenderer(opts ...Option) *SoftwareRenderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &SoftwareRenderer{
		workers: o.workers,
		sampler: o.sampler,
	}
}

// Render implements Renderer.Render.
//
// Each destination pixel samples the source at its own pixel-center UV and
// feeds the result through Composite. The source may be a different
// resolution than the target; the sampler bridges the two. dst and src may
// share storage only with nearest filtering, where each pixel reads exactly
// the texel it overwrites.
func (r *SoftwareRenderer) Render(dst, src *Pixmap, params Params) error {
	if dst == nil {
		return ErrNilTarget
	}
	if src == nil {
		return ErrNilSource
	}
	if dst == src && r.sampler.Filter != FilterNearest {
		return ErrAliasedBuffers
	}

	w, h := dst.Width(), dst.Height()
	if w == 0 || h == 0 {
		return nil
	}

	params = params.Clamped()
	Logger().Debug("software render",
		slog.Int("width", w), slog.Int("height", h),
		slog.Float64("coverage", params.Coverage))

	invW := 1.0 / float64(w)
	invH := 1.0 / float64(h)

	parallel.Rows(h, r.workers, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			v := (float64(y) + 0.5) * invH
			for x := 0; x < w; x++ {
				u := (float64(x) + 0.5) * invW
				scene := r.sampler.Sample(src, u, v)
				dst.SetPixel(x, y, Composite(scene, V2(u, v), params))
			}
		}
	})

	return nil
}
