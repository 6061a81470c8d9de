package vignette

// Option configures a SoftwareRenderer during creation.
// Use functional options to customize renderer behavior.
//
// Example:
//
//	// Default: linear clamp sampling, one worker per CPU
//	r := vignette.NewSoftwareRenderer()
//
//	// Deterministic single-threaded rendering with nearest sampling
//	r := vignette.NewSoftwareRenderer(
//		vignette.WithWorkers(1),
//		vignette.WithSampler(vignette.Sampler{Filter: vignette.FilterNearest}),
//	)
type Option func(*rendererOptions)

// rendererOptions holds optional configuration for renderer creation.
type rendererOptions struct {
	workers int
	sampler Sampler
}

// defaultOptions returns the default renderer options.
func defaultOptions() rendererOptions {
	return rendererOptions{
		workers: 0, // 0 means one worker per available CPU
		sampler: LinearClampSampler,
	}
}

// WithWorkers sets the number of worker goroutines used to render rows.
// Values of 0 or less select one worker per available CPU.
func WithWorkers(n int) Option {
	return func(o *rendererOptions) {
		o.workers = n
	}
}

// WithSampler sets the sampler used to read the source pixmap.
func WithSampler(s Sampler) Option {
	return func(o *rendererOptions) {
		o.sampler = s
	}
}
