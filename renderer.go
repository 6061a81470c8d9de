package vignette

import "errors"

// Renderer errors shared by the CPU and GPU paths.
var (
	// ErrNilTarget indicates a nil destination pixmap.
	ErrNilTarget = errors.New("vignette: target pixmap is nil")

	// ErrNilSource indicates a nil source pixmap.
	ErrNilSource = errors.New("vignette: source pixmap is nil")

	// ErrAliasedBuffers indicates the source and target share storage in a
	// configuration that would let output pixels feed back into sampling.
	ErrAliasedBuffers = errors.New("vignette: source and target must not alias with linear filtering")
)

// Renderer applies the boundary effect to a full frame.
type Renderer interface {
	// Render evaluates the effect for every pixel of dst, sampling the
	// scene from src with the given parameter block.
	// Returns an error if the rendering operation fails.
	Render(dst, src *Pixmap, params Params) error
}
