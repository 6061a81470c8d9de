package vignette

import "math"

// Filter selects how a Sampler interpolates between source texels.
type Filter int

const (
	// FilterNearest picks the nearest texel.
	FilterNearest Filter = iota

	// FilterLinear blends the four surrounding texels bilinearly.
	FilterLinear
)

// AddressMode selects how a Sampler handles UV coordinates outside [0, 1].
type AddressMode int

const (
	// AddressClampToEdge clamps coordinates to the edge texel.
	AddressClampToEdge AddressMode = iota

	// AddressRepeat wraps coordinates, tiling the source.
	AddressRepeat
)

// Sampler reads a source pixmap at normalized UV coordinates. It mirrors a
// GPU sampler descriptor on the CPU: a filter mode plus per-axis address
// modes. The zero value is a nearest-neighbor, clamp-to-edge sampler.
type Sampler struct {
	Filter   Filter
	AddressU AddressMode
	AddressV AddressMode
}

// LinearClampSampler matches the default filtering sampler a GPU host would
// bind for a post-process source texture.
var LinearClampSampler = Sampler{Filter: FilterLinear}

// Sample returns the source color at the normalized coordinate (u, v).
// Texel centers sit at (x+0.5)/width, matching the rasterizer's pixel
// centers, so sampling a pixmap at its own UV grid with linear filtering
// reproduces it exactly.
func (s Sampler) Sample(src *Pixmap, u, v float64) RGBA {
	w, h := src.Width(), src.Height()
	if w == 0 || h == 0 {
		return Transparent
	}

	// Continuous texel coordinates with centers at half-integers.
	tx := u*float64(w) - 0.5
	ty := v*float64(h) - 0.5

	if s.Filter == FilterNearest {
		x := s.addressX(int(math.Round(tx)), w)
		y := s.addressY(int(math.Round(ty)), h)
		return src.GetPixel(x, y)
	}

	x0 := int(math.Floor(tx))
	y0 := int(math.Floor(ty))
	fx := tx - float64(x0)
	fy := ty - float64(y0)

	c00 := src.GetPixel(s.addressX(x0, w), s.addressY(y0, h))
	c10 := src.GetPixel(s.addressX(x0+1, w), s.addressY(y0, h))
	c01 := src.GetPixel(s.addressX(x0, w), s.addressY(y0+1, h))
	c11 := src.GetPixel(s.addressX(x0+1, w), s.addressY(y0+1, h))

	top := c00.Lerp(c10, fx)
	bottom := c01.Lerp(c11, fx)
	return top.Lerp(bottom, fy)
}

func (s Sampler) addressX(x, w int) int {
	return address(s.AddressU, x, w)
}

func (s Sampler) addressY(y, h int) int {
	return address(s.AddressV, y, h)
}

// address resolves an integer texel coordinate against one axis.
func address(mode AddressMode, i, n int) int {
	switch mode {
	case AddressRepeat:
		i %= n
		if i < 0 {
			i += n
		}
		return i
	default: // AddressClampToEdge
		if i < 0 {
			return 0
		}
		if i >= n {
			return n - 1
		}
		return i
	}
}
