package vignette

import (
	"bytes"
	"math"
	"testing"
)

// gradientScene fills a pixmap with a deterministic color ramp.
func gradientScene(w, h int) *Pixmap {
	pm := NewPixmap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pm.SetPixel(x, y, RGBA{
				R: float64(x) / float64(w),
				G: float64(y) / float64(h),
				B: 0.25,
				A: 1,
			})
		}
	}
	return pm
}

func TestSoftwareRenderNilBuffers(t *testing.T) {
	r := NewSoftwareRenderer()
	src := NewPixmap(4, 4)

	if err := r.Render(nil, src, Params{}); err != ErrNilTarget {
		t.Errorf("nil target error = %v, want ErrNilTarget", err)
	}
	if err := r.Render(src, nil, Params{}); err != ErrNilSource {
		t.Errorf("nil source error = %v, want ErrNilSource", err)
	}
}

func TestSoftwareRenderAliasedBuffers(t *testing.T) {
	pm := gradientScene(4, 4)

	// Linear filtering reads neighbors, so in-place rendering is refused.
	r := NewSoftwareRenderer(WithSampler(LinearClampSampler))
	if err := r.Render(pm, pm, Params{}); err != ErrAliasedBuffers {
		t.Errorf("aliased linear error = %v, want ErrAliasedBuffers", err)
	}

	// Nearest filtering reads only the texel it overwrites.
	r = NewSoftwareRenderer(WithSampler(Sampler{Filter: FilterNearest}))
	if err := r.Render(pm, pm, Params{Coverage: 1}); err != nil {
		t.Errorf("aliased nearest error = %v, want nil", err)
	}
}

func TestSoftwareRenderEmptyTarget(t *testing.T) {
	r := NewSoftwareRenderer()
	if err := r.Render(NewPixmap(0, 0), NewPixmap(4, 4), Params{}); err != nil {
		t.Errorf("empty target error = %v, want nil", err)
	}
}

func TestSoftwareRenderFullCoverage(t *testing.T) {
	src := gradientScene(16, 16)
	dst := NewPixmap(16, 16)

	r := NewSoftwareRenderer()
	p := Params{Coverage: 1, EdgeSoftness: 0.01, BoundaryThickness: 0.02}
	if err := r.Render(dst, src, p); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// Fully covered means every pixel is white; alpha follows the source.
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			c := dst.GetPixel(x, y)
			if c.R != 1 || c.G != 1 || c.B != 1 {
				t.Fatalf("pixel (%d, %d) = %+v, want white", x, y, c)
			}
		}
	}
}

func TestSoftwareRenderZeroCoverage(t *testing.T) {
	src := gradientScene(16, 16)
	dst := NewPixmap(16, 16)

	r := NewSoftwareRenderer()
	p := Params{Coverage: 0, EdgeSoftness: 0.01, BoundaryThickness: 0.02}
	if err := r.Render(dst, src, p); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// With the boundary fully open the scene passes through, within one
	// quantization step per channel.
	const tol = 1.0 / 255
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			got := dst.GetPixel(x, y)
			want := src.GetPixel(x, y)
			if math.Abs(got.R-want.R) > tol || math.Abs(got.G-want.G) > tol || math.Abs(got.B-want.B) > tol {
				t.Fatalf("pixel (%d, %d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestSoftwareRenderParallelMatchesSerial(t *testing.T) {
	src := gradientScene(64, 48)
	p := Params{
		Coverage:          0.5,
		Time:              1.5,
		EdgeSoftness:      0.03,
		BoundaryThickness: 0.08,
		WobbleStrength:    0.045,
		WobbleFrequency:   8,
		WobbleSpeed:       2,
	}

	serial := NewPixmap(64, 48)
	if err := NewSoftwareRenderer(WithWorkers(1)).Render(serial, src, p); err != nil {
		t.Fatalf("serial Render: %v", err)
	}

	parallel := NewPixmap(64, 48)
	if err := NewSoftwareRenderer(WithWorkers(8)).Render(parallel, src, p); err != nil {
		t.Fatalf("parallel Render: %v", err)
	}

	if !bytes.Equal(serial.Data(), parallel.Data()) {
		t.Error("parallel output differs from serial output")
	}
}

func TestSoftwareRenderResamplesSource(t *testing.T) {
	// A solid source at a different resolution than the target still fills
	// the open interior with the source color.
	src := NewPixmap(8, 8)
	src.Clear(RGB(0.2, 0.4, 0.6))

	dst := NewPixmap(32, 32)
	r := NewSoftwareRenderer()
	p := Params{Coverage: 0, EdgeSoftness: 0.01}
	if err := r.Render(dst, src, p); err != nil {
		t.Fatalf("Render: %v", err)
	}

	const tol = 1.0 / 255
	got := dst.GetPixel(16, 16)
	want := src.GetPixel(4, 4)
	if math.Abs(got.R-want.R) > tol || math.Abs(got.G-want.G) > tol || math.Abs(got.B-want.B) > tol {
		t.Errorf("center pixel = %+v, want %+v", got, want)
	}
}

func TestSoftwareRendererImplementsRenderer(t *testing.T) {
	var _ Renderer = (*SoftwareRenderer)(nil)
}

func BenchmarkSoftwareRender(b *testing.B) {
	src := gradientScene(256, 256)
	dst := NewPixmap(256, 256)
	r := NewSoftwareRenderer()
	p := Params{
		Coverage:          0.5,
		Time:              2,
		EdgeSoftness:      0.03,
		BoundaryThickness: 0.08,
		WobbleStrength:    0.045,
		WobbleFrequency:   8,
		WobbleSpeed:       2,
	}
	b.ReportAllocs()
	for b.Loop() {
		if err := r.Render(dst, src, p); err != nil {
			b.Fatal(err)
		}
	}
}
