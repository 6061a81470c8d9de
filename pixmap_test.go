package vignette

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestNewPixmap(t *testing.T) {
	pm := NewPixmap(10, 20)
	if pm.Width() != 10 {
		t.Errorf("Width() = %d, want 10", pm.Width())
	}
	if pm.Height() != 20 {
		t.Errorf("Height() = %d, want 20", pm.Height())
	}
	if len(pm.Data()) != 10*20*4 {
		t.Errorf("len(Data()) = %d, want %d", len(pm.Data()), 10*20*4)
	}
}

func TestPixmapSetGetPixel(t *testing.T) {
	pm := NewPixmap(4, 4)
	c := RGBA{R: 1, G: 0.5, B: 0.25, A: 1}
	pm.SetPixel(2, 3, c)

	got := pm.GetPixel(2, 3)
	const tol = 1.0 / 255
	if abs(got.R-c.R) > tol || abs(got.G-c.G) > tol || abs(got.B-c.B) > tol || abs(got.A-c.A) > tol {
		t.Errorf("GetPixel = %+v, want ~%+v", got, c)
	}
}

func TestPixmapOutOfBounds(t *testing.T) {
	pm := NewPixmap(4, 4)
	pm.Clear(White)

	// Out-of-bounds writes are ignored, reads return transparent.
	pm.SetPixel(-1, 0, Black)
	pm.SetPixel(4, 0, Black)
	pm.SetPixel(0, -1, Black)
	pm.SetPixel(0, 4, Black)

	if got := pm.GetPixel(0, 0); got != White {
		t.Errorf("in-bounds pixel corrupted: %+v", got)
	}
	if got := pm.GetPixel(-1, 0); got != Transparent {
		t.Errorf("out-of-bounds read = %+v, want transparent", got)
	}
	if got := pm.GetPixel(4, 4); got != Transparent {
		t.Errorf("out-of-bounds read = %+v, want transparent", got)
	}
}

func TestPixmapClear(t *testing.T) {
	pm := NewPixmap(3, 3)
	pm.Clear(RGB(1, 0, 0))

	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			if got := pm.GetPixel(x, y); got != RGB(1, 0, 0) {
				t.Fatalf("pixel (%d, %d) = %+v, want red", x, y, got)
			}
		}
	}
}

func TestPixmapImageRoundTrip(t *testing.T) {
	pm := NewPixmap(2, 2)
	pm.SetPixel(0, 0, RGB(1, 0, 0))
	pm.SetPixel(1, 0, RGB(0, 1, 0))
	pm.SetPixel(0, 1, RGB(0, 0, 1))
	pm.SetPixel(1, 1, White)

	img := pm.ToImage()
	back := FromImage(img)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if got, want := back.GetPixel(x, y), pm.GetPixel(x, y); got != want {
				t.Errorf("pixel (%d, %d) = %+v, want %+v", x, y, got, want)
			}
		}
	}
}

func TestFromImageScaled(t *testing.T) {
	// A solid image resamples to a solid pixmap at any size.
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = 100
		img.Pix[i+1] = 150
		img.Pix[i+2] = 200
		img.Pix[i+3] = 255
	}

	pm := FromImageScaled(img, 16, 12)
	if pm.Width() != 16 || pm.Height() != 12 {
		t.Fatalf("scaled size = %dx%d, want 16x12", pm.Width(), pm.Height())
	}
	got := pm.GetPixel(8, 6)
	want := RGBA{R: 100.0 / 255, G: 150.0 / 255, B: 200.0 / 255, A: 1}
	const tol = 2.0 / 255
	if abs(got.R-want.R) > tol || abs(got.G-want.G) > tol || abs(got.B-want.B) > tol {
		t.Errorf("scaled pixel = %+v, want ~%+v", got, want)
	}

	// Matching dimensions skip the resample entirely.
	same := FromImageScaled(img, 8, 8)
	if same.GetPixel(3, 3) != FromImage(img).GetPixel(3, 3) {
		t.Error("same-size scale altered pixels")
	}
}

func TestPixmapImageInterface(t *testing.T) {
	var _ image.Image = (*Pixmap)(nil)

	pm := NewPixmap(2, 2)
	pm.SetPixel(0, 0, White)

	if b := pm.Bounds(); b != image.Rect(0, 0, 2, 2) {
		t.Errorf("Bounds() = %v", b)
	}
	if pm.ColorModel() != color.NRGBAModel {
		t.Error("unexpected color model")
	}
	r, g, b, _ := pm.At(0, 0).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("At(0, 0) = (%d, %d, %d), want white", r, g, b)
	}
}

func TestPixmapSavePNG(t *testing.T) {
	pm := NewPixmap(4, 4)
	pm.Clear(RGB(0.5, 0.5, 0.5))

	path := filepath.Join(t.TempDir(), "out.png")
	if err := pm.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() == 0 {
		t.Error("PNG file is empty")
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
