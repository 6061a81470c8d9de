// Command vignettedemo renders the cloud boundary vignette over a scene.
//
// It loads a scene image (or draws a procedural test scene), animates the
// cloud coverage transition across the requested number of frames, and
// writes each frame as a numbered PNG. Optionally the final frame is also
// written as a half-float OpenEXR file.
package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"math"
	"os"
	"path/filepath"

	"github.com/mrjoshuak/go-openexr/exr"

	"github.com/gogpu/vignette"
)

func main() {
	var (
		width    = flag.Int("width", 800, "output width")
		height   = flag.Int("height", 600, "output height")
		frames   = flag.Int("frames", 60, "number of frames to render")
		fps      = flag.Float64("fps", 60, "animation frames per second")
		input    = flag.String("input", "", "scene image (PNG or JPEG); empty draws a test scene")
		outdir   = flag.String("outdir", ".", "output directory for frames")
		exrOut   = flag.String("exr", "", "optional OpenEXR path for the final frame")
		coverage = flag.Float64("coverage", 1.0, "starting cloud coverage")
		target   = flag.Float64("target", 0.2, "target cloud coverage")
		speed    = flag.Float64("speed", 3.0, "coverage transition speed")
		workers  = flag.Int("workers", 0, "render workers (0 = one per CPU)")
	)
	flag.Parse()

	src, err := loadScene(*input, *width, *height)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	v := vignette.NewVignette()
	v.Coverage = *coverage
	v.TargetCoverage = *target
	v.TransitionSpeed = *speed

	r := vignette.NewSoftwareRenderer(vignette.WithWorkers(*workers))
	dst := vignette.NewPixmap(*width, *height)

	dt := 1.0 / *fps
	for frame := 0; frame < *frames; frame++ {
		v.Advance(dt)
		if err := r.Render(dst, src, v.Params(float64(frame)*dt)); err != nil {
			log.Fatalf("Failed to render frame %d: %v", frame, err)
		}

		path := filepath.Join(*outdir, fmt.Sprintf("vignette_%04d.png", frame))
		if err := dst.SavePNG(path); err != nil {
			log.Fatalf("Failed to save %s: %v", path, err)
		}
	}

	if *exrOut != "" {
		if err := saveEXR(*exrOut, dst); err != nil {
			log.Fatalf("Failed to save EXR: %v", err)
		}
	}

	log.Printf("Rendered %d frames to %s (%dx%d)\n", *frames, *outdir, *width, *height)
}

// loadScene reads and resamples the input image, or draws a procedural test
// scene when no input is given.
func loadScene(path string, width, height int) (*vignette.Pixmap, error) {
	if path == "" {
		return drawTestScene(width, height), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return vignette.FromImageScaled(img, width, height), nil
}

// drawTestScene fills a pixmap with a sky gradient and a few soft discs so
// the boundary has something recognizable to reveal.
func drawTestScene(width, height int) *vignette.Pixmap {
	pm := vignette.NewPixmap(width, height)

	discs := []struct {
		cx, cy, r float64
		c         vignette.RGBA
	}{
		{0.30, 0.35, 0.12, vignette.RGB(1.0, 0.45, 0.30)},
		{0.62, 0.50, 0.16, vignette.RGB(0.35, 0.80, 0.45)},
		{0.75, 0.25, 0.09, vignette.RGB(0.95, 0.85, 0.25)},
	}

	aspect := float64(width) / float64(height)
	for y := 0; y < height; y++ {
		t := float64(y) / float64(height)
		sky := vignette.RGB(0.10+t*0.40, 0.20+t*0.30, 0.40+t*0.20)
		for x := 0; x < width; x++ {
			c := sky
			u := float64(x) / float64(width)
			for _, d := range discs {
				dx := (u - d.cx) * aspect
				dy := t - d.cy
				dist := math.Sqrt(dx*dx + dy*dy)
				if cover := 1 - smooth(d.r-0.01, d.r+0.01, dist); cover > 0 {
					c = c.Lerp(d.c, cover)
				}
			}
			pm.SetPixel(x, y, c)
		}
	}

	return pm
}

func smooth(edge0, edge1, x float64) float64 {
	t := (x - edge0) / (edge1 - edge0)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}

// saveEXR writes the pixmap as a half-float scanline EXR.
func saveEXR(path string, pm *vignette.Pixmap) error {
	img := exr.NewRGBAImage(image.Rect(0, 0, pm.Width(), pm.Height()))
	for y := 0; y < pm.Height(); y++ {
		for x := 0; x < pm.Width(); x++ {
			c := pm.GetPixel(x, y)
			img.SetRGBA(x, y, float32(c.R), float32(c.G), float32(c.B), float32(c.A))
		}
	}
	return exr.EncodeFile(path, img)
}
