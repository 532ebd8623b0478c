// Package preview builds downscaled preview renders of the source
// raster and a small Leaflet page to inspect the generated tiles.
package preview

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path"
	"time"

	"github.com/nfnt/resize"

	"github.com/tileforge/tileforge/internal/xyz"
)

var sizes = []uint{128, 256, 512, 1024}

// renderSize is the longest side of the full preview render
const renderSize = 1024

// Source is a mercator raster the preview can be rendered from
type Source interface {
	Extent() xyz.Rect
	Read(rect xyz.Rect, w, h int) (*image.NRGBA, error)
}

// Build renders preview.png plus height-normalized preview_<size>.png
// variants into outputDirectory
func Build(src Source, outputDirectory string) error {
	var timer time.Time

	timer = time.Now()
	fmt.Println("▶️  Rendering preview image")

	previewImage, err := render(src)
	if err != nil {
		return fmt.Errorf("render preview: %w", err)
	}

	fmt.Println("✔️  Rendered preview image in", time.Since(timer).String())

	previewHeight := previewImage.Bounds().Dy()
	previewWidth := previewImage.Bounds().Dx()

	timer = time.Now()
	fmt.Println("▶️  Writing original preview image to output")
	if err := saveImage(path.Join(outputDirectory, "preview.png"), previewImage); err != nil {
		return err
	}
	fmt.Println("✔️  Wrote original preview image in", time.Since(timer).String())

	for _, size := range sizes {
		timer = time.Now()
		fmt.Printf("▶️  Building x%d image\n", size)

		factor := float64(size) / float64(previewHeight)
		w := uint(float64(previewWidth) * factor)

		img := resize.Resize(w, size, previewImage, resize.MitchellNetravali)
		if err := saveImage(path.Join(outputDirectory, fmt.Sprintf("preview_%d.png", size)), img); err != nil {
			return err
		}

		fmt.Printf("✔️  Built x%d in %s\n", size, time.Since(timer).String())
	}

	return nil
}

// render reads the whole extent with the longest side at renderSize
func render(src Source) (*image.NRGBA, error) {
	extent := src.Extent()

	w, h := renderSize, renderSize
	if extent.Width() > extent.Height() {
		h = int(float64(renderSize) * extent.Height() / extent.Width())
	} else {
		w = int(float64(renderSize) * extent.Width() / extent.Height())
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	return src.Read(extent, w, h)
}

func saveImage(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
