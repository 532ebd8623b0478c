// Package watermark stamps a text onto tiles of selected zoom levels,
// e.g. for copyright notices. Only every Nth tile of a directory is
// stamped to keep the pattern unobtrusive.
package watermark

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/tileforge/tileforge/internal/config"
	"github.com/tileforge/tileforge/internal/logging"
	"github.com/tileforge/tileforge/internal/utils"
)

var log = logging.L()

// Watermarker stamps the configured text onto tiles below Root
type Watermarker struct {
	Root    string
	Config  config.WatermarkConfig
	Color   color.NRGBA
	Quality int // jpeg re-encode quality
}

// Run processes all configured zoom levels and reports the number of
// stamped tiles
func (w *Watermarker) Run() (int64, error) {
	face := w.loadFace()

	var total int64

	for _, level := range w.Config.Levels {
		levelDir := filepath.Join(w.Root, fmt.Sprintf("%d", level))

		if !utils.IsDirectory(levelDir) {
			log.Debugf("zoom %d directory does not exist, skipping", level)
			continue
		}

		stamped, err := w.processLevel(levelDir, face)
		if err != nil {
			return total, fmt.Errorf("watermark zoom %d: %w", level, err)
		}

		log.Infof("zoom %d: watermarked %d tiles", level, stamped)
		total += stamped
	}

	return total, nil
}

// loadFace loads the configured TTF font, falling back to the builtin
// bitmap face when the font file is not usable
func (w *Watermarker) loadFace() font.Face {
	face, err := gg.LoadFontFace(w.Config.Font, float64(w.Config.FontSize))
	if err != nil {
		log.Warnf("font %s not usable (%s), falling back to builtin face", w.Config.Font, err)
		return basicfont.Face7x13
	}
	return face
}

// processLevel walks one zoom directory in lexical order, stamping
// every Nth image file per directory
func (w *Watermarker) processLevel(dir string, face font.Face) (int64, error) {
	var stamped int64

	index := 0
	currentDir := ""

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !utils.IsTileImage(d.Name()) {
			return nil
		}

		// the walk is lexical, so files of one directory are
		// consecutive; the frequency counter restarts per directory
		if parent := filepath.Dir(path); parent != currentDir {
			currentDir = parent
			index = 0
		}
		defer func() { index++ }()

		if index%w.Config.Frequency != 0 {
			return nil
		}

		if err := w.stamp(path, face); err != nil {
			return err
		}

		stamped++
		log.Debugf("watermark added to %s", path)
		return nil
	})

	return stamped, err
}

// stamp draws the watermark text onto the image at path, re-encoding
// it in place in its original format
func (w *Watermarker) stamp(path string, face font.Face) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	img, _, err := image.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	dc := gg.NewContextForImage(img)
	dc.SetFontFace(face)
	dc.SetColor(w.Color)

	x := float64(w.Config.MarginLeft)
	y := float64(img.Bounds().Dy() - w.Config.MarginBottom)
	dc.DrawString(w.Config.Text, x, y)

	// encode fully before touching the tile, so a failed encode
	// keeps the original intact
	var buf bytes.Buffer
	if strings.HasSuffix(strings.ToLower(path), ".png") {
		err = png.Encode(&buf, dc.Image())
	} else {
		err = jpeg.Encode(&buf, dc.Image(), &jpeg.Options{Quality: w.quality()})
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

func (w *Watermarker) quality() int {
	if w.Quality > 0 {
		return w.Quality
	}
	return jpeg.DefaultQuality
}
