package tiler

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/maptile"

	"github.com/tileforge/tileforge/internal/xyz"
)

// writeTile encodes one tile image into its z/x/y file
func (t *Tiler) writeTile(img image.Image, tile maptile.Tile) error {
	path := xyz.TilePath(t.Output, tile, t.Config.Format, t.Config.TMS)

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}

	if t.Config.Format == "jpg" {
		err = jpeg.Encode(out, img, &jpeg.Options{Quality: t.Config.Quality})
	} else {
		err = png.Encode(out, img)
	}

	if err != nil {
		out.Close()
		return err
	}

	return out.Close()
}
