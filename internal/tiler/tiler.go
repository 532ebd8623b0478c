// Package tiler renders the XYZ tile pyramid from a warped raster
// source. One metatile is read per GDAL call and cut into tiles,
// rendered by a bounded number of workers.
package tiler

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"time"

	"github.com/paulmach/orb/maptile"
	"golang.org/x/sync/semaphore"
	pb "gopkg.in/cheggaaa/pb.v1"

	"github.com/tileforge/tileforge/internal/config"
	"github.com/tileforge/tileforge/internal/logging"
	"github.com/tileforge/tileforge/internal/tilejson"
	"github.com/tileforge/tileforge/internal/utils"
	"github.com/tileforge/tileforge/internal/xyz"
)

var log = logging.L()

// Source is a mercator raster the tiler can read windows from
type Source interface {
	Extent() xyz.Rect
	Read(rect xyz.Rect, w, h int) (*image.NRGBA, error)
}

// Tiler generates an XYZ tile pyramid below Output
type Tiler struct {
	Source     Source
	Output     string
	Name       string
	Config     config.TileConfig
	Background color.NRGBA
	Workers    int

	// KeepSize: existing tile files of at least this many bytes are
	// not rendered again, which makes interrupted runs resumable.
	KeepSize int64
}

// Run renders all zoom levels and writes a tile.json next to them
func (t *Tiler) Run(ctx context.Context) error {
	bound := t.Source.Extent().ToWGS84()

	fmt.Printf("▶️  Building tiles for zoom %d..%d\n", t.Config.ZoomMin, t.Config.ZoomMax)

	for z := t.Config.ZoomMin; z <= t.Config.ZoomMax; z++ {
		timer := time.Now()

		rng := xyz.Cover(bound, maptile.Zoom(z))
		log.Debugf("zoom %d: %d tiles (x %d..%d, y %d..%d)", z, rng.Count(), rng.MinX, rng.MaxX, rng.MinY, rng.MaxY)

		if err := t.runZoom(ctx, rng); err != nil {
			return fmt.Errorf("zoom %d: %w", z, err)
		}

		fmt.Printf("    ✔️  Finished %d tiles for zoom %d in %s\n", rng.Count(), z, time.Since(timer).String())
	}

	err := tilejson.Write(t.Output, t.Name, t.Config.Format, t.Config.ZoomMin, t.Config.ZoomMax, t.scheme(), bound)
	if err != nil {
		return fmt.Errorf("write tile.json: %w", err)
	}

	return nil
}

func (t *Tiler) scheme() string {
	if t.Config.TMS {
		return "tms"
	}
	return "xyz"
}

// runZoom renders one zoom level, metatile by metatile
func (t *Tiler) runZoom(ctx context.Context, rng xyz.Range) error {
	bar := pb.New64(rng.Count()).Prefix(fmt.Sprintf("Zoom %d : ", rng.Z))
	bar.SetRefreshRate(time.Second)
	bar.Start()
	defer bar.Finish()

	sem := semaphore.NewWeighted(int64(t.Workers))

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, blk := range blocks(rng, t.Config.MetatileSize) {
		if err := sem.Acquire(ctx, 1); err != nil {
			break // canceled, drain below
		}

		mu.Lock()
		abort := firstErr != nil
		mu.Unlock()
		if abort {
			sem.Release(1)
			break
		}

		wg.Add(1)
		go func(blk Block) {
			defer wg.Done()
			defer sem.Release(1)
			defer bar.Add64(blk.Count())

			if err := t.renderBlock(blk); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(blk)
	}

	wg.Wait()

	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}

// renderBlock reads the block's raster window and writes its tiles
func (t *Tiler) renderBlock(blk Block) error {
	size := t.Config.TileSize

	// skip fully rendered blocks so interrupted runs can resume
	missing := false
	for _, tile := range blk.Tiles() {
		if !t.tileDone(tile) {
			missing = true
			break
		}
	}
	if !missing {
		return nil
	}

	w := blk.Width() * size
	h := blk.Height() * size

	src, err := t.Source.Read(blk.Rect(), w, h)
	if err != nil {
		return err
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(t.Background), image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), src, image.Point{}, draw.Over)

	for _, tile := range blk.Tiles() {
		if t.tileDone(tile) {
			continue
		}

		x0 := int(tile.X-blk.MinX) * size
		y0 := int(tile.Y-blk.MinY) * size
		sub := canvas.SubImage(image.Rect(x0, y0, x0+size, y0+size))

		if err := t.writeTile(sub, tile); err != nil {
			return err
		}
	}

	return nil
}

// tileDone reports wether the tile's file already exists from an
// earlier run and is worth keeping
func (t *Tiler) tileDone(tile maptile.Tile) bool {
	keep := t.KeepSize
	if keep < 1 {
		keep = 1
	}
	path := xyz.TilePath(t.Output, tile, t.Config.Format, t.Config.TMS)
	return utils.FileSize(path) >= keep
}
