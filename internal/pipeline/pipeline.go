// Package pipeline sequences the tileforge stages: tiling, cleaning,
// watermarking, path listing and archiving.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/teris-io/shortid"

	"github.com/tileforge/tileforge/internal/archive"
	"github.com/tileforge/tileforge/internal/cleaner"
	"github.com/tileforge/tileforge/internal/config"
	"github.com/tileforge/tileforge/internal/logging"
	"github.com/tileforge/tileforge/internal/pathlist"
	"github.com/tileforge/tileforge/internal/preview"
	"github.com/tileforge/tileforge/internal/raster"
	"github.com/tileforge/tileforge/internal/tiler"
	"github.com/tileforge/tileforge/internal/validate"
	"github.com/tileforge/tileforge/internal/watermark"
)

var log = logging.L()

// Pipeline runs the tileforge stages against one raster and output tree
type Pipeline struct {
	Config *config.Config
	Input  string
	Output string
}

// Name returns the layer name derived from the input file
func (p *Pipeline) Name() string {
	base := filepath.Base(p.Input)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Run executes the full pipeline. Post-processing stages respect their
// config toggles.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()

	id, err := shortid.Generate()
	if err != nil {
		id = "run"
	}

	log.Infof("run %s: %s -> %s", id, p.Input, p.Output)

	if err := p.Tile(ctx); err != nil {
		return err
	}

	if p.Config.Clean.Enabled {
		if err := p.Clean(); err != nil {
			return err
		}
	}

	if p.Config.Watermark.Enabled {
		if err := p.Watermark(); err != nil {
			return err
		}
	}

	if p.Config.Paths.Enabled {
		if err := p.Paths(); err != nil {
			return err
		}
	}

	if p.Config.Archive.Enabled {
		if err := p.Archive(); err != nil {
			return err
		}
	}

	fmt.Printf("\n    🎉  All stages of run %s finished in %s\n", id, FormatElapsed(time.Since(start)))
	return nil
}

// Tile generates the XYZ pyramid, tile.json and the preview HTML
func (p *Pipeline) Tile(ctx context.Context) error {
	timer := time.Now()

	if err := validate.InputRaster(p.Input); err != nil {
		return err
	}
	if err := validate.OutputDirectory(p.Output); err != nil {
		return err
	}
	fmt.Println("✔️  Validated input and output paths")

	src, err := raster.Open(p.Input, p.Config.Tile.Resample)
	if err != nil {
		return err
	}
	defer src.Close()

	w, h := src.Size()
	log.Debugf("warped raster: %dx%d px, extent %+v", w, h, src.Extent())

	t := &tiler.Tiler{
		Source:     src,
		Output:     p.Output,
		Name:       p.Name(),
		Config:     p.Config.Tile,
		Background: p.Config.BackgroundColor(),
		Workers:    p.Config.Workers(),
		KeepSize:   p.Config.Clean.MinSize,
	}

	if err := t.Run(ctx); err != nil {
		return err
	}

	if err := p.writePreviewHTML(src); err != nil {
		return err
	}

	fmt.Println("✔️  Built tiles in", time.Since(timer).String())
	return nil
}

// Clean removes undersized tiles from the output tree
func (p *Pipeline) Clean() error {
	timer := time.Now()
	fmt.Println("▶️  Cleaning undersized tiles")

	c := &cleaner.Cleaner{Root: p.Output, Config: p.Config.Clean}
	deleted, err := c.Run()
	if err != nil {
		return err
	}

	fmt.Printf("✔️  Removed %d tiles in %s\n", deleted, time.Since(timer).String())
	return nil
}

// Watermark stamps the configured zoom levels of the output tree
func (p *Pipeline) Watermark() error {
	timer := time.Now()
	fmt.Println("▶️  Watermarking tiles")

	w := &watermark.Watermarker{
		Root:    p.Output,
		Config:  p.Config.Watermark,
		Color:   p.Config.WatermarkColor(),
		Quality: p.Config.Tile.Quality,
	}
	stamped, err := w.Run()
	if err != nil {
		return err
	}

	fmt.Printf("✔️  Watermarked %d tiles in %s\n", stamped, time.Since(timer).String())
	return nil
}

// Paths writes the tile path listing into the output tree
func (p *Pipeline) Paths() error {
	timer := time.Now()
	fmt.Println("▶️  Saving tile paths")

	count, err := pathlist.Write(p.Output)
	if err != nil {
		return err
	}

	fmt.Printf("✔️  Saved %d tile paths in %s\n", count, time.Since(timer).String())
	return nil
}

// Archive zips the output tree
func (p *Pipeline) Archive() error {
	timer := time.Now()
	fmt.Println("▶️  Archiving tiles")

	if err := archive.Zip(p.Output, p.ZipPath()); err != nil {
		return err
	}

	fmt.Printf("✔️  Archived tiles to %s in %s\n", p.ZipPath(), time.Since(timer).String())
	return nil
}

// Preview renders the preview images and HTML from the source raster
func (p *Pipeline) Preview() error {
	if err := validate.InputRaster(p.Input); err != nil {
		return err
	}
	if err := validate.OutputDirectory(p.Output); err != nil {
		return err
	}

	src, err := raster.Open(p.Input, p.Config.Tile.Resample)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := preview.Build(src, p.Output); err != nil {
		return err
	}

	return p.writePreviewHTML(src)
}

// ZipPath returns the configured archive path or the default inside
// the output tree
func (p *Pipeline) ZipPath() string {
	if p.Config.Archive.ZipPath != "" {
		return p.Config.Archive.ZipPath
	}
	return filepath.Join(p.Output, "tiles.zip")
}

func (p *Pipeline) writePreviewHTML(src *raster.Dataset) error {
	params := preview.HTMLParams{
		Title:       p.Config.Preview.Title,
		Attribution: p.Config.Preview.Attribution,
		Format:      p.Config.Tile.Format,
		TMS:         p.Config.Tile.TMS,
		OSM:         p.Config.Preview.OSM,
		ZoomMin:     p.Config.Tile.ZoomMin,
		ZoomMax:     p.Config.Tile.ZoomMax,
	}

	if params.Title == "" {
		params.Title = p.Name()
	}

	return preview.WriteHTML(p.Output, params, src.Extent().ToWGS84())
}

// FormatElapsed renders a duration as hours, minutes and seconds
func FormatElapsed(d time.Duration) string {
	total := int(d.Seconds())
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	return fmt.Sprintf("%d hour %d min %d sec", hours, minutes, seconds)
}
