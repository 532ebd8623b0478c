// Package xyz holds the slippy-map tile grid math shared by all stages.
package xyz

import (
	"fmt"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/paulmach/orb/project"
)

// Rect is an axis-aligned rectangle in EPSG:3857 meters
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the rectangle width in meters
func (r Rect) Width() float64 {
	return r.MaxX - r.MinX
}

// Height returns the rectangle height in meters
func (r Rect) Height() float64 {
	return r.MaxY - r.MinY
}

// Union returns the smallest rectangle containing both r and other
func (r Rect) Union(other Rect) Rect {
	if other.MinX < r.MinX {
		r.MinX = other.MinX
	}
	if other.MinY < r.MinY {
		r.MinY = other.MinY
	}
	if other.MaxX > r.MaxX {
		r.MaxX = other.MaxX
	}
	if other.MaxY > r.MaxY {
		r.MaxY = other.MaxY
	}
	return r
}

// ToWGS84 returns the rectangle as a lon/lat bound
func (r Rect) ToWGS84() orb.Bound {
	min := project.Mercator.ToWGS84(orb.Point{r.MinX, r.MinY})
	max := project.Mercator.ToWGS84(orb.Point{r.MaxX, r.MaxY})
	return orb.Bound{Min: min, Max: max}
}

// TileRect returns the mercator rectangle covered by given tile
func TileRect(t maptile.Tile) Rect {
	b := t.Bound()
	min := project.WGS84.ToMercator(b.Min)
	max := project.WGS84.ToMercator(b.Max)

	return Rect{MinX: min[0], MinY: min[1], MaxX: max[0], MaxY: max[1]}
}

// Range is the inclusive tile range covering a bound at one zoom level
type Range struct {
	Z                      maptile.Zoom
	MinX, MinY, MaxX, MaxY uint32
}

// Cover returns the tile range covering given lon/lat bound at zoom z
func Cover(b orb.Bound, z maptile.Zoom) Range {
	min := maptile.At(orb.Point{b.Left(), b.Top()}, z)
	max := maptile.At(orb.Point{b.Right(), b.Bottom()}, z)

	// bounds ending exactly on a tile edge must not spill into the
	// next row/column
	last := uint32(1)<<z - 1

	return Range{
		Z:    z,
		MinX: clampTile(min.X, last),
		MinY: clampTile(min.Y, last),
		MaxX: clampTile(max.X, last),
		MaxY: clampTile(max.Y, last),
	}
}

func clampTile(v, max uint32) uint32 {
	if v > max {
		return max
	}
	return v
}

// Count returns the number of tiles in the range
func (r Range) Count() int64 {
	return int64(r.MaxX-r.MinX+1) * int64(r.MaxY-r.MinY+1)
}

// Rect returns the mercator rectangle covered by the whole range
func (r Range) Rect() Rect {
	rect := TileRect(maptile.New(r.MinX, r.MinY, r.Z))
	return rect.Union(TileRect(maptile.New(r.MaxX, r.MaxY, r.Z)))
}

// FlipY converts between the XYZ and TMS row numbering of tile t
func FlipY(t maptile.Tile) maptile.Tile {
	rows := uint32(1) << t.Z
	return maptile.New(t.X, rows-1-t.Y, t.Z)
}

// TilePath returns the file path of tile t below root. With tms the row
// number follows the TMS convention instead of XYZ.
func TilePath(root string, t maptile.Tile, ext string, tms bool) string {
	if tms {
		t = FlipY(t)
	}

	return filepath.Join(
		root,
		fmt.Sprintf("%d", t.Z),
		fmt.Sprintf("%d", t.X),
		fmt.Sprintf("%d.%s", t.Y, ext),
	)
}
