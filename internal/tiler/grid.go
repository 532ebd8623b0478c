package tiler

import (
	"github.com/paulmach/orb/maptile"

	"github.com/tileforge/tileforge/internal/xyz"
)

// Block is a contiguous group of tiles rendered from a single raster
// read (the metatile). Bounds are inclusive tile coordinates.
type Block struct {
	Z                      maptile.Zoom
	MinX, MinY, MaxX, MaxY uint32
}

// Width returns the block width in tiles
func (b Block) Width() int {
	return int(b.MaxX-b.MinX) + 1
}

// Height returns the block height in tiles
func (b Block) Height() int {
	return int(b.MaxY-b.MinY) + 1
}

// Count returns the number of tiles in the block
func (b Block) Count() int64 {
	return int64(b.Width()) * int64(b.Height())
}

// Tiles returns all tiles of the block, row by row
func (b Block) Tiles() []maptile.Tile {
	tiles := make([]maptile.Tile, 0, b.Count())
	for y := b.MinY; y <= b.MaxY; y++ {
		for x := b.MinX; x <= b.MaxX; x++ {
			tiles = append(tiles, maptile.New(x, y, b.Z))
		}
	}
	return tiles
}

// Rect returns the mercator rectangle covered by the whole block
func (b Block) Rect() xyz.Rect {
	rect := xyz.TileRect(maptile.New(b.MinX, b.MinY, b.Z))
	return rect.Union(xyz.TileRect(maptile.New(b.MaxX, b.MaxY, b.Z)))
}

// blocks partitions a tile range into metatile blocks of at most
// size×size tiles. Blocks at the range edges may be smaller.
func blocks(r xyz.Range, size int) []Block {
	if size < 1 {
		size = 1
	}

	step := uint32(size)
	result := make([]Block, 0)

	for y := r.MinY; ; y += step {
		maxY := y + step - 1
		if maxY > r.MaxY {
			maxY = r.MaxY
		}

		for x := r.MinX; ; x += step {
			maxX := x + step - 1
			if maxX > r.MaxX {
				maxX = r.MaxX
			}

			result = append(result, Block{
				Z:    r.Z,
				MinX: x,
				MinY: y,
				MaxX: maxX,
				MaxY: maxY,
			})

			if maxX == r.MaxX {
				break
			}
		}

		if maxY == r.MaxY {
			break
		}
	}

	return result
}
