package xyz

import (
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
	"github.com/stretchr/testify/assert"
)

func TestTileRect(t *testing.T) {
	// tile 0/0/0 covers the whole web mercator world
	rect := TileRect(maptile.New(0, 0, 0))

	halfWorld := 20037508.342789244
	assert.InDelta(t, -halfWorld, rect.MinX, 1)
	assert.InDelta(t, halfWorld, rect.MaxX, 1)
	assert.InDelta(t, -halfWorld, rect.MinY, 1)
	assert.InDelta(t, halfWorld, rect.MaxY, 1)

	// at z1 the north-east quadrant is 0..halfWorld on both axes
	rect = TileRect(maptile.New(1, 0, 1))
	assert.InDelta(t, 0, rect.MinX, 1)
	assert.InDelta(t, halfWorld, rect.MaxX, 1)
	assert.InDelta(t, 0, rect.MinY, 1)
	assert.InDelta(t, halfWorld, rect.MaxY, 1)
}

func TestCover(t *testing.T) {
	// Ayvalık-ish extent
	bound := orb.Bound{
		Min: orb.Point{26.973, 39.455},
		Max: orb.Point{27.003, 39.473},
	}

	r := Cover(bound, 0)
	assert.Equal(t, int64(1), r.Count())
	assert.Equal(t, uint32(0), r.MinX)
	assert.Equal(t, uint32(0), r.MinY)

	r = Cover(bound, 14)
	assert.LessOrEqual(t, r.MinX, r.MaxX)
	assert.LessOrEqual(t, r.MinY, r.MaxY)
	assert.Positive(t, r.Count())

	// every tile of the range must intersect the bound's mercator rect
	rangeRect := r.Rect()
	boundRect := TileRect(maptile.At(bound.Min, 14)).Union(TileRect(maptile.At(bound.Max, 14)))
	assert.LessOrEqual(t, rangeRect.MinX, boundRect.MinX+1)
	assert.GreaterOrEqual(t, rangeRect.MaxX, boundRect.MaxX-1)
}

func TestCoverGrowsWithZoom(t *testing.T) {
	bound := orb.Bound{
		Min: orb.Point{8.0, 47.0},
		Max: orb.Point{9.0, 48.0},
	}

	var last int64 = 0
	for z := maptile.Zoom(6); z <= 12; z++ {
		count := Cover(bound, z).Count()
		assert.GreaterOrEqual(t, count, last, "zoom %d", z)
		last = count
	}
}

func TestFlipY(t *testing.T) {
	assert.Equal(t, maptile.New(0, 0, 0), FlipY(maptile.New(0, 0, 0)))
	assert.Equal(t, maptile.New(3, 0, 1), FlipY(maptile.New(3, 1, 1)))
	assert.Equal(t, maptile.New(5, 15, 4), FlipY(maptile.New(5, 0, 4)))

	// flipping twice is the identity
	tile := maptile.New(123, 456, 10)
	assert.Equal(t, tile, FlipY(FlipY(tile)))
}

func TestTilePath(t *testing.T) {
	tile := maptile.New(5, 3, 4)

	assert.Equal(t,
		filepath.Join("out", "4", "5", "3.png"),
		TilePath("out", tile, "png", false))

	assert.Equal(t,
		filepath.Join("out", "4", "5", "12.jpg"),
		TilePath("out", tile, "jpg", true))
}
