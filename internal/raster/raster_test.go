package raster

import (
	"image"
	"testing"

	"github.com/lukeroth/gdal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillNRGBA(t *testing.T) {
	at := func(img *image.NRGBA, x, y int) [4]uint8 {
		o := img.PixOffset(x, y)
		return [4]uint8{img.Pix[o], img.Pix[o+1], img.Pix[o+2], img.Pix[o+3]}
	}

	t.Run("one band replicates gray and stays opaque", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		planes := [][]uint8{{10, 20, 30, 40}}

		fillNRGBA(img, 0, 0, 2, 2, planes, 1)

		assert.Equal(t, [4]uint8{10, 10, 10, 0xFF}, at(img, 0, 0))
		assert.Equal(t, [4]uint8{40, 40, 40, 0xFF}, at(img, 1, 1))
	})

	t.Run("two bands are gray plus alpha", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		planes := [][]uint8{{100, 200}, {0, 128}}

		fillNRGBA(img, 0, 0, 2, 1, planes, 2)

		assert.Equal(t, [4]uint8{100, 100, 100, 0}, at(img, 0, 0))
		assert.Equal(t, [4]uint8{200, 200, 200, 128}, at(img, 1, 0))
	})

	t.Run("three bands are rgb with opaque alpha", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		planes := [][]uint8{{11}, {22}, {33}}

		fillNRGBA(img, 0, 0, 1, 1, planes, 3)

		assert.Equal(t, [4]uint8{11, 22, 33, 0xFF}, at(img, 0, 0))
	})

	t.Run("four bands carry their own alpha", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
		planes := [][]uint8{{11}, {22}, {33}, {44}}

		fillNRGBA(img, 0, 0, 1, 1, planes, 4)

		assert.Equal(t, [4]uint8{11, 22, 33, 44}, at(img, 0, 0))
	})

	t.Run("offset leaves surrounding pixels transparent", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		planes := [][]uint8{{255, 255, 255, 255}}

		fillNRGBA(img, 1, 1, 2, 2, planes, 1)

		assert.Equal(t, [4]uint8{0, 0, 0, 0}, at(img, 0, 0))
		assert.Equal(t, [4]uint8{255, 255, 255, 0xFF}, at(img, 1, 1))
		assert.Equal(t, [4]uint8{255, 255, 255, 0xFF}, at(img, 2, 2))
		assert.Equal(t, [4]uint8{0, 0, 0, 0}, at(img, 3, 3))
	})
}

func TestResampleAlg(t *testing.T) {
	alg, err := resampleAlg("nearest")
	require.NoError(t, err)
	assert.Equal(t, gdal.GRA_NearestNeighbour, alg)

	alg, err = resampleAlg("Bilinear")
	require.NoError(t, err)
	assert.Equal(t, gdal.GRA_Bilinear, alg)

	alg, err = resampleAlg("")
	require.NoError(t, err)
	assert.Equal(t, gdal.GRA_Bilinear, alg)

	alg, err = resampleAlg("cubic")
	require.NoError(t, err)
	assert.Equal(t, gdal.GRA_Cubic, alg)

	_, err = resampleAlg("lanczos")
	assert.Error(t, err)
}
