// Package raster wraps GDAL dataset access. All reprojection and
// resampling is delegated to GDAL, tileforge only reads windows.
package raster

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/lukeroth/gdal"

	"github.com/tileforge/tileforge/internal/xyz"
)

const webMercatorEPSG = 3857

// Dataset is a source raster warped to web mercator
type Dataset struct {
	src    gdal.Dataset
	warped gdal.Dataset
	gt     [6]float64
	width  int
	height int
	bands  int
}

// Open opens the raster at path read-only and wraps it into a web
// mercator VRT using the given resample algorithm.
func Open(path string, resample string) (*Dataset, error) {
	alg, err := resampleAlg(resample)
	if err != nil {
		return nil, err
	}

	src, err := gdal.Open(path, gdal.ReadOnly)
	if err != nil {
		return nil, fmt.Errorf("open raster %s: %w", path, err)
	}

	srcWKT := src.Projection()
	if srcWKT == "" {
		src.Close()
		return nil, fmt.Errorf("raster %s has no spatial reference", path)
	}

	dstRef := gdal.CreateSpatialReference("")
	if err := dstRef.FromEPSG(webMercatorEPSG); err != nil {
		src.Close()
		return nil, fmt.Errorf("create EPSG:%d reference: %w", webMercatorEPSG, err)
	}
	dstWKT, err := dstRef.ToWKT()
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("serialize EPSG:%d reference: %w", webMercatorEPSG, err)
	}

	warped, err := src.AutoCreateWarpedVRT(srcWKT, dstWKT, alg)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("warp raster %s to EPSG:%d: %w", path, webMercatorEPSG, err)
	}

	d := &Dataset{
		src:    src,
		warped: warped,
		gt:     warped.GeoTransform(),
		width:  warped.RasterXSize(),
		height: warped.RasterYSize(),
		bands:  warped.RasterCount(),
	}

	if d.bands < 1 {
		d.Close()
		return nil, fmt.Errorf("raster %s has no bands", path)
	}

	return d, nil
}

// Close releases both the warped VRT and the source dataset
func (d *Dataset) Close() {
	d.warped.Close()
	d.src.Close()
}

// Extent returns the mercator extent of the warped dataset
func (d *Dataset) Extent() xyz.Rect {
	return xyz.Rect{
		MinX: d.gt[0],
		MaxX: d.gt[0] + d.gt[1]*float64(d.width),
		MinY: d.gt[3] + d.gt[5]*float64(d.height),
		MaxY: d.gt[3],
	}
}

// Size returns the warped raster size in pixels
func (d *Dataset) Size() (int, int) {
	return d.width, d.height
}

// Read renders the mercator rectangle rect into a w×h image. Areas
// outside the dataset stay fully transparent.
func (d *Dataset) Read(rect xyz.Rect, w, h int) (*image.NRGBA, error) {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))

	// requested window in (fractional) pixel coordinates
	px0 := (rect.MinX - d.gt[0]) / d.gt[1]
	px1 := (rect.MaxX - d.gt[0]) / d.gt[1]
	py0 := (rect.MaxY - d.gt[3]) / d.gt[5]
	py1 := (rect.MinY - d.gt[3]) / d.gt[5]

	// clamp to the dataset
	cx0 := math.Max(px0, 0)
	cy0 := math.Max(py0, 0)
	cx1 := math.Min(px1, float64(d.width))
	cy1 := math.Min(py1, float64(d.height))

	if cx0 >= cx1 || cy0 >= cy1 {
		return img, nil // no overlap
	}

	// destination sub-rectangle covered by the clamped window
	dx0 := int(math.Floor((cx0 - px0) / (px1 - px0) * float64(w)))
	dy0 := int(math.Floor((cy0 - py0) / (py1 - py0) * float64(h)))
	dx1 := int(math.Ceil((cx1 - px0) / (px1 - px0) * float64(w)))
	dy1 := int(math.Ceil((cy1 - py0) / (py1 - py0) * float64(h)))

	dw := dx1 - dx0
	dh := dy1 - dy0
	if dw < 1 || dh < 1 {
		return img, nil
	}

	xOff := int(math.Floor(cx0))
	yOff := int(math.Floor(cy0))
	xSize := minInt(int(math.Ceil(cx1))-xOff, d.width-xOff)
	ySize := minInt(int(math.Ceil(cy1))-yOff, d.height-yOff)
	if xSize < 1 || ySize < 1 {
		return img, nil
	}

	planes, err := d.readBands(xOff, yOff, xSize, ySize, dw, dh)
	if err != nil {
		return nil, err
	}

	fillNRGBA(img, dx0, dy0, dw, dh, planes, d.bands)

	return img, nil
}

// readBands reads up to four bands resampled to dw×dh
func (d *Dataset) readBands(xOff, yOff, xSize, ySize, dw, dh int) ([][]uint8, error) {
	count := minInt(d.bands, 4)
	planes := make([][]uint8, count)

	for i := 0; i < count; i++ {
		buf := make([]uint8, dw*dh)
		band := d.warped.RasterBand(i + 1)
		err := band.IO(gdal.Read, xOff, yOff, xSize, ySize, buf, dw, dh, 0, 0)
		if err != nil {
			return nil, fmt.Errorf("read band %d: %w", i+1, err)
		}
		planes[i] = buf
	}

	return planes, nil
}

// fillNRGBA copies band planes into the destination image. Band layouts
// follow GDAL conventions: 1 = gray, 2 = gray+alpha, 3 = rgb, 4 = rgba.
func fillNRGBA(img *image.NRGBA, dx0, dy0, dw, dh int, planes [][]uint8, bands int) {
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			i := y*dw + x

			var col [4]uint8
			col[3] = 0xFF

			switch {
			case bands == 1:
				col[0], col[1], col[2] = planes[0][i], planes[0][i], planes[0][i]
			case bands == 2:
				col[0], col[1], col[2] = planes[0][i], planes[0][i], planes[0][i]
				col[3] = planes[1][i]
			case bands == 3:
				col[0], col[1], col[2] = planes[0][i], planes[1][i], planes[2][i]
			default:
				col[0], col[1], col[2] = planes[0][i], planes[1][i], planes[2][i]
				col[3] = planes[3][i]
			}

			o := img.PixOffset(dx0+x, dy0+y)
			img.Pix[o+0] = col[0]
			img.Pix[o+1] = col[1]
			img.Pix[o+2] = col[2]
			img.Pix[o+3] = col[3]
		}
	}
}

func resampleAlg(name string) (gdal.ResampleAlg, error) {
	switch strings.ToLower(name) {
	case "nearest":
		return gdal.GRA_NearestNeighbour, nil
	case "bilinear", "":
		return gdal.GRA_Bilinear, nil
	case "cubic":
		return gdal.GRA_Cubic, nil
	}
	return gdal.GRA_Bilinear, fmt.Errorf("unsupported resample algorithm %q", name)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
