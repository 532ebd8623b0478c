package validate

import (
	"fmt"
	"os"
	"path"

	"github.com/tileforge/tileforge/internal/utils"
)

// InputRaster validates that given path exists and is a file
func InputRaster(rasterPath string) error {
	if !utils.IsFile(rasterPath) {
		return fmt.Errorf("input raster %s does not exist or is no file", rasterPath)
	}

	return nil
}

// OutputDirectory validates that given path is a writable directory,
// creating it if necessary
func OutputDirectory(dirPath string) error {
	if utils.IsFile(dirPath) {
		return fmt.Errorf("output path %s is a file, not a directory", dirPath)
	}

	if !utils.IsDirectory(dirPath) {
		if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
			return fmt.Errorf("create output directory %s: %w", dirPath, err)
		}
	}

	return nil
}

// TileTree validates that given directory contains at least one zoom
// level directory, i.e. looks like generated tile output
func TileTree(dirPath string, zoomMin, zoomMax int) error {
	if !utils.IsDirectory(dirPath) {
		return fmt.Errorf("%s does not exist or is no directory", dirPath)
	}

	for zoom := zoomMin; zoom <= zoomMax; zoom++ {
		if utils.IsDirectory(path.Join(dirPath, fmt.Sprintf("%d", zoom))) {
			return nil
		}
	}

	return fmt.Errorf("%s contains no zoom level directories between %d and %d", dirPath, zoomMin, zoomMax)
}
