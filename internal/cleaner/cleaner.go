// Package cleaner removes undersized tiles. Tiles below the size
// threshold are typically empty or single-color and carry no data
// worth keeping.
package cleaner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tileforge/tileforge/internal/config"
	"github.com/tileforge/tileforge/internal/logging"
	"github.com/tileforge/tileforge/internal/utils"
)

var log = logging.L()

// Cleaner deletes tiles below MinSize within the configured zoom range
type Cleaner struct {
	Root   string
	Config config.CleanConfig
}

// Run walks every configured zoom directory and reports the number of
// deleted tiles
func (c *Cleaner) Run() (int64, error) {
	var total int64

	for zoom := c.Config.ZoomMin; zoom <= c.Config.ZoomMax; zoom++ {
		zoomDir := filepath.Join(c.Root, fmt.Sprintf("%d", zoom))

		if !utils.IsDirectory(zoomDir) {
			log.Debugf("zoom %d directory does not exist, skipping", zoom)
			continue
		}

		deleted, err := c.cleanDir(zoomDir)
		if err != nil {
			return total, fmt.Errorf("clean zoom %d: %w", zoom, err)
		}

		log.Infof("zoom %d: removed %d tiles below %d bytes", zoom, deleted, c.Config.MinSize)
		total += deleted
	}

	return total, nil
}

// cleanDir deletes all regular files below the threshold within dir
func (c *Cleaner) cleanDir(dir string) (int64, error) {
	var deleted int64

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		if info.Size() < c.Config.MinSize {
			if err := os.Remove(path); err != nil {
				return err
			}
			deleted++
		}

		return nil
	})

	return deleted, err
}
