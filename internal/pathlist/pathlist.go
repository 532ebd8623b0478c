// Package pathlist writes a listing of all tile paths into the output
// directory, for downstream tooling that wants the tiles without
// walking the tree itself.
package pathlist

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tileforge/tileforge/internal/logging"
	"github.com/tileforge/tileforge/internal/utils"
)

var log = logging.L()

// FileName is the name of the listing file within the output directory
const FileName = "tile_paths.txt"

// Write collects the relative paths of all tile images below root and
// writes them newline-separated to root/tile_paths.txt. It returns the
// number of listed tiles.
func Write(root string) (int64, error) {
	paths, err := Collect(root)
	if err != nil {
		return 0, err
	}

	outPath := filepath.Join(root, FileName)
	out, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}

	buf := bufio.NewWriter(out)
	for _, p := range paths {
		if _, err := buf.WriteString(p + "\n"); err != nil {
			out.Close()
			return 0, err
		}
	}

	if err := buf.Flush(); err != nil {
		out.Close()
		return 0, err
	}
	if err := out.Close(); err != nil {
		return 0, err
	}

	log.Infof("saved %d tile paths to %s", len(paths), outPath)
	return int64(len(paths)), nil
}

// Collect returns the sorted relative paths (forward slashes) of all
// tile images below root
func Collect(root string) ([]string, error) {
	paths := make([]string, 0)

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !utils.IsTileImage(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})

	if err != nil {
		return nil, err
	}

	return paths, nil
}
