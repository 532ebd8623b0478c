// Package archive packs the finished tile tree into a single zip file
// for distribution and backup.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tileforge/tileforge/internal/logging"
)

var log = logging.L()

// Zip compresses the directory tree at root into zipPath (deflate).
// Entry names are relative to root with forward slashes. Zip files
// directly at the root are skipped, so the archive may be created
// inside the tree it packs.
func Zip(root, zipPath string) error {
	if err := os.MkdirAll(filepath.Dir(zipPath), os.ModePerm); err != nil {
		return err
	}

	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", zipPath, err)
	}

	zw := zip.NewWriter(out)

	absZip, err := filepath.Abs(zipPath)
	if err != nil {
		absZip = zipPath
	}

	count := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// never pack the archive currently being written
		if abs, err := filepath.Abs(path); err == nil && abs == absZip {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		// don't pack the archive (or an older one) into itself
		if !strings.Contains(rel, "/") && strings.HasSuffix(strings.ToLower(rel), ".zip") {
			return nil
		}

		if err := addFile(zw, path, rel); err != nil {
			return err
		}

		count++
		return nil
	})

	if err != nil {
		zw.Close()
		out.Close()
		return fmt.Errorf("archive %s: %w", root, err)
	}

	if err := zw.Close(); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	log.Infof("archived %d files from %s to %s", count, root, zipPath)
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}

	_, err = io.Copy(w, in)
	return err
}
