package cleaner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tileforge/tileforge/internal/config"
)

func writeTile(t *testing.T, root string, rel string, size int) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), os.ModePerm))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0644))
	return path
}

func TestRun(t *testing.T) {
	root := t.TempDir()

	small := writeTile(t, root, "5/1/1.png", 100)
	big := writeTile(t, root, "5/1/2.png", 600)
	smallDeep := writeTile(t, root, "6/12/7.png", 10)

	// outside of the configured zoom range
	outside := writeTile(t, root, "9/0/0.png", 5)

	c := &Cleaner{
		Root: root,
		Config: config.CleanConfig{
			ZoomMin: 1,
			ZoomMax: 8,
			MinSize: 500,
		},
	}

	deleted, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	assert.NoFileExists(t, small)
	assert.NoFileExists(t, smallDeep)
	assert.FileExists(t, big)
	assert.FileExists(t, outside)
}

func TestRunExactThreshold(t *testing.T) {
	root := t.TempDir()

	exact := writeTile(t, root, "3/0/0.png", 500)

	c := &Cleaner{
		Root:   root,
		Config: config.CleanConfig{ZoomMin: 3, ZoomMax: 3, MinSize: 500},
	}

	deleted, err := c.Run()
	require.NoError(t, err)

	// files at exactly the threshold survive
	assert.Equal(t, int64(0), deleted)
	assert.FileExists(t, exact)
}

func TestRunMissingZoomDirs(t *testing.T) {
	c := &Cleaner{
		Root:   t.TempDir(),
		Config: config.CleanConfig{ZoomMin: 1, ZoomMax: 25, MinSize: 500},
	}

	deleted, err := c.Run()
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}
