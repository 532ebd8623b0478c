package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsFileIsDirectory(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "tile.png")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, IsFile(file))
	assert.False(t, IsFile(dir))
	assert.False(t, IsFile(filepath.Join(dir, "missing")))

	assert.True(t, IsDirectory(dir))
	assert.False(t, IsDirectory(file))
	assert.False(t, IsDirectory(filepath.Join(dir, "missing")))
}

func TestFileSize(t *testing.T) {
	dir := t.TempDir()

	file := filepath.Join(dir, "tile.png")
	require.NoError(t, os.WriteFile(file, make([]byte, 123), 0644))

	assert.Equal(t, int64(123), FileSize(file))
	assert.Equal(t, int64(-1), FileSize(dir))
	assert.Equal(t, int64(-1), FileSize(filepath.Join(dir, "missing")))
}

func TestIsTileImage(t *testing.T) {
	assert.True(t, IsTileImage("0.png"))
	assert.True(t, IsTileImage("12.JPG"))
	assert.True(t, IsTileImage("tile.jpeg"))

	assert.False(t, IsTileImage("tile_paths.txt"))
	assert.False(t, IsTileImage("tile.json"))
	assert.False(t, IsTileImage("preview.html"))
	assert.False(t, IsTileImage("png"))
}
