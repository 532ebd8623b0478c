package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Tile.ZoomMin)
	assert.Equal(t, 20, cfg.Tile.ZoomMax)
	assert.Equal(t, "png", cfg.Tile.Format)
	assert.Equal(t, 256, cfg.Tile.TileSize)
	assert.Equal(t, 4, cfg.Tile.MetatileSize)
	assert.False(t, cfg.Tile.TMS)

	assert.True(t, cfg.Clean.Enabled)
	assert.Equal(t, int64(5169), cfg.Clean.MinSize)
	assert.Equal(t, 25, cfg.Clean.ZoomMax)

	assert.True(t, cfg.Watermark.Enabled)
	assert.Equal(t, []int{14, 15, 17}, cfg.Watermark.Levels)
	assert.Equal(t, 5, cfg.Watermark.Frequency)

	assert.False(t, cfg.Archive.Enabled)
	assert.True(t, cfg.Paths.Enabled)
	assert.Positive(t, cfg.Workers())
}

func TestLoadFile(t *testing.T) {
	content := `
[tile]
zoom_min = 3
zoom_max = 12
format = "JPG"
quality = 80
tms = true

[clean]
min_size = 1711

[watermark]
text = "(c) tileforge"
levels = [10, 11]
frequency = 2

[archive]
enabled = true
zip_path = "tiles.zip"
`
	cfgFile := filepath.Join(t.TempDir(), "conf.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0644))

	cfg, err := Load(cfgFile)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Tile.ZoomMin)
	assert.Equal(t, 12, cfg.Tile.ZoomMax)
	assert.Equal(t, "jpg", cfg.Tile.Format, "format should be lowercased")
	assert.Equal(t, 80, cfg.Tile.Quality)
	assert.True(t, cfg.Tile.TMS)

	assert.Equal(t, int64(1711), cfg.Clean.MinSize)

	assert.Equal(t, "(c) tileforge", cfg.Watermark.Text)
	assert.Equal(t, []int{10, 11}, cfg.Watermark.Levels)
	assert.Equal(t, 2, cfg.Watermark.Frequency)

	assert.True(t, cfg.Archive.Enabled)
	assert.Equal(t, "tiles.zip", cfg.Archive.ZipPath)

	// untouched sections keep their defaults
	assert.Equal(t, "#FFFFFF00", cfg.Tile.Background)
	assert.True(t, cfg.Clean.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	require.NoError(t, os.Setenv("TILE.ZOOM_MAX", "5"))
	defer os.Unsetenv("TILE.ZOOM_MAX")

	// env overrides apply with and without a config file
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Tile.ZoomMax)

	cfgFile := filepath.Join(t.TempDir(), "conf.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("[tile]\nzoom_min = 2\n"), 0644))

	cfg, err = Load(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Tile.ZoomMin)
	assert.Equal(t, 5, cfg.Tile.ZoomMax)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	t.Run("zoom range inverted", func(t *testing.T) {
		cfg := base()
		cfg.Tile.ZoomMin = 10
		cfg.Tile.ZoomMax = 2
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown format", func(t *testing.T) {
		cfg := base()
		cfg.Tile.Format = "webp"
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad background color", func(t *testing.T) {
		cfg := base()
		cfg.Tile.Background = "white"
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero frequency", func(t *testing.T) {
		cfg := base()
		cfg.Watermark.Frequency = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative min size", func(t *testing.T) {
		cfg := base()
		cfg.Clean.MinSize = -1
		assert.Error(t, cfg.Validate())
	})

	t.Run("bad resample", func(t *testing.T) {
		cfg := base()
		cfg.Tile.Resample = "lanczos"
		assert.Error(t, cfg.Validate())
	})
}

func TestParseHexColor(t *testing.T) {
	col, err := ParseHexColor("#FFFFFF00")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 0}, col)

	col, err = ParseHexColor("#1A2b3C")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 0x1A, G: 0x2B, B: 0x3C, A: 0xFF}, col)

	for _, s := range []string{"", "FFFFFF", "#FFF", "#GGGGGG"} {
		_, err := ParseHexColor(s)
		assert.Error(t, err, s)
	}
}
