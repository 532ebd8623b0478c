package config

import (
	"fmt"
	"image/color"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// TileConfig holds all parameters of the tile generation stage
type TileConfig struct {
	ZoomMin      int    `mapstructure:"zoom_min"`
	ZoomMax      int    `mapstructure:"zoom_max"`
	Format       string `mapstructure:"format"`
	Quality      int    `mapstructure:"quality"`
	Background   string `mapstructure:"background"`
	TileSize     int    `mapstructure:"tile_size"`
	MetatileSize int    `mapstructure:"metatile_size"`
	TMS          bool   `mapstructure:"tms"`
	Resample     string `mapstructure:"resample"`
}

// CleanConfig holds all parameters of the undersized-tile removal stage
type CleanConfig struct {
	Enabled bool  `mapstructure:"enabled"`
	ZoomMin int   `mapstructure:"zoom_min"`
	ZoomMax int   `mapstructure:"zoom_max"`
	MinSize int64 `mapstructure:"min_size"`
}

// WatermarkConfig holds all parameters of the watermarking stage
type WatermarkConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Text         string `mapstructure:"text"`
	Levels       []int  `mapstructure:"levels"`
	Font         string `mapstructure:"font"`
	FontSize     int    `mapstructure:"font_size"`
	Color        string `mapstructure:"color"`
	MarginLeft   int    `mapstructure:"margin_left"`
	MarginBottom int    `mapstructure:"margin_bottom"`
	Frequency    int    `mapstructure:"frequency"`
}

// PathsConfig holds all parameters of the path listing stage
type PathsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// ArchiveConfig holds all parameters of the zip archiving stage
type ArchiveConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	ZipPath string `mapstructure:"zip_path"`
}

// PreviewConfig holds all parameters of the preview image / HTML output
type PreviewConfig struct {
	Title       string `mapstructure:"title"`
	Attribution string `mapstructure:"attribution"`
	OSM         bool   `mapstructure:"osm"`
}

// LogConfig holds the log output parameters
type LogConfig struct {
	Dir      string `mapstructure:"dir"`
	Terminal bool   `mapstructure:"terminal"`
}

// TaskConfig holds worker parameters shared by all stages
type TaskConfig struct {
	Workers int `mapstructure:"workers"`
}

// Config is the root of the tileforge configuration
type Config struct {
	Tile      TileConfig      `mapstructure:"tile"`
	Clean     CleanConfig     `mapstructure:"clean"`
	Watermark WatermarkConfig `mapstructure:"watermark"`
	Paths     PathsConfig     `mapstructure:"paths"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
	Preview   PreviewConfig   `mapstructure:"preview"`
	Log       LogConfig       `mapstructure:"log"`
	Task      TaskConfig      `mapstructure:"task"`
}

// Load reads the config file at cfgFile (if it exists) on top of the
// defaults. An empty cfgFile only applies the defaults.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("toml")
	v.AutomaticEnv() // read in environment variables that match

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("tile.zoom_min", 1)
	v.SetDefault("tile.zoom_max", 20)
	v.SetDefault("tile.format", "png")
	v.SetDefault("tile.quality", 74)
	v.SetDefault("tile.background", "#FFFFFF00")
	v.SetDefault("tile.tile_size", 256)
	v.SetDefault("tile.metatile_size", 4)
	v.SetDefault("tile.tms", false)
	v.SetDefault("tile.resample", "bilinear")

	v.SetDefault("clean.enabled", true)
	v.SetDefault("clean.zoom_min", 1)
	v.SetDefault("clean.zoom_max", 25)
	// 1711 is a good fit for jpg tiles, 5169 for png
	v.SetDefault("clean.min_size", 5169)

	v.SetDefault("watermark.enabled", true)
	v.SetDefault("watermark.text", "@2024")
	v.SetDefault("watermark.levels", []int{14, 15, 17})
	v.SetDefault("watermark.font", "arial.ttf")
	v.SetDefault("watermark.font_size", 10)
	v.SetDefault("watermark.color", "#FFFFFF0A")
	v.SetDefault("watermark.margin_left", 10)
	v.SetDefault("watermark.margin_bottom", 10)
	v.SetDefault("watermark.frequency", 5)

	v.SetDefault("paths.enabled", true)

	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.zip_path", "")

	v.SetDefault("preview.title", "")
	v.SetDefault("preview.attribution", "")
	v.SetDefault("preview.osm", false)

	v.SetDefault("log.dir", "")
	v.SetDefault("log.terminal", true)

	v.SetDefault("task.workers", 0)
}

// Validate checks the config for values no stage could work with
func (c *Config) Validate() error {
	if c.Tile.ZoomMin < 0 || c.Tile.ZoomMax > 30 || c.Tile.ZoomMin > c.Tile.ZoomMax {
		return fmt.Errorf("invalid tile zoom range %d..%d", c.Tile.ZoomMin, c.Tile.ZoomMax)
	}

	format := strings.ToLower(c.Tile.Format)
	if format != "png" && format != "jpg" {
		return fmt.Errorf("unsupported tile format %q (expected png or jpg)", c.Tile.Format)
	}
	c.Tile.Format = format

	if c.Tile.Quality < 1 || c.Tile.Quality > 100 {
		return fmt.Errorf("tile quality %d out of range 1..100", c.Tile.Quality)
	}

	if c.Tile.TileSize < 1 {
		return fmt.Errorf("invalid tile size %d", c.Tile.TileSize)
	}

	if c.Tile.MetatileSize < 1 {
		return fmt.Errorf("invalid metatile size %d", c.Tile.MetatileSize)
	}

	switch strings.ToLower(c.Tile.Resample) {
	case "nearest", "bilinear", "cubic":
	default:
		return fmt.Errorf("unsupported resample algorithm %q", c.Tile.Resample)
	}

	if _, err := ParseHexColor(c.Tile.Background); err != nil {
		return fmt.Errorf("tile background: %w", err)
	}

	if c.Clean.ZoomMin > c.Clean.ZoomMax {
		return fmt.Errorf("invalid clean zoom range %d..%d", c.Clean.ZoomMin, c.Clean.ZoomMax)
	}

	if c.Clean.MinSize < 0 {
		return fmt.Errorf("clean min size %d must not be negative", c.Clean.MinSize)
	}

	if c.Watermark.Frequency < 1 {
		return fmt.Errorf("watermark frequency %d must be at least 1", c.Watermark.Frequency)
	}

	if _, err := ParseHexColor(c.Watermark.Color); err != nil {
		return fmt.Errorf("watermark color: %w", err)
	}

	return nil
}

// BackgroundColor returns the parsed tile background color
func (c *Config) BackgroundColor() color.NRGBA {
	col, _ := ParseHexColor(c.Tile.Background)
	return col
}

// WatermarkColor returns the parsed watermark text color
func (c *Config) WatermarkColor() color.NRGBA {
	col, _ := ParseHexColor(c.Watermark.Color)
	return col
}

// Workers returns the configured worker count, defaulting to the CPU count
func (c *Config) Workers() int {
	if c.Task.Workers > 0 {
		return c.Task.Workers
	}
	return runtime.NumCPU()
}

// ParseHexColor parses a #RRGGBB or #RRGGBBAA color
func ParseHexColor(s string) (color.NRGBA, error) {
	col := color.NRGBA{A: 0xFF}

	if !strings.HasPrefix(s, "#") {
		return col, fmt.Errorf("invalid color %q: missing # prefix", s)
	}

	hex := s[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return col, fmt.Errorf("invalid color %q: expected #RRGGBB or #RRGGBBAA", s)
	}

	var parts [4]uint8
	for i := 0; i < len(hex)/2; i++ {
		var b uint8
		if _, err := fmt.Sscanf(hex[i*2:i*2+2], "%02x", &b); err != nil {
			return col, fmt.Errorf("invalid color %q: %w", s, err)
		}
		parts[i] = b
	}

	col.R, col.G, col.B = parts[0], parts[1], parts[2]
	if len(hex) == 8 {
		col.A = parts[3]
	}

	return col, nil
}
