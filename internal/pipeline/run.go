package pipeline

import (
	"context"
	"flag"
	"os"

	"github.com/tileforge/tileforge/internal/config"
	"github.com/tileforge/tileforge/internal/logging"
	"github.com/tileforge/tileforge/internal/utils"
	"github.com/tileforge/tileforge/internal/validate"
)

// defaultConfigPath is used when no -c flag is given and the file exists
const defaultConfigPath = "./conf/conf.toml"

type stageFlags struct {
	in    *string
	out   *string
	cfg   *string
	level *string
	zip   *string
}

func newStageFlags(flagSet *flag.FlagSet, withInput bool) *stageFlags {
	f := &stageFlags{
		out:   flagSet.String("out", "", "Path to output directory for XYZ tiles"),
		cfg:   flagSet.String("c", "", "Path to TOML config file"),
		level: flagSet.String("l", "info", "Log level"),
	}
	if withInput {
		f.in = flagSet.String("in", "", "Path to input raster file")
	}
	return f
}

// setup parses the flags and initializes config and logging. It exits
// with the flag defaults when required flags are missing.
func (f *stageFlags) setup(flagSet *flag.FlagSet) *Pipeline {
	withInput := f.in != nil

	flagSet.Parse(os.Args[2:])

	if *f.out == "" || (withInput && *f.in == "") {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	cfgFile := *f.cfg
	if cfgFile == "" && utils.IsFile(defaultConfigPath) {
		cfgFile = defaultConfigPath
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		log.Fatal(err)
	}

	if err := logging.Init(cfg.Log.Dir, cfg.Log.Terminal, *f.level); err != nil {
		log.Fatal(err)
	}

	p := &Pipeline{Config: cfg, Output: *f.out}
	if withInput {
		p.Input = *f.in
	}
	return p
}

// Run is the entrypoint of the full pipeline subcommand
func Run(flagSet *flag.FlagSet) {
	f := newStageFlags(flagSet, true)
	p := f.setup(flagSet)

	ctx, cancel := WithSignals(context.Background())
	defer cancel()

	if err := p.Run(ctx); err != nil {
		log.Fatal(err)
	}
}

// RunTile is the entrypoint of the tile subcommand
func RunTile(flagSet *flag.FlagSet) {
	f := newStageFlags(flagSet, true)
	p := f.setup(flagSet)

	ctx, cancel := WithSignals(context.Background())
	defer cancel()

	if err := p.Tile(ctx); err != nil {
		log.Fatal(err)
	}
}

// RunClean is the entrypoint of the clean subcommand
func RunClean(flagSet *flag.FlagSet) {
	f := newStageFlags(flagSet, false)
	p := f.setup(flagSet)

	if err := validate.TileTree(p.Output, p.Config.Clean.ZoomMin, p.Config.Clean.ZoomMax); err != nil {
		log.Fatal(err)
	}
	if err := p.Clean(); err != nil {
		log.Fatal(err)
	}
}

// RunWatermark is the entrypoint of the watermark subcommand
func RunWatermark(flagSet *flag.FlagSet) {
	f := newStageFlags(flagSet, false)
	p := f.setup(flagSet)

	if err := p.Watermark(); err != nil {
		log.Fatal(err)
	}
}

// RunPaths is the entrypoint of the paths subcommand
func RunPaths(flagSet *flag.FlagSet) {
	f := newStageFlags(flagSet, false)
	p := f.setup(flagSet)

	if err := p.Paths(); err != nil {
		log.Fatal(err)
	}
}

// RunArchive is the entrypoint of the archive subcommand
func RunArchive(flagSet *flag.FlagSet) {
	f := newStageFlags(flagSet, false)
	f.zip = flagSet.String("zip", "", "Destination path of the zip archive")
	p := f.setup(flagSet)

	if *f.zip != "" {
		p.Config.Archive.ZipPath = *f.zip
	}

	if err := p.Archive(); err != nil {
		log.Fatal(err)
	}
}

// RunPreview is the entrypoint of the preview subcommand
func RunPreview(flagSet *flag.FlagSet) {
	f := newStageFlags(flagSet, true)
	p := f.setup(flagSet)

	if err := p.Preview(); err != nil {
		log.Fatal(err)
	}
}
