package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tileforge/tileforge/internal/pipeline"
)

type command struct {
	name        string
	description string
	run         func(*flag.FlagSet)
}

var subCommands []command

func init() {
	subCommands = []command{
		{"run", "Generate, clean, watermark, list and archive XYZ tiles.", pipeline.Run},
		{"tile", "Generate XYZ tiles from a raster file.", pipeline.RunTile},
		{"clean", "Delete tiles below the configured size threshold.", pipeline.RunClean},
		{"watermark", "Stamp a watermark onto selected zoom levels.", pipeline.RunWatermark},
		{"paths", "Save the paths of all tiles to tile_paths.txt.", pipeline.RunPaths},
		{"archive", "Pack the tile directory into a zip file.", pipeline.RunArchive},
		{"preview", "Build preview images and the Leaflet HTML page.", pipeline.RunPreview},
		{"help", "Print this message.", func(s *flag.FlagSet) { printUsage() }},
	}
}

func printUsage() {
	fmt.Printf("USAGE:\n    %s [SUBCOMMAND] [SUBCOMMAND FLAGS]\n\n", os.Args[0])
	fmt.Print("SUBCOMMANDS: \n")

	for i := 0; i < len(subCommands); i++ {
		name := subCommands[i].name

		fmt.Printf("%12s    %s\n", name, subCommands[i].description)
	}

	fmt.Printf("\nUse -h as SUBCOMMAND FLAG to print help for each subcommand.\n\n")
}

func main() {

	if len(os.Args) < 2 {
		fmt.Printf("\nERROR: No subcommand was provided.\n\n")
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	for i := 0; i < len(subCommands); i++ {
		if subCommands[i].name == cmd {
			set := flag.NewFlagSet(cmd, flag.ExitOnError)
			subCommands[i].run(set)
			return
		}
	}

	fmt.Printf("\nERROR: Subcommand '%s' was not found.\n\n", cmd)
	printUsage()
}
