package tilejson

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/paulmach/orb"
)

// TileJSON describes a generated raster tile pyramid (tilejson 2.2.0)
type TileJSON struct {
	TileJSON    string     `json:"tilejson"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Scheme      string     `json:"scheme"`
	Format      string     `json:"format"`
	Tiles       []string   `json:"tiles"`
	Minzoom     int        `json:"minzoom"`
	Maxzoom     int        `json:"maxzoom"`
	Bounds      [4]float64 `json:"bounds"`
	Center      [3]float64 `json:"center"`
}

// Write a tile.json for the pyramid in outputDirectory
func Write(outputDirectory, name, format string, minzoom, maxzoom int, scheme string, bounds orb.Bound) error {
	var err error

	center := bounds.Center()

	obj := TileJSON{
		TileJSON: "2.2.0",
		Name:     name,
		Scheme:   scheme,
		Format:   format,
		Tiles:    []string{fmt.Sprintf("./{z}/{x}/{y}.%s", format)},
		Minzoom:  minzoom,
		Maxzoom:  maxzoom,
		Bounds:   [4]float64{bounds.Left(), bounds.Bottom(), bounds.Right(), bounds.Top()},
		Center:   [3]float64{center[0], center[1], float64(minzoom)},
	}

	// create file
	f, err := os.Create(path.Join(outputDirectory, "tile.json"))
	if err != nil {
		return err
	}

	// marshal
	bytes, err := json.MarshalIndent(obj, "", "    ")
	if err != nil {
		return err
	}

	// write file
	_, err = f.Write(bytes)
	if err != nil {
		return err
	}

	// close file
	err = f.Close()
	if err != nil {
		return err
	}

	return err
}
