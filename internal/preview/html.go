package preview

import (
	"os"
	"path"
	"text/template"

	"github.com/paulmach/orb"
)

// HTMLParams fills the Leaflet preview page
type HTMLParams struct {
	Title       string
	Attribution string
	Format      string
	TMS         bool
	OSM         bool
	ZoomMin     int
	ZoomMax     int
	CenterLat   float64
	CenterLon   float64
}

var htmlTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{if .Title}}{{.Title}}{{else}}Tile Preview{{end}}</title>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
    <script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
    <style>html, body, #map { height: 100%; margin: 0; }</style>
</head>
<body>
    <div id="map"></div>
    <script>
        var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.ZoomMin}});
{{- if .OSM}}
        L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
            attribution: '&copy; OpenStreetMap contributors'
        }).addTo(map);
{{- end}}
        L.tileLayer('./{z}/{x}/{y}.{{.Format}}', {
            minZoom: {{.ZoomMin}},
            maxZoom: {{.ZoomMax}},
            tms: {{.TMS}},
            attribution: '{{.Attribution}}'
        }).addTo(map);
    </script>
</body>
</html>
`))

// WriteHTML writes the Leaflet preview page into outputDirectory,
// centered on the given lon/lat bound
func WriteHTML(outputDirectory string, params HTMLParams, bounds orb.Bound) error {
	center := bounds.Center()
	params.CenterLat = center[1]
	params.CenterLon = center[0]

	f, err := os.Create(path.Join(outputDirectory, "preview.html"))
	if err != nil {
		return err
	}

	if err := htmlTemplate.Execute(f, params); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
