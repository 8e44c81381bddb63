// Package geomap renders the booklet's overview map: the traced route
// path plus numbered markers for every point of interest.
package geomap

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strconv"

	"github.com/Schepie/CityExplorer/internal/model"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const mapFilename = "overview_map.png"

// Styling carried over from the route planner's web map.
var (
	routeColor = color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	startColor = color.RGBA{G: 0xa0, A: 0xff}
	endColor   = color.RGBA{R: 0xd0, A: 0xff}
	poiColor   = color.RGBA{R: 0xdc, G: 0x26, B: 0x26, A: 0xff}
	gridColor  = color.Gray{Y: 0xcc}
)

// Render draws the route onto a fixed-resolution map image in dir and
// returns its path. When both the traced path and the POI list are
// empty there is nothing to draw and Render returns "" with no error.
// Exactly one file is produced per call, overwriting any prior one.
func Render(data *model.RouteData, dir string) (string, error) {
	if len(data.RoutePath) == 0 && len(data.POIs) == 0 {
		return "", nil
	}

	coords := pathCoords(data)

	p := plot.New()
	p.Title.Text = "Route Overview"
	p.X.Label.Text = "Longitude"
	p.Y.Label.Text = "Latitude"

	grid := plotter.NewGrid()
	grid.Vertical.Color = gridColor
	grid.Horizontal.Color = gridColor
	grid.Vertical.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(grid)

	// The connected route line needs at least two vertices.
	if len(coords) >= 2 {
		line, err := plotter.NewLine(coords)
		if err != nil {
			return "", fmt.Errorf("plotting route line: %w", err)
		}
		line.Color = routeColor
		line.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add("Route", line)
	}

	if len(coords) >= 1 {
		start := markerAt(coords[0], startColor)
		end := markerAt(coords[len(coords)-1], endColor)
		p.Add(start, end)
		p.Legend.Add("Start", start)
		p.Legend.Add("End", end)
	}

	// Numbered POI markers, 1-based in list order, drawn regardless of
	// which coordinate source produced the route line.
	if len(data.POIs) > 0 {
		pts := make(plotter.XYs, len(data.POIs))
		labels := make([]string, len(data.POIs))
		for i := range data.POIs {
			lat, lng := data.POIs[i].Coords()
			pts[i] = plotter.XY{X: lng, Y: lat}
			labels[i] = strconv.Itoa(i + 1)
		}

		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return "", fmt.Errorf("plotting POI markers: %w", err)
		}
		sc.GlyphStyle.Color = poiColor
		sc.GlyphStyle.Radius = vg.Points(3)

		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: labels})
		if err != nil {
			return "", fmt.Errorf("labelling POI markers: %w", err)
		}
		p.Add(sc, lbl)
	}

	p.Legend.Top = true

	path := filepath.Join(dir, mapFilename)
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return "", fmt.Errorf("saving map: %w", err)
	}
	return path, nil
}

// pathCoords returns the traced path's vertices, or the POI locations
// when no path was traced. X is longitude, Y is latitude.
func pathCoords(data *model.RouteData) plotter.XYs {
	var pts plotter.XYs
	for _, v := range data.RoutePath {
		pts = append(pts, plotter.XY{X: v.Lng, Y: v.Lat})
	}
	if len(pts) == 0 {
		for i := range data.POIs {
			lat, lng := data.POIs[i].Coords()
			pts = append(pts, plotter.XY{X: lng, Y: lat})
		}
	}
	return pts
}

func markerAt(pt plotter.XY, c color.Color) *plotter.Scatter {
	s, _ := plotter.NewScatter(plotter.XYs{pt})
	s.GlyphStyle = draw.GlyphStyle{Color: c, Radius: vg.Points(5), Shape: draw.CircleGlyph{}}
	return s
}
