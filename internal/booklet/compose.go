package booklet

import (
	"context"
	"fmt"
	"image"
	"io"
	"net/url"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/Schepie/CityExplorer/internal/geomap"
	"github.com/Schepie/CityExplorer/internal/model"
	"github.com/Schepie/CityExplorer/internal/qr"
	"github.com/Schepie/CityExplorer/internal/scraper"
	"github.com/rs/zerolog"
)

const searchURLTemplate = "https://www.google.com/search?q=%s"

// Composer orchestrates content acquisition (map, photographs, QR
// fallbacks) and turns a route record into the ordered block sequence
// handed to the pagination sink.
type Composer struct {
	Fetcher   *scraper.Fetcher
	AssetsDir string
	MaxImages int
	Out       io.Writer // per-POI progress notices
	Log       zerolog.Logger
}

func NewComposer(fetcher *scraper.Fetcher, assetsDir string, maxImages int, log zerolog.Logger) *Composer {
	return &Composer{
		Fetcher:   fetcher,
		AssetsDir: assetsDir,
		MaxImages: maxImages,
		Out:       os.Stdout,
		Log:       log,
	}
}

// Compose builds the full booklet: cover, overview map, table of
// contents, navigation instructions, and one detail section per POI.
// Acquisition failures degrade individual sections; Compose itself
// always returns a complete sequence.
func (c *Composer) Compose(ctx context.Context, rec *model.RouteRecord, logoPath string) []Block {
	city := rec.City
	if city == "" {
		city = "Unknown City"
	}
	data := &rec.RouteData

	var blocks []Block
	blocks = append(blocks, c.coverBlocks(rec, city, logoPath)...)
	blocks = append(blocks, c.mapBlocks(data)...)
	blocks = append(blocks, tocBlocks(data.POIs)...)
	blocks = append(blocks, navigationBlocks(data.NavigationSteps)...)
	for i := range data.POIs {
		blocks = append(blocks, c.poiBlocks(ctx, &data.POIs[i], i, city)...)
	}
	return blocks
}

func (c *Composer) coverBlocks(rec *model.RouteRecord, city, logoPath string) []Block {
	var blocks []Block

	if logoPath != "" {
		if _, err := os.Stat(logoPath); err == nil {
			w, h := fitBox(logoPath, 9, 9)
			blocks = append(blocks,
				Spacer{Height: 4},
				Image{Path: logoPath, Width: w, Height: h, Center: true},
				Spacer{Height: 2},
			)
		}
	}

	blocks = append(blocks, Heading{Level: 1, Text: EscapeText(city) + " – Travel Booklet"})

	interests := rec.Interests
	if interests == "" {
		interests = "General"
	}

	meta := []string{
		"<b>Interests:</b> " + EscapeText(interests),
		fmt.Sprintf("<b>Planned Distance:</b> %.1f km", float64(rec.RouteData.Stats.TotalDistance)),
		fmt.Sprintf("<b>Walking Buffer:</b> %.1f km", float64(rec.RouteData.Stats.WalkDistance)),
		"<b>Route Type:</b> " + routeTypeLabel(rec.IsRoundtrip),
	}
	for _, line := range meta {
		blocks = append(blocks, Paragraph{Text: line, Style: StyleMeta})
	}

	return append(blocks, PageBreak{})
}

func (c *Composer) mapBlocks(data *model.RouteData) []Block {
	blocks := []Block{Heading{Level: 2, Text: "Overview Map"}}

	mapPath, err := geomap.Render(data, c.AssetsDir)
	if err != nil {
		c.Log.Warn().Err(err).Msg("map rendering failed")
	} else if mapPath != "" {
		blocks = append(blocks, Image{Path: mapPath, Width: 16, Height: 12})
	}

	limitCell := "N/A"
	if limit := float64(data.Stats.LimitKm); limit > 0 {
		limitCell = fmt.Sprintf("%.1f km", limit)
	}
	rows := [][]string{
		{"Total Distance", fmt.Sprintf("%.1f km", float64(data.Stats.TotalDistance))},
		{"Walking Distance", fmt.Sprintf("%.1f km", float64(data.Stats.WalkDistance))},
		{"Limit", limitCell},
	}

	return append(blocks,
		Spacer{Height: 1},
		Table{Rows: rows, ColWidths: []float64{6, 4}},
		PageBreak{},
	)
}

func tocBlocks(pois []model.PointOfInterest) []Block {
	blocks := []Block{Heading{Level: 2, Text: "Points of Interest"}}
	for i := range pois {
		text := fmt.Sprintf("<b>%d. %s</b><br/><small>%s</small>",
			i+1, EscapeText(poiName(&pois[i])), EscapeText(poiAddress(&pois[i])))
		blocks = append(blocks, Paragraph{Text: text}, Spacer{Height: 0.2})
	}
	return blocks
}

func navigationBlocks(steps []model.NavigationStep) []Block {
	blocks := []Block{Heading{Level: 2, Text: "Navigation Instructions"}}

	if len(steps) == 0 {
		blocks = append(blocks, Paragraph{Text: "No specific navigation instructions found for this route."})
		return append(blocks, PageBreak{})
	}

	rows := [][]string{{"Mode", "Instruction", "Dist.", "Dur."}}
	for _, step := range steps {
		rows = append(rows, []string{
			step.ModeLabel(),
			step.Instruction(),
			fmt.Sprintf("%.0fm", float64(step.Distance)),
			fmt.Sprintf("%.1f min", float64(step.Duration)/60),
		})
	}

	blocks = append(blocks, Table{Rows: rows, ColWidths: []float64{2, 10, 2.5, 2.5}, HeaderRow: true})
	return append(blocks, PageBreak{})
}

// poiBlocks builds one detail section. Every section gets some visual
// artifact: up to MaxImages acquired photographs, or the QR fallback
// with a clickable link.
func (c *Composer) poiBlocks(ctx context.Context, poi *model.PointOfInterest, idx int, city string) []Block {
	name := poiName(poi)

	blocks := []Block{
		Heading{Level: 2, Text: fmt.Sprintf("%d. %s", idx+1, EscapeText(name))},
		Paragraph{Text: EscapeText(poi.Address), Style: StyleSmall},
		Spacer{Height: 0.5},
		Paragraph{Text: EscapeText(poi.Description())},
		Spacer{Height: 0.5},
	}

	fmt.Fprintf(c.Out, "Processing images for POI: %s...\n", name)
	images := c.Fetcher.FetchImages(ctx, poi, c.MaxImages)
	fmt.Fprintf(c.Out, "Downloaded %d photos for POI: %s\n", len(images), name)

	if len(images) > 0 {
		for _, p := range images {
			w, h := fitBox(p, 16, 9)
			blocks = append(blocks, Image{Path: p, Width: w, Height: h}, Spacer{Height: 0.5})
		}
	} else {
		link := poi.Link
		if link == "" {
			link = fmt.Sprintf(searchURLTemplate, url.QueryEscape(name+" "+city))
		}
		qrPath, err := qr.Generate(link, c.AssetsDir, fmt.Sprintf("poi_%d", idx))
		if err != nil {
			c.Log.Warn().Err(err).Str("poi", name).Msg("QR generation failed")
		} else {
			blocks = append(blocks,
				Spacer{Height: 1},
				Image{Path: qrPath, Width: 4, Height: 4},
				Paragraph{
					Text:  fmt.Sprintf(`<a href="%s">Link to info</a>`, EscapeText(link)),
					Style: StyleSmall,
				},
			)
		}
	}

	lat, lng := poi.Coords()
	return append(blocks,
		Spacer{Height: 1},
		Paragraph{Text: fmt.Sprintf("Lat: %.5f, Lng: %.5f", lat, lng), Style: StyleSmall},
		PageBreak{},
	)
}

func poiName(poi *model.PointOfInterest) string {
	if poi.Name == "" {
		return "POI"
	}
	return poi.Name
}

func poiAddress(poi *model.PointOfInterest) string {
	if poi.Address == "" {
		return "Unknown Address"
	}
	return poi.Address
}

func routeTypeLabel(roundtrip bool) string {
	if roundtrip {
		return "Roundtrip"
	}
	return "One-way"
}

// fitBox scales an image to fit a maxW×maxH box (centimeters),
// preserving aspect ratio. On decode failure the full box is used.
func fitBox(path string, maxW, maxH float64) (float64, float64) {
	f, err := os.Open(path)
	if err != nil {
		return maxW, maxH
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return maxW, maxH
	}

	aspect := float64(cfg.Height) / float64(cfg.Width)
	w := maxW
	h := w * aspect
	if h > maxH {
		h = maxH
		w = h / aspect
	}
	return w, h
}
