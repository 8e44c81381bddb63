package scraper

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	_ "image/jpeg"

	"github.com/PuerkitoBio/goquery"
	"github.com/Schepie/CityExplorer/internal/model"
	"github.com/rs/zerolog"
)

const samplePageHTML = `<html>
<head><meta property="og:image" content="https://cdn.example.com/hero.jpg"></head>
<body>
  <img src="/photos/first.jpg">
  <img src="relative/second.jpg">
  <img src="/assets/site-logo.png">
  <img src="/Icon-large.png">
  <img src="https://tracker.example.com/pixel.gif">
  <img src="/banners/ad_728x90.jpg">
  <img>
</body></html>`

func TestCollectImageURLs(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(samplePageHTML))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	base, _ := url.Parse("https://site.example.com/poi/42")

	urls := CollectImageURLs(doc, base)

	want := []string{
		"https://cdn.example.com/hero.jpg",
		"https://site.example.com/photos/first.jpg",
		"https://site.example.com/poi/relative/second.jpg",
	}
	if len(urls) != len(want) {
		t.Fatalf("expected %d candidates, got %d: %v", len(want), len(urls), urls)
	}
	for i, u := range want {
		if urls[i] != u {
			t.Errorf("candidate %d: expected %q, got %q", i, u, urls[i])
		}
	}
}

func TestCollectImageURLsNoOGImage(t *testing.T) {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(`<html><body><img src="/a.jpg"></body></html>`))
	base, _ := url.Parse("https://site.example.com/")
	urls := CollectImageURLs(doc, base)
	if len(urls) != 1 || urls[0] != "https://site.example.com/a.jpg" {
		t.Errorf("unexpected candidates: %v", urls)
	}
}

func TestDeniedImageURL(t *testing.T) {
	cases := []struct {
		url  string
		deny bool
	}{
		{"https://x.com/photo.jpg", false},
		{"https://x.com/LOGO.png", true},
		{"https://x.com/sprite-sheet.png", true},
		{"https://x.com/stadium.jpg", true}, // known false positive: "ad"
	}
	for _, c := range cases {
		if got := deniedImageURL(c.url); got != c.deny {
			t.Errorf("deniedImageURL(%q): expected %v, got %v", c.url, c.deny, got)
		}
	}
}

// pngBytes renders a blank w×h PNG for fixture serving.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encoding fixture PNG: %v", err)
	}
	return buf.Bytes()
}

type fixtureServer struct {
	*httptest.Server
	photoHits int
}

func newFixtureServer(t *testing.T) *fixtureServer {
	t.Helper()
	fs := &fixtureServer{}
	mux := http.NewServeMux()

	mux.HandleFunc("/photo.png", func(w http.ResponseWriter, r *http.Request) {
		fs.photoHits++
		w.Write(pngBytes(t, 300, 300))
	})
	mux.HandleFunc("/second.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 250, 250))
	})
	mux.HandleFunc("/third.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 250, 250))
	})
	mux.HandleFunc("/small.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 100, 100))
	})
	mux.HandleFunc("/wide.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(pngBytes(t, 1500, 450))
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html>
<head><meta property="og:image" content="%s/photo.png"></head>
<body><img src="/second.png"><img src="/small.png"><img src="/third.png"></body>
</html>`, fs.URL)
	})

	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func newTestFetcher(t *testing.T, srv *fixtureServer) *Fetcher {
	t.Helper()
	return &Fetcher{
		Client:    srv.Client(),
		AssetsDir: t.TempDir(),
		MaxDim:    1000,
		UserAgent: "CityExplorerBot/1.0 (test)",
		Log:       zerolog.Nop(),
	}
}

func TestFetchImagesDirectAndScraped(t *testing.T) {
	srv := newFixtureServer(t)
	f := newTestFetcher(t, srv)

	poi := &model.PointOfInterest{
		ID:    "7",
		Name:  "Museum",
		Image: srv.URL + "/photo.png",
		Link:  srv.URL + "/page",
	}

	paths := f.FetchImages(context.Background(), poi, 3)

	// Direct image, then second and third from the page; the og:image
	// duplicates the direct URL and must not be downloaded again, and
	// small.png is rejected by the size filter.
	if len(paths) != 3 {
		t.Fatalf("expected 3 images, got %d: %v", len(paths), paths)
	}
	if srv.photoHits != 1 {
		t.Errorf("direct image downloaded %d times, expected 1", srv.photoHits)
	}
	if !strings.HasSuffix(paths[0], "poi_7_0.jpg") {
		t.Errorf("slot 0 filename: got %q", paths[0])
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing artifact %q: %v", p, err)
		}
	}
}

func TestFetchImagesCap(t *testing.T) {
	srv := newFixtureServer(t)
	f := newTestFetcher(t, srv)

	poi := &model.PointOfInterest{
		ID:    "9",
		Image: srv.URL + "/photo.png",
		Link:  srv.URL + "/page",
	}

	for _, maxCount := range []int{1, 2} {
		paths := f.FetchImages(context.Background(), poi, maxCount)
		if len(paths) > maxCount {
			t.Errorf("maxCount %d: got %d images", maxCount, len(paths))
		}
	}
}

func TestFetchImagesRejectsSmall(t *testing.T) {
	srv := newFixtureServer(t)
	f := newTestFetcher(t, srv)

	poi := &model.PointOfInterest{ID: "3", Image: srv.URL + "/small.png"}
	if paths := f.FetchImages(context.Background(), poi, 3); len(paths) != 0 {
		t.Errorf("small image should be rejected, got %v", paths)
	}
}

func TestFetchImagesResizesLarge(t *testing.T) {
	srv := newFixtureServer(t)
	f := newTestFetcher(t, srv)

	poi := &model.PointOfInterest{ID: "4", Image: srv.URL + "/wide.png"}
	paths := f.FetchImages(context.Background(), poi, 1)
	if len(paths) != 1 {
		t.Fatalf("expected 1 image, got %d", len(paths))
	}

	file, err := os.Open(paths[0])
	if err != nil {
		t.Fatalf("opening artifact: %v", err)
	}
	defer file.Close()
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		t.Fatalf("decoding artifact: %v", err)
	}
	if cfg.Width != 1000 || cfg.Height != 300 {
		t.Errorf("expected 1000x300 after fit, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestFetchImagesFailuresDegrade(t *testing.T) {
	srv := newFixtureServer(t)
	f := newTestFetcher(t, srv)

	poi := &model.PointOfInterest{
		ID:    "5",
		Image: srv.URL + "/missing.png", // 404
		Link:  srv.URL + "/nopage",      // 404
	}
	if paths := f.FetchImages(context.Background(), poi, 3); len(paths) != 0 {
		t.Errorf("expected empty result, got %v", paths)
	}
}

func TestFetchImagesNoSources(t *testing.T) {
	f := &Fetcher{Client: http.DefaultClient, AssetsDir: t.TempDir(), MaxDim: 1000, Log: zerolog.Nop()}
	poi := &model.PointOfInterest{ID: "1", Name: "Nothing"}
	if paths := f.FetchImages(context.Background(), poi, 3); len(paths) != 0 {
		t.Errorf("expected no images without sources, got %v", paths)
	}
}
