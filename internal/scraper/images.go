package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/Schepie/CityExplorer/internal/config"
	"github.com/Schepie/CityExplorer/internal/model"
	"github.com/disintegration/imaging"
	"github.com/rs/zerolog"
)

// minDimension rejects images below this size on either axis. Small
// images are almost always tracking pixels, icons or ad creatives
// rather than representative photographs.
const minDimension = 200

const jpegQuality = 85

// imageURLDenylist filters obvious non-photo assets by URL substring.
// Blunt heuristic: it can false-positive on legitimate URLs (e.g.
// "stadium" contains "ad"), so treat it as tunable policy rather than a
// correctness guarantee.
var imageURLDenylist = []string{"icon", "logo", "sprite", "pixel", "ad"}

// Fetcher downloads, filters and locally persists POI photographs.
type Fetcher struct {
	Client    *http.Client
	AssetsDir string
	MaxDim    int
	UserAgent string
	Limiter   *RateLimiter
	Log       zerolog.Logger
}

// New builds a Fetcher from config. The HTTP client timeout is the only
// bound on each network call; there are no retries.
func New(cfg *config.Config, assetsDir string, log zerolog.Logger) *Fetcher {
	return &Fetcher{
		Client:    &http.Client{Timeout: time.Duration(cfg.Images.TimeoutSeconds) * time.Second},
		AssetsDir: assetsDir,
		MaxDim:    cfg.Images.MaxDimension,
		UserAgent: cfg.Images.UserAgent,
		Limiter:   NewRateLimiter(cfg.Images.RateLimit),
		Log:       log,
	}
}

// FetchImages acquires up to maxCount representative photographs for a
// POI: the direct image URL first, then candidates scraped from the
// POI's linked page. Best effort: individual failures are logged and
// skipped, so the result degrades to fewer (possibly zero) paths rather
// than an error.
func (f *Fetcher) FetchImages(ctx context.Context, poi *model.PointOfInterest, maxCount int) []string {
	var paths []string
	seen := make(map[string]bool)

	if poi.Image != "" {
		if p := f.downloadImage(ctx, poi.Image, fmt.Sprintf("poi_%s_0", poi.ID)); p != "" {
			paths = append(paths, p)
		}
		// Recorded even on failure so page discovery never retries it.
		seen[poi.Image] = true
	}

	if poi.Link == "" || len(paths) >= maxCount {
		return paths
	}

	candidates, err := f.scrapePage(ctx, poi.Link)
	if err != nil {
		f.Log.Warn().Err(err).Str("poi", poi.Name).Msg("page scrape failed")
		return paths
	}

	for _, u := range candidates {
		if len(paths) >= maxCount {
			break
		}
		if seen[u] {
			continue
		}
		seen[u] = true
		if p := f.downloadImage(ctx, u, fmt.Sprintf("poi_%s_%d", poi.ID, len(paths))); p != "" {
			paths = append(paths, p)
		}
	}

	return paths
}

// scrapePage fetches the POI's linked page and returns candidate image
// URLs in discovery order.
func (f *Fetcher) scrapePage(ctx context.Context, link string) ([]string, error) {
	base, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("parsing link URL: %w", err)
	}

	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing page HTML: %w", err)
	}

	return CollectImageURLs(doc, base), nil
}

// CollectImageURLs extracts candidate image URLs from a page document:
// the og:image social preview first, then every embedded image resolved
// to an absolute URL, minus denylisted assets. Duplicates are left in;
// the caller dedups against its seen set.
func CollectImageURLs(doc *goquery.Document, base *url.URL) []string {
	var urls []string

	if og, ok := doc.Find(`meta[property="og:image"]`).First().Attr("content"); ok && og != "" {
		urls = append(urls, og)
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			return
		}
		ref, err := url.Parse(strings.TrimSpace(src))
		if err != nil {
			return
		}
		full := base.ResolveReference(ref).String()
		if deniedImageURL(full) {
			return
		}
		urls = append(urls, full)
	})

	return urls
}

func deniedImageURL(u string) bool {
	lower := strings.ToLower(u)
	for _, bad := range imageURLDenylist {
		if strings.Contains(lower, bad) {
			return true
		}
	}
	return false
}

// downloadImage fetches, filters and re-encodes a single candidate. It
// returns the stored path, or "" when the candidate is rejected or any
// step fails.
func (f *Fetcher) downloadImage(ctx context.Context, rawURL, prefix string) string {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return ""
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		f.Log.Debug().Err(err).Str("url", rawURL).Msg("bad image URL")
		return ""
	}
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		f.Log.Debug().Err(err).Str("url", rawURL).Msg("image fetch failed")
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.Log.Debug().Int("status", resp.StatusCode).Str("url", rawURL).Msg("image fetch rejected")
		return ""
	}

	src, err := imaging.Decode(resp.Body)
	if err != nil {
		f.Log.Debug().Err(err).Str("url", rawURL).Msg("image decode failed")
		return ""
	}

	// Clone converts whatever color model arrived into NRGBA.
	img := imaging.Clone(src)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w < minDimension || h < minDimension {
		f.Log.Debug().Int("w", w).Int("h", h).Str("url", rawURL).Msg("image too small, skipping")
		return ""
	}

	if w > f.MaxDim || h > f.MaxDim {
		img = imaging.Fit(img, f.MaxDim, f.MaxDim, imaging.Lanczos)
	}

	target := filepath.Join(f.AssetsDir, prefix+".jpg")
	if err := imaging.Save(img, target, imaging.JPEGQuality(jpegQuality)); err != nil {
		f.Log.Warn().Err(err).Str("path", target).Msg("saving image failed")
		return ""
	}
	return target
}
