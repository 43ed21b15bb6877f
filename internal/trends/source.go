package trends

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/adrien9192/tiktok-viral-scripts/internal/model"
)

// Per-source item cap and scrape limits.
const (
	MaxPerSource = 10

	fetchTimeout    = 15 * time.Second
	maxBodyBytes    = 4 << 20
	scrapeUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)"
)

// Source produces a ranked list of trending terms for one platform.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.TrendItem, error)
}

// DefaultCountry is used when no country is configured or the configured
// one is not supported.
const DefaultCountry = "france"

// countryGeo maps supported country slugs to their ISO geo codes, used to
// build per-country scrape URLs.
var countryGeo = map[string]string{
	"france":         "FR",
	"united-states":  "US",
	"united-kingdom": "GB",
	"germany":        "DE",
	"spain":          "ES",
	"canada":         "CA",
}

// NormalizeCountry lowercases and slugifies a country name, falling back
// to DefaultCountry when it is not supported.
func NormalizeCountry(country string) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(country)), " ", "-")
	if _, ok := countryGeo[slug]; ok {
		return slug
	}
	return DefaultCountry
}

// SupportedCountries lists the country slugs the sources can scrape.
func SupportedCountries() []string {
	out := make([]string, 0, len(countryGeo))
	for slug := range countryGeo {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}

// NewHTTPSources returns the live scraping sources for a country, in merge
// priority order.
func NewHTTPSources(client *http.Client, country string) []Source {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	slug := NormalizeCountry(country)
	geo := countryGeo[slug]
	return []Source{
		&tiktokSource{client: client, url: "https://ads.tiktok.com/business/creativecenter/inspiration/popular/hashtag/pc/en?region=" + geo},
		&xSource{client: client, url: "https://trends24.in/" + slug + "/"},
		&googleSource{client: client, url: "https://trends.google.com/trends/trendingsearches/daily/rss?geo=" + geo},
	}
}

func fetchBody(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", scrapeUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// tiktokSource scrapes trending hashtags from the TikTok Creative Center
// public page (embedded JSON state).
type tiktokSource struct {
	client *http.Client
	url    string
}

var (
	tiktokTagRe   = regexp.MustCompile(`"hashtag_name"\s*:\s*"([^"]+)"`)
	tiktokCountRe = regexp.MustCompile(`"publish_cnt"\s*:\s*(\d+)`)
)

func (s *tiktokSource) Name() string { return model.SourceTikTok }

func (s *tiktokSource) Fetch(ctx context.Context) ([]model.TrendItem, error) {
	body, err := fetchBody(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}

	names := tiktokTagRe.FindAllStringSubmatch(body, MaxPerSource)
	counts := tiktokCountRe.FindAllStringSubmatch(body, MaxPerSource)

	var items []model.TrendItem
	for i, m := range names {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		item := model.TrendItem{
			Rank:     len(items) + 1,
			Term:     "#" + name,
			Source:   model.SourceTikTok,
			Category: Categorize(name),
		}
		if i < len(counts) {
			if n, err := strconv.Atoi(counts[i][1]); err == nil {
				item.Volume = &n
			}
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no hashtags found in creative center payload")
	}
	return items, nil
}

// xSource scrapes X (Twitter) trends from trends24, which aggregates the
// platform's trending terms without requiring API auth.
type xSource struct {
	client *http.Client
	url    string
}

var xTrendRe = regexp.MustCompile(`<a[^>]*href="[^"]*twitter\.com/search[^"]*"[^>]*>([^<]+)</a>`)

func (s *xSource) Name() string { return model.SourceX }

func (s *xSource) Fetch(ctx context.Context) ([]model.TrendItem, error) {
	body, err := fetchBody(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}

	var items []model.TrendItem
	for _, m := range xTrendRe.FindAllStringSubmatch(body, -1) {
		term := strings.TrimSpace(m[1])
		if len(term) < 2 {
			continue
		}
		items = append(items, model.TrendItem{
			Rank:     len(items) + 1,
			Term:     term,
			Source:   model.SourceX,
			Category: Categorize(term),
		})
		if len(items) == MaxPerSource {
			break
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no trends found in trends24 page")
	}
	return items, nil
}

// googleSource reads the Google Trends daily RSS feed.
type googleSource struct {
	client *http.Client
	url    string
}

var rssTitleRe = regexp.MustCompile(`<title>([^<]+)</title>`)

func (s *googleSource) Name() string { return model.SourceGoogle }

func (s *googleSource) Fetch(ctx context.Context) ([]model.TrendItem, error) {
	body, err := fetchBody(ctx, s.client, s.url)
	if err != nil {
		return nil, err
	}

	matches := rssTitleRe.FindAllStringSubmatch(body, -1)
	if len(matches) < 2 {
		return nil, fmt.Errorf("no items found in trends feed")
	}

	var items []model.TrendItem
	// First <title> is the feed's own title.
	for _, m := range matches[1:] {
		term := strings.TrimSpace(m[1])
		if len(term) < 2 {
			continue
		}
		items = append(items, model.TrendItem{
			Rank:     len(items) + 1,
			Term:     term,
			Source:   model.SourceGoogle,
			Category: Categorize(term),
		})
		if len(items) == MaxPerSource {
			break
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no items found in trends feed")
	}
	return items, nil
}

// categoryKeywords maps term fragments to a category. Checked in order so
// categorization stays deterministic when a term matches several buckets.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"sport", []string{"foot", "match", "ligue", "coupe", "euro", "nba", "tennis", "sport"}},
	{"politique", []string{"election", "gouvernement", "politique", "ministre"}},
	{"tech", []string{"apple", "iphone", "ai", "ia", "tech", "app", "meta", "google"}},
	{"entertainment", []string{"film", "serie", "netflix", "music", "concert", "star"}},
	{"business", []string{"entreprise", "startup", "investir", "argent", "crypto", "bourse", "hustle", "budget"}},
	{"lifestyle", []string{"mode", "beaute", "food", "voyage", "fitness", "routine", "bien-etre"}},
	{"actualite", []string{"breaking", "urgent", "alerte", "news"}},
}

// Categorize buckets a trend term by keyword, defaulting to "general".
func Categorize(term string) string {
	lower := strings.ToLower(term)
	for _, bucket := range categoryKeywords {
		for _, kw := range bucket.keywords {
			if strings.Contains(lower, kw) {
				return bucket.category
			}
		}
	}
	return "general"
}
