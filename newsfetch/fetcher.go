package newsfetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"biaslens/types"

	readability "github.com/go-shiori/go-readability"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	fetchTimeout = 10 * time.Second
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.3"

	// removedTitle is the sentinel NewsAPI uses for withdrawn articles.
	removedTitle = "[Removed]"
)

// Options configures a Fetcher.
type Options struct {
	// Source selects the acquisition backend: "newsapi" (default) or "rss".
	Source string
	// NewsAPIKey is required for the newsapi source.
	NewsAPIKey string
	// Feeds lists RSS feed URLs or preset names for the rss source.
	Feeds []string
	// Cache is an optional extracted-content cache.
	Cache *Cache
	// FetchesPerSecond bounds origin-server requests. Zero means 2/s.
	FetchesPerSecond float64
}

// Fetcher acquires candidate article metadata for a topic, downloads the
// raw pages and extracts clean body text. Articles that fail any step are
// dropped, never retried.
type Fetcher struct {
	source  string
	search  *NewsAPIClient
	feeds   []string
	cache   *Cache
	limiter *rate.Limiter
	client  *http.Client
}

// NewFetcher builds a Fetcher. A missing NewsAPI credential for the
// newsapi source is a fatal configuration error.
func NewFetcher(opts Options) (*Fetcher, error) {
	source := opts.Source
	if source == "" {
		source = "newsapi"
	}

	f := &Fetcher{
		source: source,
		feeds:  opts.Feeds,
		cache:  opts.Cache,
		client: &http.Client{Timeout: fetchTimeout},
	}

	rps := opts.FetchesPerSecond
	if rps <= 0 {
		rps = 2
	}
	f.limiter = rate.NewLimiter(rate.Limit(rps), 1)

	if source == "newsapi" {
		client, err := NewNewsAPIClient(opts.NewsAPIKey)
		if err != nil {
			return nil, err
		}
		f.search = client
	}
	return f, nil
}

// Fetch returns cleaned articles for the topic, in provider order. A
// per-article failure only removes that article; an empty result is not an
// error here (the orchestrator decides how to surface it).
func (f *Fetcher) Fetch(ctx context.Context, topic string, count int) ([]types.Article, error) {
	if f.source == "rss" {
		return f.fetchFromFeeds(ctx, topic, count)
	}

	log.Printf("Fetching article links for %q from NewsAPI...", topic)
	headlines, err := f.search.Search(ctx, topic, count)
	if err != nil {
		return nil, fmt.Errorf("failed to search articles: %w", err)
	}

	articles := make([]types.Article, 0, len(headlines))
	log.Println("Downloading and cleaning full article content...")
	for i, h := range headlines {
		if h.URL == "" || h.Title == removedTitle {
			continue
		}
		log.Printf("  > Processing (%d/%d): %.50s...", i+1, len(headlines), h.Title)

		text, err := f.extract(ctx, h.URL)
		if err != nil {
			log.Printf("Failed to process URL %s: %v", h.URL, err)
			continue
		}
		if text == "" {
			log.Warnf("Could not extract main content from %s", h.URL)
			continue
		}

		article := types.Article{
			Title: h.Title,
			Text:  text,
			URL:   h.URL,
		}
		if h.PublishedAt != "" {
			if ts, err := time.Parse(time.RFC3339, h.PublishedAt); err == nil {
				article.PublishedAt = &ts
			}
		}
		articles = append(articles, article)
	}

	log.Printf("Successfully processed and cleaned %d articles.", len(articles))
	return articles, nil
}

// extract downloads the page and runs readability over it, consulting the
// cache first. Cache failures are soft.
func (f *Fetcher) extract(ctx context.Context, pageURL string) (string, error) {
	if f.cache != nil {
		if text, ok := f.cache.Get(ctx, pageURL); ok {
			return text, nil
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		io.Copy(io.Discard, res.Body)
		return "", fmt.Errorf("download failed: status %d", res.StatusCode)
	}

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid article URL: %w", err)
	}

	extracted, err := readability.FromReader(res.Body, parsed)
	if err != nil {
		return "", fmt.Errorf("readability extraction failed: %w", err)
	}

	text := strings.TrimSpace(extracted.TextContent)
	if text != "" && f.cache != nil {
		f.cache.Set(ctx, pageURL, text)
	}
	return text, nil
}
