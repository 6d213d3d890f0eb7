package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Default configuration values
const (
	DefaultArticleCount = 25
	DefaultDataPath     = "project_data"
	DefaultVisualsPath  = "static/visuals"
)

// Config holds all environment-driven settings for the service.
type Config struct {
	// NewsAPIKey authenticates against newsapi.org. Required unless the
	// RSS source is selected.
	NewsAPIKey string

	// NewsSource selects the acquisition backend: "newsapi" (default) or "rss".
	NewsSource string

	// RSSFeeds is an optional comma-separated list of feed URLs or preset
	// names used when NewsSource is "rss".
	RSSFeeds []string

	// DataPath is the directory holding the historical bias dataset and
	// the serialized temporal model.
	DataPath string

	// VisualsPath is the directory chart images are written to.
	VisualsPath string

	// ChromaHost/ChromaPort point at a Chroma server. When ChromaHost is
	// empty the in-process vector index is used instead.
	ChromaHost string
	ChromaPort int

	// RedisAddr enables the extracted-content cache when non-empty.
	RedisAddr string

	ArticleCount int
}

// FromEnv builds a Config from environment variables.
func FromEnv() Config {
	cfg := Config{
		NewsAPIKey:   strings.TrimSpace(os.Getenv("NEWS_API_KEY")),
		NewsSource:   strings.ToLower(strings.TrimSpace(os.Getenv("NEWS_SOURCE"))),
		DataPath:     os.Getenv("DATA_PATH"),
		VisualsPath:  os.Getenv("VISUALS_PATH"),
		ChromaHost:   strings.TrimSpace(os.Getenv("CHROMA_HOST")),
		ChromaPort:   8000,
		RedisAddr:    strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		ArticleCount: DefaultArticleCount,
	}

	if cfg.NewsSource == "" {
		cfg.NewsSource = "newsapi"
	}
	if cfg.DataPath == "" {
		cfg.DataPath = DefaultDataPath
	}
	if cfg.VisualsPath == "" {
		cfg.VisualsPath = DefaultVisualsPath
	}
	if v := os.Getenv("CHROMA_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.ChromaPort = p
		}
	}
	if v := os.Getenv("ARTICLE_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.ArticleCount = n
		}
	}
	if v := os.Getenv("RSS_FEEDS"); v != "" {
		for _, f := range strings.Split(v, ",") {
			if f = strings.TrimSpace(f); f != "" {
				cfg.RSSFeeds = append(cfg.RSSFeeds, f)
			}
		}
	}
	return cfg
}

// Validate reports fatal configuration problems. A missing NewsAPI key is
// a configuration error for the whole pipeline, not a per-request one.
func (c Config) Validate() error {
	if c.NewsSource == "newsapi" && c.NewsAPIKey == "" {
		return errors.New("NewsAPI key not found. Please set the NEWS_API_KEY environment variable")
	}
	return nil
}
