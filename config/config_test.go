package config

import (
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"NEWS_API_KEY", "NEWS_SOURCE", "RSS_FEEDS", "DATA_PATH", "VISUALS_PATH", "CHROMA_HOST", "CHROMA_PORT", "REDIS_ADDR", "ARTICLE_COUNT"} {
		t.Setenv(key, "")
	}

	cfg := FromEnv()

	if cfg.NewsSource != "newsapi" {
		t.Errorf("NewsSource = %q, want newsapi", cfg.NewsSource)
	}
	if cfg.DataPath != DefaultDataPath {
		t.Errorf("DataPath = %q, want %q", cfg.DataPath, DefaultDataPath)
	}
	if cfg.VisualsPath != DefaultVisualsPath {
		t.Errorf("VisualsPath = %q, want %q", cfg.VisualsPath, DefaultVisualsPath)
	}
	if cfg.ChromaPort != 8000 {
		t.Errorf("ChromaPort = %d, want 8000", cfg.ChromaPort)
	}
	if cfg.ArticleCount != DefaultArticleCount {
		t.Errorf("ArticleCount = %d, want %d", cfg.ArticleCount, DefaultArticleCount)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("NEWS_API_KEY", " secret ")
	t.Setenv("NEWS_SOURCE", "RSS")
	t.Setenv("RSS_FEEDS", "cna, https://example.com/feed.xml ,")
	t.Setenv("CHROMA_PORT", "9200")
	t.Setenv("ARTICLE_COUNT", "10")

	cfg := FromEnv()

	if cfg.NewsAPIKey != "secret" {
		t.Errorf("NewsAPIKey = %q, want trimmed", cfg.NewsAPIKey)
	}
	if cfg.NewsSource != "rss" {
		t.Errorf("NewsSource = %q, want lowercased rss", cfg.NewsSource)
	}
	if len(cfg.RSSFeeds) != 2 || cfg.RSSFeeds[0] != "cna" || cfg.RSSFeeds[1] != "https://example.com/feed.xml" {
		t.Errorf("RSSFeeds = %v", cfg.RSSFeeds)
	}
	if cfg.ChromaPort != 9200 {
		t.Errorf("ChromaPort = %d, want 9200", cfg.ChromaPort)
	}
	if cfg.ArticleCount != 10 {
		t.Errorf("ArticleCount = %d, want 10", cfg.ArticleCount)
	}
}

func TestFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("CHROMA_PORT", "not-a-port")
	t.Setenv("ARTICLE_COUNT", "-3")

	cfg := FromEnv()

	if cfg.ChromaPort != 8000 {
		t.Errorf("ChromaPort = %d, want default on bad value", cfg.ChromaPort)
	}
	if cfg.ArticleCount != DefaultArticleCount {
		t.Errorf("ArticleCount = %d, want default on non-positive value", cfg.ArticleCount)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{NewsSource: "newsapi"}).Validate(); err == nil {
		t.Error("newsapi source without key validated")
	}
	if err := (Config{NewsSource: "newsapi", NewsAPIKey: "k"}).Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (Config{NewsSource: "rss"}).Validate(); err != nil {
		t.Errorf("rss source without key should validate, got %v", err)
	}
}
