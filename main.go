package main

import (
	"net/http"
	"os"

	"biaslens/analysis"
	"biaslens/api"
	"biaslens/config"
	"biaslens/newsfetch"
	"biaslens/nlp"
	"biaslens/ragindex"
	"biaslens/temporal"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	cfg := config.FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	cache, err := newsfetch.NewCacheFromEnv()
	if err != nil {
		log.Printf("Warning: failed to init article cache: %v (caching disabled)", err)
	}

	fetcher, err := newsfetch.NewFetcher(newsfetch.Options{
		Source:     cfg.NewsSource,
		NewsAPIKey: cfg.NewsAPIKey,
		Feeds:      cfg.RSSFeeds,
		Cache:      cache,
	})
	if err != nil {
		log.Fatalf("failed to initialize article fetcher: %v", err)
	}

	analyzer, err := temporal.NewAnalyzer(cfg.DataPath)
	if err != nil {
		log.Fatalf("failed to initialize temporal analyzer: %v", err)
	}

	if err := os.MkdirAll(cfg.VisualsPath, 0o755); err != nil {
		log.Fatalf("failed to create visuals directory: %v", err)
	}

	toolkit := nlp.NewToolkitFromEnv()
	runner := &analysis.Runner{
		Fetcher: fetcher,
		Toolkit: toolkit,
		Index: &ragindex.Builder{
			Embedder:   toolkit.Embedder,
			ChromaHost: cfg.ChromaHost,
			ChromaPort: cfg.ChromaPort,
		},
		Temporal:     analyzer,
		VisualsPath:  cfg.VisualsPath,
		ArticleCount: cfg.ArticleCount,
	}

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := api.NewRouter(runner, cfg.VisualsPath)
	log.Printf("Starting API server on %s", addr)
	log.Println("API endpoints available:")
	log.Println("  GET  /api/health")
	log.Println("  POST /analyze")
	log.Println("  GET  /static/visuals/:filename")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
