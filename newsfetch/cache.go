package newsfetch

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"biaslens/types"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Cache is an optional Redis-backed store of extracted article text keyed
// by URL hash. Repeat analyses of overlapping topics skip the download and
// extraction cost for articles seen within the TTL window. All cache
// failures are soft: the fetcher falls back to a fresh download.
type Cache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// CacheConfig configures the Redis connection and key layout.
type CacheConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Prefix   string // key prefix, default "articles:text:"
	TTL      time.Duration
}

// NewCacheFromEnv creates a Cache using environment variables
// REDIS_ADDR, REDIS_PASS, CACHE_TTL_SECONDS (optional). Returns nil when
// REDIS_ADDR is unset.
func NewCacheFromEnv() (*Cache, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil, nil
	}
	ttl := 24 * time.Hour
	if t := os.Getenv("CACHE_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}
	return NewCache(CacheConfig{Addr: addr, Password: os.Getenv("REDIS_PASS"), TTL: ttl})
}

// NewCache creates a Cache and verifies connectivity.
func NewCache(cfg CacheConfig) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "articles:text:"
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{client: client, prefix: prefix, ttl: ttl}, nil
}

// Get returns cached extracted text for the URL, if present.
func (c *Cache) Get(ctx context.Context, pageURL string) (string, bool) {
	text, err := c.client.Get(ctx, c.key(pageURL)).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		log.Printf("Warning: cache get failed for %s: %v", pageURL, err)
		return "", false
	}
	return text, true
}

// Set stores extracted text for the URL with the configured TTL.
func (c *Cache) Set(ctx context.Context, pageURL, text string) {
	if err := c.client.Set(ctx, c.key(pageURL), text, c.ttl).Err(); err != nil {
		log.Printf("Warning: cache set failed for %s: %v", pageURL, err)
	}
}

// Close releases the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) key(pageURL string) string {
	return c.prefix + types.GenerateID(pageURL)
}
