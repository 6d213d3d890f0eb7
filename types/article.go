package types

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Article represents a single fetched article with cleaned body text.
// Articles live only for the duration of one analysis request; nothing
// here is persisted.
type Article struct {
	Title       string     `json:"title"`
	Text        string     `json:"text"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// GenerateID creates a short, stable ID by hashing the provided string input
func GenerateID(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:])[:16]
}
