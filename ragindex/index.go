// Package ragindex builds an ephemeral per-request vector index over
// article chunks and answers nearest-neighbor text retrieval queries.
// The index is backed by a uniquely named Chroma collection when a Chroma
// server is configured, or by an in-process store otherwise; either way it
// lives only for the duration of one analysis request.
package ragindex

import (
	"context"
	"fmt"
	"strings"

	"biaslens/nlp"
	"biaslens/types"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// NoContextPlaceholder is returned when the index is empty or a query
// yields nothing. Retrieval never fails the request.
const NoContextPlaceholder = "No relevant information found in the provided articles."

// contextSeparator joins retrieved chunks into one context string.
const contextSeparator = "\n\n---\n\n"

// Store is the minimal vector collection contract shared by the Chroma
// and in-memory backends.
type Store interface {
	Add(chunks []Chunk) error
	Query(ctx context.Context, text string, k int) ([]string, error)
	Destroy() error
}

// Builder constructs per-request indexes.
type Builder struct {
	Embedder   nlp.Embedder
	ChromaHost string
	ChromaPort int
}

// Index is the queryable per-request handle.
type Index struct {
	store Store
	empty bool
}

// CollectionName derives a unique collection name for one request.
func CollectionName(topic string) string {
	sanitized := strings.ReplaceAll(strings.TrimSpace(topic), " ", "_")
	return fmt.Sprintf("news_%s_%s", sanitized, uuid.NewString()[:8])
}

// Build chunks every article as "Title: <title>\n<text>", stores the
// chunks in a fresh collection and returns the handle. An unavailable
// embedder or empty article list yields an empty (placeholder-only)
// index, not an error.
func (b *Builder) Build(ctx context.Context, articles []types.Article, topic string) *Index {
	var chunks []Chunk
	for _, article := range articles {
		fullText := fmt.Sprintf("Title: %s\n%s", article.Title, article.Text)
		for _, piece := range SplitText(fullText, ChunkSize, ChunkOverlap) {
			chunks = append(chunks, Chunk{
				Text:        piece,
				SourceURL:   article.URL,
				SourceTitle: article.Title,
			})
		}
	}

	if len(chunks) == 0 || b.Embedder == nil {
		if b.Embedder == nil {
			log.Warn("embeddings unavailable; retrieval index is empty for this request")
		}
		return &Index{empty: true}
	}

	var store Store
	if b.ChromaHost != "" {
		collection, err := NewChromaCollection(ChromaConfig{
			Host:           b.ChromaHost,
			Port:           b.ChromaPort,
			CollectionName: CollectionName(topic),
		}, b.Embedder)
		if err != nil {
			log.Printf("Warning: failed to create Chroma collection, falling back to in-memory index: %v", err)
		} else {
			store = collection
		}
	}
	if store == nil {
		store = NewMemoryStore(b.Embedder)
	}

	if err := store.Add(chunks); err != nil {
		log.Printf("Warning: failed to populate retrieval index: %v", err)
		store.Destroy()
		return &Index{empty: true}
	}

	log.Printf("Indexed %d chunks from %d articles", len(chunks), len(articles))
	return &Index{store: store}
}

// Context returns the k nearest chunks for the query joined by the
// separator, or the fixed placeholder when nothing can be retrieved.
func (i *Index) Context(ctx context.Context, query string, k int) string {
	if i == nil || i.empty || i.store == nil {
		return NoContextPlaceholder
	}
	chunks, err := i.store.Query(ctx, query, k)
	if err != nil {
		log.Printf("Warning: retrieval query failed: %v", err)
		return NoContextPlaceholder
	}
	if len(chunks) == 0 {
		log.Warn("retrieval returned no documents for the query; context will be the placeholder")
		return NoContextPlaceholder
	}
	return strings.Join(chunks, contextSeparator)
}

// Destroy releases the backing collection. Safe on empty indexes.
func (i *Index) Destroy() {
	if i == nil || i.store == nil {
		return
	}
	if err := i.store.Destroy(); err != nil {
		log.Printf("Warning: failed to destroy retrieval index: %v", err)
	}
}
