package ragindex

import (
	"context"
	"fmt"
	"math"
	"sort"

	"biaslens/nlp"
)

// MemoryStore is an in-process vector store used when no Chroma server is
// configured. Chunks are embedded on Add and ranked by cosine similarity
// on Query. It is request-local and needs no synchronization.
type MemoryStore struct {
	embedder nlp.Embedder
	texts    []string
	vectors  [][]float32
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore(embedder nlp.Embedder) *MemoryStore {
	return &MemoryStore{embedder: embedder}
}

// Add embeds and retains all chunks.
func (m *MemoryStore) Add(chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}
	vectors, err := m.embedder.EmbedTexts(texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	m.texts = append(m.texts, texts...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

// Query returns up to k chunk texts ranked by cosine similarity.
func (m *MemoryStore) Query(ctx context.Context, text string, k int) ([]string, error) {
	if len(m.texts) == 0 || k <= 0 {
		return nil, nil
	}
	queryVecs, err := m.embedder.EmbedTexts([]string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embeddings: %w", err)
	}
	if len(queryVecs) == 0 {
		return nil, fmt.Errorf("embedder returned no query vector")
	}
	query := queryVecs[0]

	type scored struct {
		idx int
		sim float64
	}
	ranked := make([]scored, len(m.vectors))
	for i, vec := range m.vectors {
		ranked[i] = scored{idx: i, sim: CosineSimilarity(query, vec)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].sim > ranked[j].sim })

	if k > len(ranked) {
		k = len(ranked)
	}
	results := make([]string, k)
	for i := 0; i < k; i++ {
		results[i] = m.texts[ranked[i].idx]
	}
	return results, nil
}

// Destroy drops all retained chunks.
func (m *MemoryStore) Destroy() error {
	m.texts = nil
	m.vectors = nil
	return nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-length vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
