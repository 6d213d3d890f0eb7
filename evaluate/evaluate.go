// Package evaluate scores a generated summary against its retrieval
// context and query using four independent metrics.
package evaluate

import (
	"errors"
	"strings"

	"biaslens/nlp"
	"biaslens/ragindex"
	"biaslens/types"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// ErrEmbedderUnavailable short-circuits the whole evaluation. Unlike the
// per-cluster tolerance in perspective extraction, a missing embedder here
// invalidates the score set as a whole, so no partial result is returned.
var ErrEmbedderUnavailable = errors.New("embedding model not available for evaluation")

// Evaluate computes faithfulness, relevance, readability and coherence
// for the (summary, context, query) triple.
func Evaluate(tk *nlp.Toolkit, summary, context, query string) (*types.Evaluation, error) {
	log.Println("Running evaluation metrics on the generated summary...")
	if tk == nil || tk.Embedder == nil {
		return nil, ErrEmbedderUnavailable
	}

	return &types.Evaluation{
		Faithfulness: faithfulness(summary, context),
		Relevance:    relevance(summary, query),
		Readability:  nlp.FleschReadingEase(summary),
		Coherence:    coherence(tk.Embedder, summary),
	}, nil
}

// faithfulness is the token-overlap F1 of the summary against the context
// as reference, in [0, 1].
func faithfulness(summary, context string) float64 {
	summaryTokens := tokenSet(summary)
	contextTokens := tokenSet(context)
	if len(summaryTokens) == 0 || len(contextTokens) == 0 {
		return 0
	}

	overlap := 0
	for token := range summaryTokens {
		if _, ok := contextTokens[token]; ok {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}

	precision := float64(overlap) / float64(len(summaryTokens))
	recall := float64(overlap) / float64(len(contextTokens))
	return 2 * precision * recall / (precision + recall)
}

// relevance is the fraction of query tokens that also appear in the
// summary. An empty or whitespace-only query scores 0 for any summary.
func relevance(summary, query string) float64 {
	queryTokens := tokenSet(query)
	if len(queryTokens) == 0 {
		return 0
	}
	summaryTokens := tokenSet(summary)
	hits := 0
	for token := range queryTokens {
		if _, ok := summaryTokens[token]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTokens))
}

// coherence is the mean cosine similarity of adjacent sentence
// embeddings, exactly 0 when the summary has one sentence or fewer.
func coherence(embedder nlp.Embedder, summary string) float64 {
	sentences := nlp.SplitSentences(summary)
	if len(sentences) <= 1 {
		return 0
	}
	vectors, err := embedder.EmbedTexts(sentences)
	if err != nil || len(vectors) != len(sentences) {
		log.Printf("Warning: failed to embed sentences for coherence: %v", err)
		return 0
	}
	similarities := make([]float64, 0, len(vectors)-1)
	for i := 0; i+1 < len(vectors); i++ {
		similarities = append(similarities, ragindex.CosineSimilarity(vectors[i], vectors[i+1]))
	}
	return stat.Mean(similarities, nil)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, token := range nlp.WordTokens(strings.ToLower(text)) {
		set[token] = struct{}{}
	}
	return set
}
