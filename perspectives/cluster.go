// Package perspectives clusters articles by semantic similarity and
// summarizes each cluster as one named viewpoint on the topic.
package perspectives

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"biaslens/nlp"
	"biaslens/types"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultClusterCount is the requested number of perspectives.
	DefaultClusterCount = 4

	// clusterContextLimit caps the summarization context per cluster, in
	// characters.
	clusterContextLimit = 2000

	summaryMinWords = 60
	summaryMaxWords = 300
)

// Extract embeds articles, clusters them and produces one labeled summary
// per cluster. An empty article list or unavailable embedder yields an
// empty slice, not an error; a failed summary for one cluster does not
// abort the others.
func Extract(ctx context.Context, tk *nlp.Toolkit, articles []types.Article, topic string, clusterCount int) []types.Perspective {
	if len(articles) == 0 || tk == nil || tk.Embedder == nil {
		return nil
	}
	if clusterCount <= 0 {
		clusterCount = DefaultClusterCount
	}

	texts := make([]string, len(articles))
	for i, a := range articles {
		texts[i] = a.Title + ". " + a.Text
	}
	embedded, err := tk.Embedder.EmbedTexts(texts)
	if err != nil {
		log.Printf("Warning: failed to embed articles for clustering: %v", err)
		return nil
	}

	vectors := make([][]float64, len(embedded))
	for i, vec := range embedded {
		vectors[i] = make([]float64, len(vec))
		for j, v := range vec {
			vectors[i][j] = float64(v)
		}
	}

	k := clusterCount
	if k > len(articles) {
		k = len(articles)
	}
	if k < 1 {
		k = 1
	}
	labels := kMeans(vectors, k)

	grouped := make([][]types.Article, k)
	for i, label := range labels {
		grouped[label] = append(grouped[label], articles[i])
	}

	perspectives := make([]types.Perspective, 0, k)
	for _, cluster := range grouped {
		if len(cluster) == 0 {
			continue
		}
		label := clusterLabel(cluster)
		perspectives = append(perspectives, types.Perspective{
			Label:   label,
			Summary: summarizeCluster(ctx, tk.Generator, cluster, label, topic),
		})
	}
	return perspectives
}

// clusterLabel names a cluster after its most frequent geopolitical
// entity, falling back to the most frequent title word, then to a bare
// "Perspective".
func clusterLabel(cluster []types.Article) string {
	var sb strings.Builder
	for _, a := range cluster {
		sb.WriteString(a.Title)
		sb.WriteString(" ")
		sb.WriteString(a.Text)
		sb.WriteString(" ")
	}

	places, err := nlp.Places(sb.String())
	if err != nil {
		log.Printf("Warning: entity extraction failed for cluster label: %v", err)
	}
	if top := mostFrequent(places); top != "" {
		return titleCase(top) + " Perspective"
	}

	var words []string
	for _, a := range cluster {
		words = append(words, strings.Fields(strings.ToLower(a.Title))...)
	}
	if top := mostFrequent(words); top != "" {
		return titleCase(top) + " Perspective"
	}
	return "Perspective"
}

// summarizeCluster issues a bounded-length directive prompt over the
// cluster's concatenated text.
func summarizeCluster(ctx context.Context, gen nlp.Generator, cluster []types.Article, label, topic string) string {
	if gen == nil {
		return "Summarizer model not available."
	}

	var sb strings.Builder
	for _, a := range cluster {
		sb.WriteString(a.Title)
		sb.WriteString(". ")
		sb.WriteString(a.Text)
		sb.WriteString("\n")
	}
	context2k := sb.String()
	// clusterContextLimit counts characters; slicing bytes could split a
	// multi-byte rune mid-prompt.
	if runes := []rune(context2k); len(runes) > clusterContextLimit {
		context2k = string(runes[:clusterContextLimit])
	}

	prompt := fmt.Sprintf(
		"As an expert analyst, summarize the perspective labeled '%s' on '%s'. Focus on unique viewpoints, arguments, and evidence from the articles.\n%s",
		label, topic, context2k,
	)

	summary, err := gen.Generate(ctx, prompt, summaryMinWords, summaryMaxWords)
	if err != nil {
		return fmt.Sprintf("Error generating summary: %v", err)
	}
	return summary
}

// mostFrequent returns the highest-count item, first-seen winning ties.
func mostFrequent(items []string) string {
	counts := make(map[string]int)
	order := make([]string, 0, len(items))
	for _, item := range items {
		if _, seen := counts[item]; !seen {
			order = append(order, item)
		}
		counts[item]++
	}
	best, bestCount := "", 0
	for _, item := range order {
		if counts[item] > bestCount {
			best, bestCount = item, counts[item]
		}
	}
	return best
}

// titleCase uppercases the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
