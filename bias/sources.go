package bias

import (
	"net/url"
	"sort"
	"strings"

	"biaslens/nlp"
	"biaslens/types"
)

// SourceBias is one source's averaged sentiment.
type SourceBias struct {
	Source       string
	MeanPolarity float64
}

// BySource groups articles by URL host (leading "www." stripped,
// "unknown" on parse failure), averages polarity per host and returns the
// result sorted ascending, most negative first.
func BySource(articles []types.Article) []SourceBias {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	order := make([]string, 0, len(articles))

	for _, article := range articles {
		source := SourceName(article.URL)
		if _, seen := counts[source]; !seen {
			order = append(order, source)
		}
		sums[source] += nlp.Score(article.Text).Polarity
		counts[source]++
	}

	result := make([]SourceBias, 0, len(order))
	for _, source := range order {
		result = append(result, SourceBias{
			Source:       source,
			MeanPolarity: sums[source] / float64(counts[source]),
		})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].MeanPolarity < result[j].MeanPolarity
	})
	return result
}

// SourceName normalizes an article URL to its host key.
func SourceName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "unknown"
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}
