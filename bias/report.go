// Package bias computes per-article and per-source sentiment metrics.
// Both computations are pure functions of article text.
package bias

import (
	"fmt"
	"strings"

	"biaslens/nlp"
	"biaslens/types"
)

// Report renders a structured article-by-article bias report with
// polarity and subjectivity at two decimal places.
func Report(articles []types.Article) string {
	var sb strings.Builder
	sb.WriteString("# Detailed Bias Analysis\n")
	for _, article := range articles {
		s := nlp.Score(article.Text)
		sb.WriteString(fmt.Sprintf("\n## Article: %s\n", article.Title))
		sb.WriteString(fmt.Sprintf("- **URL**: %s\n", article.URL))
		sb.WriteString(fmt.Sprintf("- **Overall Polarity**: %.2f (1 is positive, -1 is negative)\n", s.Polarity))
		sb.WriteString(fmt.Sprintf("- **Overall Subjectivity**: %.2f (1 is opinion, 0 is fact-based)\n", s.Subjectivity))
	}
	return sb.String()
}
