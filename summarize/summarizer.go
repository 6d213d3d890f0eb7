// Package summarize produces the structured executive summary from
// retrieved context.
package summarize

import (
	"context"
	"fmt"

	"biaslens/nlp"
	"biaslens/ragindex"
)

const (
	// retrievalResults is how many chunks back the synthesis prompt.
	retrievalResults = 7

	summaryMinWords = 150
	summaryMaxWords = 750

	// UnavailablePlaceholder is returned when no generation provider is
	// configured. Context retrieval still happens so evaluation and
	// debugging keep working.
	UnavailablePlaceholder = "Summarizer model not available."
)

// Generate retrieves context for a fixed overview query and synthesizes a
// five-section narrative summary. It returns the summary together with
// the retrieval context the evaluator needs.
func Generate(ctx context.Context, tk *nlp.Toolkit, topic string, idx *ragindex.Index) (summary, retrieved string) {
	query := fmt.Sprintf(
		"Provide a comprehensive overview of the key events, different perspectives, and economic impacts related to %s",
		topic,
	)
	retrieved = idx.Context(ctx, query, retrievalResults)

	if tk == nil || tk.Generator == nil {
		return UnavailablePlaceholder, retrieved
	}

	prompt := fmt.Sprintf(`As an expert news analyst, synthesize the following context about '%s'.
Your summary must be detailed and well-structured. Do not give a simple paragraph.

Instead, follow this format:
1.  **Overall Situation:** A brief, 2-3 sentence overview of the current state of affairs.
2.  **Key Driving Factors:** A bulleted list of the primary causes or factors mentioned.
3.  **Diverging Viewpoints:** Describe any different perspectives or points of contention.
4.  **Economic Implications:** A bulleted list of the potential economic consequences.
5.  **Outlook:** A concluding sentence on the future outlook based on the text.

CONTEXT:
---
%s
---
ANALYST SUMMARY:`, topic, retrieved)

	text, err := tk.Generator.Generate(ctx, prompt, summaryMinWords, summaryMaxWords)
	if err != nil {
		return fmt.Sprintf("Error generating summary: %v", err), retrieved
	}
	return text, retrieved
}
