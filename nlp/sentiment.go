package nlp

import (
	"strings"

	"github.com/grassmudhorses/vader-go/lexicon"
	"github.com/grassmudhorses/vader-go/sentitext"
)

// Sentiment holds a lexicon-based polarity/subjectivity estimate.
// Polarity is in [-1, 1] (negative to positive); Subjectivity is in
// [0, 1] (fact-based to opinion).
type Sentiment struct {
	Polarity     float64
	Subjectivity float64
}

// Score runs the VADER lexicon over the text. The compound score maps to
// polarity; the proportion of sentiment-carrying tokens maps to
// subjectivity.
func Score(text string) Sentiment {
	if strings.TrimSpace(text) == "" {
		return Sentiment{}
	}
	parsed := sentitext.Parse(text, lexicon.DefaultLexicon)
	score := sentitext.PolarityScore(parsed)
	return Sentiment{
		Polarity:     score.Compound,
		Subjectivity: score.Positive + score.Negative,
	}
}
