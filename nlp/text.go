package nlp

import (
	"strings"
	"unicode"

	prose "github.com/jdkato/prose/v2"
)

// WordTokens splits text into word tokens, lowercased, with punctuation
// tokens removed. Falls back to whitespace splitting if the tokenizer
// fails.
func WordTokens(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return fieldsTokens(text)
	}
	var tokens []string
	for _, tok := range doc.Tokens() {
		word := strings.ToLower(tok.Text)
		if hasLetterOrDigit(word) {
			tokens = append(tokens, word)
		}
	}
	return tokens
}

// SplitSentences segments text into sentences. Falls back to a naive
// terminator split if segmentation fails.
func SplitSentences(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return naiveSentences(text)
	}
	var sentences []string
	for _, sent := range doc.Sentences() {
		if s := strings.TrimSpace(sent.Text); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// FleschReadingEase computes the standard reading-ease score. The result
// is conventionally 0-100 but the formula is unbounded.
func FleschReadingEase(text string) float64 {
	words := WordTokens(text)
	sentences := SplitSentences(text)
	if len(words) == 0 || len(sentences) == 0 {
		return 0
	}
	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}
	wordsPerSentence := float64(len(words)) / float64(len(sentences))
	syllablesPerWord := float64(syllables) / float64(len(words))
	return 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
}

// countSyllables estimates syllables as vowel groups, discounting a
// trailing silent e. Every word counts at least one.
func countSyllables(word string) int {
	word = strings.ToLower(word)
	count := 0
	prevVowel := false
	for _, r := range word {
		isVowel := strings.ContainsRune("aeiouy", r)
		if isVowel && !prevVowel {
			count++
		}
		prevVowel = isVowel
	}
	if strings.HasSuffix(word, "e") && !strings.HasSuffix(word, "le") && count > 1 {
		count--
	}
	if count < 1 {
		count = 1
	}
	return count
}

func hasLetterOrDigit(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func fieldsTokens(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		cleaned := strings.Trim(field, ".,;:!?\"'()[]{}")
		if cleaned != "" {
			tokens = append(tokens, cleaned)
		}
	}
	return tokens
}

func naiveSentences(text string) []string {
	var sentences []string
	var b strings.Builder
	for _, r := range text {
		b.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if s := strings.TrimSpace(b.String()); s != "" {
				sentences = append(sentences, s)
			}
			b.Reset()
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}
