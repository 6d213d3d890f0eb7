package ragindex

import (
	"strings"
)

const (
	// ChunkSize is the target segment length in words.
	ChunkSize = 300
	// ChunkOverlap is how many words adjacent segments share.
	ChunkOverlap = 50
)

// Chunk is one overlapping segment of an article, carrying its source
// metadata so retrieved context can be attributed.
type Chunk struct {
	Text        string
	SourceURL   string
	SourceTitle string
}

// SplitText segments text into overlapping word windows. Text at or under
// the chunk size yields a single chunk.
func SplitText(text string, size, overlap int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if size <= 0 {
		size = ChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = ChunkOverlap
	}
	if len(words) <= size {
		return []string{strings.Join(words, " ")}
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(words); start += step {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
