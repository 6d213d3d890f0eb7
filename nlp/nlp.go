// Package nlp holds the process-wide language capabilities: embeddings,
// text generation, sentiment scoring, tokenization and entity extraction.
// The remote-backed capabilities (embeddings, generation) are initialized
// once at startup and may be unavailable; consumers must branch on nil
// rather than assume readiness.
package nlp

import (
	log "github.com/sirupsen/logrus"
)

// Toolkit bundles the capabilities that depend on external model APIs.
// Either field may be nil when the corresponding provider is not
// configured; the pipeline degrades to placeholder outputs in that case.
type Toolkit struct {
	Embedder  Embedder
	Generator Generator
}

// NewToolkitFromEnv initializes providers from environment variables.
// Missing providers are logged and left nil, never fatal.
func NewToolkitFromEnv() *Toolkit {
	tk := &Toolkit{
		Embedder:  NewDefaultEmbedder(""),
		Generator: NewDefaultGenerator(""),
	}
	if tk.Embedder == nil {
		log.Warn("no embeddings provider configured; clustering, retrieval and evaluation will degrade")
	} else {
		log.Printf("Using embeddings provider: %s", tk.Embedder.ModelName())
	}
	if tk.Generator == nil {
		log.Warn("no generation provider configured; summaries will use placeholder text")
	} else {
		log.Printf("Using generation provider: %s", tk.Generator.ModelName())
	}
	return tk
}
