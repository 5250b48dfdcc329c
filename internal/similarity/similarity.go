package similarity

import (
	"fmt"

	"github.com/povarna/generative-ai-agents/synereval/internal/llm"
	"github.com/povarna/generative-ai-agents/synereval/internal/scorer"
	"github.com/rs/zerolog"
)

const (
	BackendEmbedding = "embedding"
	BackendLexical   = "lexical"
)

// New builds the similarity scorer for backend. The embedding backend requires an embedder.
func New(backend string, embedder llm.Embedder, logger *zerolog.Logger) (scorer.SimilarityScorer, error) {
	switch backend {
	case "", BackendEmbedding:
		if embedder == nil {
			return nil, fmt.Errorf("embedding similarity requires an embedder")
		}
		return NewEmbeddingScorer(embedder, logger), nil
	case BackendLexical:
		return NewLexicalScorer(), nil
	default:
		return nil, fmt.Errorf("unknown similarity backend %q", backend)
	}
}
