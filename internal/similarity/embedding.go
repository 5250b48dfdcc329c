package similarity

import (
	"context"
	"fmt"
	"math"

	"github.com/povarna/generative-ai-agents/synereval/internal/llm"
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/povarna/generative-ai-agents/synereval/internal/scorer"
	"github.com/rs/zerolog"
)

const EmbeddingName = "bertscore"

// EmbeddingScorer computes a BERTScore-style greedy match: every token is paired
// with its most similar token on the other side by cosine similarity of embeddings.
type EmbeddingScorer struct {
	embedder llm.Embedder
	logger   *zerolog.Logger
}

func NewEmbeddingScorer(embedder llm.Embedder, logger *zerolog.Logger) *EmbeddingScorer {
	return &EmbeddingScorer{
		embedder: embedder,
		logger:   logger,
	}
}

func (s *EmbeddingScorer) Score(ctx context.Context, candidates []string, references []string) scorer.Result[models.SimilarityScore] {
	if err := validatePairs(candidates, references); err != nil {
		return scorer.Failure[models.SimilarityScore](EmbeddingName, scorer.KindInvalidInput, err)
	}

	candidateTokens := make([][]string, len(candidates))
	referenceTokens := make([][]string, len(references))
	vocabulary := make(map[string]int)
	var ordered []string
	collect := func(tokens []string) {
		for _, t := range tokens {
			if _, ok := vocabulary[t]; !ok {
				vocabulary[t] = len(ordered)
				ordered = append(ordered, t)
			}
		}
	}
	for i := range candidates {
		candidateTokens[i] = Tokenize(candidates[i])
		referenceTokens[i] = Tokenize(references[i])
		collect(candidateTokens[i])
		collect(referenceTokens[i])
	}

	var vectors [][]float64
	if len(ordered) > 0 {
		var err error
		vectors, err = s.embedder.Embed(ctx, ordered)
		if err != nil {
			return scorer.Failure[models.SimilarityScore](EmbeddingName, scorer.KindUnavailable, err)
		}
		if len(vectors) != len(ordered) {
			return scorer.Failure[models.SimilarityScore](EmbeddingName, scorer.KindMalformedResponse,
				fmt.Errorf("expected %d embeddings, got %d", len(ordered), len(vectors)))
		}
	}

	lookup := func(tokens []string) [][]float64 {
		out := make([][]float64, len(tokens))
		for i, t := range tokens {
			out[i] = vectors[vocabulary[t]]
		}
		return out
	}

	var total models.SimilarityScore
	for i := range candidates {
		pair := greedyMatch(lookup(candidateTokens[i]), lookup(referenceTokens[i]))
		total.Precision += pair.Precision
		total.Recall += pair.Recall
		total.F1 += pair.F1
	}

	result := mean(total, len(candidates))
	s.logger.Debug().
		Int("pairs", len(candidates)).
		Int("tokens", len(ordered)).
		Float64("f1", result.F1).
		Msg("similarity computed")

	return scorer.Success(result)
}

func greedyMatch(candidate [][]float64, reference [][]float64) models.SimilarityScore {
	if len(candidate) == 0 || len(reference) == 0 {
		return models.SimilarityScore{}
	}

	precision := clamp01(meanMaxCosine(candidate, reference))
	recall := clamp01(meanMaxCosine(reference, candidate))
	return models.SimilarityScore{
		Precision: precision,
		Recall:    recall,
		F1:        f1(precision, recall),
	}
}

func meanMaxCosine(from [][]float64, to [][]float64) float64 {
	sum := 0.0
	for _, a := range from {
		best := -1.0
		for _, b := range to {
			if c := cosine(a, b); c > best {
				best = c
			}
		}
		sum += best
	}
	return sum / float64(len(from))
}

func cosine(a []float64, b []float64) float64 {
	n := min(len(a), len(b))
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
