package similarity

import (
	"context"
	"fmt"

	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/povarna/generative-ai-agents/synereval/internal/scorer"
)

const LexicalName = "lexical-similarity"

// LexicalScorer scores unigram overlap between candidate and reference.
// It needs no model and is used when embeddings are unavailable.
type LexicalScorer struct{}

func NewLexicalScorer() *LexicalScorer {
	return &LexicalScorer{}
}

func (s *LexicalScorer) Score(_ context.Context, candidates []string, references []string) scorer.Result[models.SimilarityScore] {
	if err := validatePairs(candidates, references); err != nil {
		return scorer.Failure[models.SimilarityScore](LexicalName, scorer.KindInvalidInput, err)
	}

	var total models.SimilarityScore
	for i := range candidates {
		pair := lexicalPair(Tokenize(candidates[i]), Tokenize(references[i]))
		total.Precision += pair.Precision
		total.Recall += pair.Recall
		total.F1 += pair.F1
	}

	return scorer.Success(mean(total, len(candidates)))
}

// lexicalPair counts clipped unigram matches, so a repeated token matches at most as often as it appears in the other text.
func lexicalPair(candidate []string, reference []string) models.SimilarityScore {
	if len(candidate) == 0 || len(reference) == 0 {
		return models.SimilarityScore{}
	}

	refCounts := uniqueTokens(reference)
	matches := 0
	for token, count := range uniqueTokens(candidate) {
		matches += min(count, refCounts[token])
	}

	precision := clamp01(float64(matches) / float64(len(candidate)))
	recall := clamp01(float64(matches) / float64(len(reference)))
	return models.SimilarityScore{
		Precision: precision,
		Recall:    recall,
		F1:        f1(precision, recall),
	}
}

func validatePairs(candidates []string, references []string) error {
	if len(candidates) == 0 {
		return fmt.Errorf("no candidates to score")
	}
	if len(candidates) != len(references) {
		return fmt.Errorf("got %d candidates and %d references", len(candidates), len(references))
	}
	return nil
}

func mean(total models.SimilarityScore, n int) models.SimilarityScore {
	return models.SimilarityScore{
		Precision: clamp01(total.Precision / float64(n)),
		Recall:    clamp01(total.Recall / float64(n)),
		F1:        clamp01(total.F1 / float64(n)),
	}
}
