package scorer

import (
	"context"

	"github.com/povarna/generative-ai-agents/synereval/internal/models"
)

//go:generate mockgen -source=scorer.go -destination=mocks/mock_scorer.go -package=mocks

// SimilarityScorer returns the mean precision, recall and F1 across equal-length candidate/reference lists.
type SimilarityScorer interface {
	Score(ctx context.Context, candidates []string, references []string) Result[models.SimilarityScore]
}

// AbsoluteGrader grades one response in isolation against a rubric.
type AbsoluteGrader interface {
	Grade(ctx context.Context, unit models.EvaluationUnit) Result[models.AbsoluteGrade]
}

// StructuredGrader returns the fixed-schema multi-criterion grade of one response.
type StructuredGrader interface {
	Grade(ctx context.Context, instruction string, candidate string, reference string) Result[models.StructuredGrade]
}

// Sentinels used when a scorer fails.
var (
	SimilaritySentinel = models.SimilarityScore{}
	AbsoluteSentinel   = models.AbsoluteGrade{Feedback: models.SentinelFeedback, Score: 0.0}
)
