package executor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/povarna/generative-ai-agents/synereval/internal/scorer"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

// DocumentExecutor runs the three scorers over each (candidate, reference) pair.
type DocumentExecutor struct {
	similarity scorer.SimilarityScorer
	judge      scorer.AbsoluteGrader
	structured scorer.StructuredGrader
	workers    int
	logger     *zerolog.Logger
}

func NewDocumentExecutor(
	similarity scorer.SimilarityScorer,
	judge scorer.AbsoluteGrader,
	structured scorer.StructuredGrader,
	workers int,
	logger *zerolog.Logger,
) *DocumentExecutor {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &DocumentExecutor{
		similarity: similarity,
		judge:      judge,
		structured: structured,
		workers:    workers,
		logger:     logger,
	}
}

// Execute returns one result per candidate, in input order. Errors are
// returned only for malformed input; scorer failures become sentinels.
func (e *DocumentExecutor) Execute(
	ctx context.Context,
	instruction string,
	candidates []string,
	references []string,
	rubric models.RubricSpec,
) ([]models.DocumentResult, error) {
	if len(candidates) != len(references) {
		return nil, fmt.Errorf("%w: %d model responses but %d reference responses",
			models.ErrMalformedRequest, len(candidates), len(references))
	}
	if err := rubric.Validate(); err != nil {
		return nil, err
	}

	results := make([]models.DocumentResult, len(candidates))
	if len(candidates) == 0 {
		return results, nil
	}

	now := time.Now()
	e.logger.Info().Int("documents", len(candidates)).Msg("starting document evaluation")

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range candidates {
		g.Go(func() error {
			results[i] = e.evaluatePair(gctx, models.EvaluationUnit{
				Instruction: instruction,
				Candidate:   candidates[i],
				Reference:   references[i],
				Rubric:      rubric,
			})
			return nil
		})
	}
	_ = g.Wait()

	e.logger.Info().
		Int("documents", len(candidates)).
		Dur("duration", time.Since(now)).
		Msg("document evaluation complete")

	return results, nil
}

func (e *DocumentExecutor) evaluatePair(ctx context.Context, unit models.EvaluationUnit) models.DocumentResult {
	var (
		wg               sync.WaitGroup
		similarityResult scorer.Result[models.SimilarityScore]
		absoluteResult   scorer.Result[models.AbsoluteGrade]
		structuredResult scorer.Result[models.StructuredGrade]
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		similarityResult = e.similarity.Score(ctx, []string{unit.Candidate}, []string{unit.Reference})
	}()
	go func() {
		defer wg.Done()
		absoluteResult = e.judge.Grade(ctx, unit)
	}()
	go func() {
		defer wg.Done()
		structuredResult = e.structured.Grade(ctx, unit.Instruction, unit.Candidate, unit.Reference)
	}()
	wg.Wait()

	result := models.DocumentResult{Candidate: unit.Candidate}
	var failures []models.ScorerFailure

	result.Similarity, failures = scorer.Collect(similarityResult, scorer.SimilaritySentinel, failures)
	result.AbsoluteGrade, failures = scorer.Collect(absoluteResult, scorer.AbsoluteSentinel, failures)
	if structuredResult.OK() {
		grade := structuredResult.Value
		result.StructuredGrade = &grade
	} else {
		failures = append(failures, structuredResult.Err.Failure())
	}

	for _, f := range failures {
		e.logger.Error().
			Str("scorer", f.Scorer).
			Str("kind", f.Kind).
			Str("message", f.Message).
			Msg("scorer failed, using sentinel")
	}
	result.Failures = failures

	return result
}
