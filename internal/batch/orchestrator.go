package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/synereval/internal/aggregator"
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/povarna/generative-ai-agents/synereval/internal/scorer"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const DefaultWorkers = 4

// Orchestrator grades a student × question grid with the rubric judge and the similarity scorer.
type Orchestrator struct {
	similarity scorer.SimilarityScorer
	judge      scorer.AbsoluteGrader
	workers    int
	logger     *zerolog.Logger
}

func NewOrchestrator(
	similarity scorer.SimilarityScorer,
	judge scorer.AbsoluteGrader,
	workers int,
	logger *zerolog.Logger,
) *Orchestrator {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Orchestrator{
		similarity: similarity,
		judge:      judge,
		workers:    workers,
		logger:     logger,
	}
}

// Validate checks the grid against the questions without calling any scorer.
func Validate(grid models.StudentGrid, questions []models.QuestionSpec, rubric models.RubricSpec) error {
	if err := rubric.Validate(); err != nil {
		return err
	}
	if grid.StudentColumn == "" {
		return &models.SchemaError{Field: StudentColumn}
	}
	if len(grid.AnswerColumns) != len(questions) {
		return &models.ShapeMismatchError{
			Expected: len(questions),
			Actual:   len(grid.AnswerColumns),
			Detail:   "answer columns do not match reference responses",
		}
	}
	for i, row := range grid.Rows {
		if len(row.Answers) != len(questions) {
			return &models.ShapeMismatchError{
				Expected: len(questions),
				Actual:   len(row.Answers),
				Detail:   fmt.Sprintf("row %d (%s) has a different number of answers", i+1, row.StudentName),
			}
		}
	}
	return nil
}

// EvaluateGrid returns one result per row, in row order.
func (o *Orchestrator) EvaluateGrid(
	ctx context.Context,
	grid models.StudentGrid,
	questions []models.QuestionSpec,
	rubric models.RubricSpec,
) ([]models.StudentResult, error) {
	if err := Validate(grid, questions, rubric); err != nil {
		return nil, err
	}

	now := time.Now()
	o.logger.Info().
		Int("students", len(grid.Rows)).
		Int("questions", len(questions)).
		Msg("starting batch evaluation")

	results := make([]models.StudentResult, len(grid.Rows))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, row := range grid.Rows {
		g.Go(func() error {
			results[i] = o.evaluateStudent(gctx, row, questions, rubric)
			return nil
		})
	}
	_ = g.Wait()

	o.logger.Info().
		Int("students", len(results)).
		Dur("duration", time.Since(now)).
		Msg("batch evaluation complete")

	return results, nil
}

func (o *Orchestrator) evaluateStudent(
	ctx context.Context,
	row models.StudentRow,
	questions []models.QuestionSpec,
	rubric models.RubricSpec,
) models.StudentResult {
	evaluations := make([]models.QuestionEvaluation, len(questions))
	for q, spec := range questions {
		evaluations[q] = o.evaluateQuestion(ctx, row.StudentName, row.Answers[q], spec, rubric)
	}

	return models.StudentResult{
		StudentName: row.StudentName,
		Questions:   evaluations,
		FinalGrade:  aggregator.FinalGrade(evaluations),
	}
}

func (o *Orchestrator) evaluateQuestion(
	ctx context.Context,
	student string,
	answer string,
	spec models.QuestionSpec,
	rubric models.RubricSpec,
) models.QuestionEvaluation {
	var (
		wg               sync.WaitGroup
		absoluteResult   scorer.Result[models.AbsoluteGrade]
		similarityResult scorer.Result[models.SimilarityScore]
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		absoluteResult = o.judge.Grade(ctx, models.EvaluationUnit{
			Instruction: spec.Instruction,
			Candidate:   answer,
			Reference:   spec.Reference,
			Rubric:      rubric,
		})
	}()
	go func() {
		defer wg.Done()
		similarityResult = o.similarity.Score(ctx, []string{answer}, []string{spec.Reference})
	}()
	wg.Wait()

	eval := models.QuestionEvaluation{
		Question:      spec.Label,
		StudentAnswer: answer,
	}
	var failures []models.ScorerFailure
	eval.AbsoluteGrade, failures = scorer.Collect(absoluteResult, scorer.AbsoluteSentinel, failures)
	eval.Similarity, failures = scorer.Collect(similarityResult, scorer.SimilaritySentinel, failures)
	eval.FinalQuestionScore = eval.AbsoluteGrade.Score
	eval.Failures = failures

	for _, f := range failures {
		o.logger.Error().
			Str("student", student).
			Str("question", spec.Label).
			Str("scorer", f.Scorer).
			Str("kind", f.Kind).
			Str("message", f.Message).
			Msg("scorer failed, using sentinel")
	}

	return eval
}
