package aggregator

import (
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/rs/zerolog"
)

type Aggregator struct {
	logger *zerolog.Logger
}

func NewAggregator(logger *zerolog.Logger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// FinalGrade is the unweighted mean of the question scores, 0 when there are none.
// Sentinel zeros of failed questions are included.
func FinalGrade(questions []models.QuestionEvaluation) float64 {
	if len(questions) == 0 {
		return 0
	}

	total := 0.0
	for _, q := range questions {
		total += q.FinalQuestionScore
	}
	return total / float64(len(questions))
}

// Summarize computes class statistics over graded students.
func (a *Aggregator) Summarize(results []models.StudentResult) models.BatchSummary {
	summary := models.BatchSummary{Students: len(results)}
	if len(results) == 0 {
		return summary
	}

	summary.Questions = len(results[0].Questions)
	summary.MinGrade = results[0].FinalGrade
	summary.MaxGrade = results[0].FinalGrade

	total := 0.0
	for _, r := range results {
		total += r.FinalGrade
		summary.MinGrade = min(summary.MinGrade, r.FinalGrade)
		summary.MaxGrade = max(summary.MaxGrade, r.FinalGrade)
		for _, q := range r.Questions {
			if len(q.Failures) > 0 {
				summary.FailedCells++
			}
		}
	}
	summary.MeanGrade = total / float64(len(results))

	a.logger.
		Info().
		Int("students", summary.Students).
		Float64("mean_grade", summary.MeanGrade).
		Int("failed_cells", summary.FailedCells).
		Msg("aggregation complete")
	return summary
}
