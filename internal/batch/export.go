package batch

import (
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
)

// Table is a flattened, format-independent result sheet.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Flatten lays out one row per student: name, final grade, then score and feedback per question.
func Flatten(results []models.StudentResult, questions []models.QuestionSpec) Table {
	columns := []string{"student_name", "final_grade"}
	for _, q := range questions {
		columns = append(columns, q.Label+" final_score", q.Label+" prometheus_feedback")
	}

	table := Table{Columns: columns, Rows: make([][]any, 0, len(results))}
	for _, res := range results {
		row := make([]any, 0, len(columns))
		row = append(row, res.StudentName, res.FinalGrade)
		for i := range questions {
			if i < len(res.Questions) {
				q := res.Questions[i]
				row = append(row, q.FinalQuestionScore, q.AbsoluteGrade.Feedback)
				continue
			}
			row = append(row, 0.0, models.SentinelFeedback)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}
