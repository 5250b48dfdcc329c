package grader

import (
	"github.com/povarna/generative-ai-agents/synereval/internal/llm"
	"github.com/povarna/generative-ai-agents/synereval/internal/models"
)

const (
	MinScore = 1
	MaxScore = 10
)

// gradeSchema constrains the completion to the five criteria plus an integer final score.
func gradeSchema() *llm.JSONSchema {
	criterion := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":    "integer",
				"minimum": MinScore,
				"maximum": MaxScore,
			},
			"explanation": map[string]any{"type": "string"},
		},
		"required":             []string{"score", "explanation"},
		"additionalProperties": false,
	}

	properties := make(map[string]any, len(models.StructuredCriteria))
	for _, name := range models.StructuredCriteria {
		properties[name] = criterion
	}

	return &llm.JSONSchema{
		Name:        "evaluation_schema",
		Description: "Per-criterion scores with explanations and a final score",
		Strict:      true,
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"evaluations": map[string]any{
					"type":                 "object",
					"properties":           properties,
					"required":             models.StructuredCriteria,
					"additionalProperties": false,
				},
				"final_score": map[string]any{
					"type":    "integer",
					"minimum": MinScore,
					"maximum": MaxScore,
				},
			},
			"required":             []string{"evaluations", "final_score"},
			"additionalProperties": false,
		},
	}
}
