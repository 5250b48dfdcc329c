package models

import (
	"fmt"
	"strings"
)

// RubricSpec holds the criteria and one description per score level (1 to 5).
type RubricSpec struct {
	Criteria          string `json:"criteria" yaml:"criteria" jsonschema:"grading criteria"`
	Score1Description string `json:"score1_description" yaml:"score1_description" jsonschema:"description of score 1"`
	Score2Description string `json:"score2_description" yaml:"score2_description" jsonschema:"description of score 2"`
	Score3Description string `json:"score3_description" yaml:"score3_description" jsonschema:"description of score 3"`
	Score4Description string `json:"score4_description" yaml:"score4_description" jsonschema:"description of score 4"`
	Score5Description string `json:"score5_description" yaml:"score5_description" jsonschema:"description of score 5"`
}

// Validate reports every rubric key that is missing or blank.
func (r RubricSpec) Validate() error {
	fields := []struct {
		key   string
		value string
	}{
		{"criteria", r.Criteria},
		{"score1_description", r.Score1Description},
		{"score2_description", r.Score2Description},
		{"score3_description", r.Score3Description},
		{"score4_description", r.Score4Description},
		{"score5_description", r.Score5Description},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.key)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidRubric, strings.Join(missing, ", "))
	}
	return nil
}
