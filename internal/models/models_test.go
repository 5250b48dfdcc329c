package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRubric() RubricSpec {
	return RubricSpec{
		Criteria:          "Is the answer correct?",
		Score1Description: "wrong",
		Score2Description: "mostly wrong",
		Score3Description: "partially correct",
		Score4Description: "mostly correct",
		Score5Description: "correct",
	}
}

func TestRubricSpec_Validate(t *testing.T) {
	require.NoError(t, validRubric().Validate())

	r := validRubric()
	r.Criteria = "  "
	r.Score4Description = ""

	err := r.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRubric)
	assert.Contains(t, err.Error(), "criteria")
	assert.Contains(t, err.Error(), "score4_description")
	assert.NotContains(t, err.Error(), "score5_description")
}

func TestBuildQuestions(t *testing.T) {
	questions, err := BuildQuestions([]string{"ref a", "ref b"}, []string{"ins a", "ins b"})
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, QuestionSpec{Label: "Q1", Reference: "ref a", Instruction: "ins a"}, questions[0])
	assert.Equal(t, "Q2", questions[1].Label)

	empty, err := BuildQuestions(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = BuildQuestions([]string{"ref a"}, []string{"ins a", "ins b"})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"shape", &ShapeMismatchError{Expected: 2, Actual: 3}, true},
		{"schema", &SchemaError{Field: "student_name"}, true},
		{"wrapped schema", fmt.Errorf("read: %w", &SchemaError{Field: "student_name"}), true},
		{"rubric", fmt.Errorf("%w: missing criteria", ErrInvalidRubric), true},
		{"malformed", fmt.Errorf("%w: bad json", ErrMalformedRequest), true},
		{"internal", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsClientError(tt.err))
		})
	}
}

func TestSchemaError_Message(t *testing.T) {
	err := &SchemaError{Field: "student_name"}
	assert.Equal(t, "schema error: the table must contain a 'student_name' column", err.Error())
	assert.False(t, errors.Is(err, ErrShapeMismatch))
}
