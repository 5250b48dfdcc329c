package models

import "fmt"

// Fixed criteria of the structured grade. The names are part of the wire contract.
const (
	CriterionRobustness   = "Robustez"
	CriterionAccuracy     = "Exactitud"
	CriterionCompleteness = "Completitud"
	CriterionReadability  = "Legibilidad"
	CriterionCoherence    = "Coherencia"
)

// StructuredCriteria lists the criteria in schema order.
var StructuredCriteria = []string{
	CriterionRobustness,
	CriterionAccuracy,
	CriterionCompleteness,
	CriterionReadability,
	CriterionCoherence,
}

// SentinelFeedback is the feedback stored when the rubric judge could not grade.
const SentinelFeedback = "error"

// EvaluationUnit is one (instruction, candidate, reference, rubric) tuple handed to the scorers.
type EvaluationUnit struct {
	Instruction string
	Candidate   string
	Reference   string
	Rubric      RubricSpec
}

type CriterionScore struct {
	Score       int    `json:"score"`
	Explanation string `json:"explanation"`
}

type StructuredGrade struct {
	Criteria   map[string]CriterionScore `json:"criteria"`
	FinalScore int                       `json:"final_score"`
}

type SimilarityScore struct {
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

type AbsoluteGrade struct {
	Feedback string  `json:"feedback"`
	Score    float64 `json:"score"`
}

// ScorerFailure records a scorer that did not produce a value for a unit of work.
type ScorerFailure struct {
	Scorer  string `json:"scorer"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// DocumentResult is the outcome of evaluating one model response against its reference.
// StructuredGrade is nil when the structured grader did not evaluate the pair.
type DocumentResult struct {
	Candidate       string           `json:"candidate"`
	StructuredGrade *StructuredGrade `json:"structured_grade"`
	Similarity      SimilarityScore  `json:"similarity"`
	AbsoluteGrade   AbsoluteGrade    `json:"absolute_grade"`
	Failures        []ScorerFailure  `json:"failures,omitempty"`
}

// StudentGrid is the parsed submission table: one row per student, one answer column per question.
type StudentGrid struct {
	StudentColumn string
	AnswerColumns []string
	Rows          []StudentRow
}

type StudentRow struct {
	StudentName string
	Answers     []string
}

// QuestionSpec binds one answer column to its reference and instruction.
type QuestionSpec struct {
	Label       string `json:"label"`
	Reference   string `json:"reference"`
	Instruction string `json:"instruction"`
}

type QuestionEvaluation struct {
	Question           string          `json:"question"`
	StudentAnswer      string          `json:"student_answer"`
	Similarity         SimilarityScore `json:"bertscore"`
	AbsoluteGrade      AbsoluteGrade   `json:"absolute_grade"`
	FinalQuestionScore float64         `json:"final_question_score"`
	Failures           []ScorerFailure `json:"failures,omitempty"`
}

type StudentResult struct {
	StudentName string               `json:"student_name"`
	Questions   []QuestionEvaluation `json:"questions"`
	FinalGrade  float64              `json:"final_grade"`
}

// BatchSummary describes a graded class.
type BatchSummary struct {
	Students    int     `json:"students"`
	Questions   int     `json:"questions"`
	MeanGrade   float64 `json:"mean_grade"`
	MinGrade    float64 `json:"min_grade"`
	MaxGrade    float64 `json:"max_grade"`
	FailedCells int     `json:"failed_cells"`
}

// QuestionLabel returns the 1-based label of the question at index q.
func QuestionLabel(q int) string {
	return fmt.Sprintf("Q%d", q+1)
}

// BuildQuestions zips references and instructions into question specs.
func BuildQuestions(references []string, instructions []string) ([]QuestionSpec, error) {
	if len(references) != len(instructions) {
		return nil, &ShapeMismatchError{
			Expected: len(references),
			Actual:   len(instructions),
			Detail:   "instructions must have one entry per reference response",
		}
	}

	questions := make([]QuestionSpec, len(references))
	for i := range references {
		questions[i] = QuestionSpec{
			Label:       QuestionLabel(i),
			Reference:   references[i],
			Instruction: instructions[i],
		}
	}
	return questions, nil
}
