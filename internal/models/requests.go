package models

// EvaluationRequest asks for every model response to be graded against its reference.
type EvaluationRequest struct {
	RequestID          string     `json:"request_id,omitempty"`
	Instruction        string     `json:"instruction"`
	ModelResponses     []string   `json:"model_responses"`
	ReferenceResponses []string   `json:"reference_responses"`
	Rubric             RubricSpec `json:"rubric"`
}

type EvaluationResponse struct {
	RequestID string           `json:"request_id,omitempty"`
	Results   []DocumentResult `json:"results"`
}

// TeacherEvaluationRequest carries the per-question metadata of a batch grading upload.
// ReferenceResponses and Instructions are positionally bound to the answer columns.
type TeacherEvaluationRequest struct {
	Rubric             RubricSpec `json:"rubric"`
	ReferenceResponses []string   `json:"reference_responses"`
	Instructions       []string   `json:"instructions"`
}
