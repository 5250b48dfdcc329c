package scorer

import (
	"fmt"

	"github.com/povarna/generative-ai-agents/synereval/internal/models"
)

type Kind string

const (
	KindUnavailable       Kind = "unavailable"
	KindInvalidInput      Kind = "invalid_input"
	KindMalformedResponse Kind = "malformed_response"
	KindOutOfRange        Kind = "out_of_range"
)

// Error describes why a scorer produced no value.
type Error struct {
	Scorer string
	Kind   Kind
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Scorer, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Scorer, e.Kind, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Failure converts the error into the record attached to results.
func (e *Error) Failure() models.ScorerFailure {
	msg := string(e.Kind)
	if e.Cause != nil {
		msg = e.Cause.Error()
	}
	return models.ScorerFailure{
		Scorer:  e.Scorer,
		Kind:    string(e.Kind),
		Message: msg,
	}
}

// Result is either a value or a scorer error, never both.
type Result[T any] struct {
	Value T
	Err   *Error
}

func Success[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func Failure[T any](scorer string, kind Kind, cause error) Result[T] {
	return Result[T]{Err: &Error{Scorer: scorer, Kind: kind, Cause: cause}}
}

func (r Result[T]) OK() bool {
	return r.Err == nil
}

// ValueOr returns the value, or fallback when the scorer failed.
func (r Result[T]) ValueOr(fallback T) T {
	if r.Err != nil {
		return fallback
	}
	return r.Value
}

// Collect returns the value of r, or sentinel when r failed, appending the failure record to failures.
func Collect[T any](r Result[T], sentinel T, failures []models.ScorerFailure) (T, []models.ScorerFailure) {
	if r.Err != nil {
		return sentinel, append(failures, r.Err.Failure())
	}
	return r.Value, failures
}
