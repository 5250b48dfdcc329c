package models

import (
	"errors"
	"fmt"
)

var (
	ErrShapeMismatch    = errors.New("shape mismatch")
	ErrSchema           = errors.New("schema error")
	ErrInvalidRubric    = errors.New("invalid rubric")
	ErrMalformedRequest = errors.New("malformed request")
)

// ShapeMismatchError is returned when answer columns and question specs are not aligned.
type ShapeMismatchError struct {
	Expected int
	Actual   int
	Detail   string
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("shape mismatch: expected %d questions, found %d: %s", e.Expected, e.Actual, e.Detail)
}

func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// SchemaError is returned when the submission table lacks a required field.
type SchemaError struct {
	Field     string
	Duplicate bool
}

func (e *SchemaError) Error() string {
	if e.Duplicate {
		return fmt.Sprintf("schema error: the table has more than one '%s' column", e.Field)
	}
	return fmt.Sprintf("schema error: the table must contain a '%s' column", e.Field)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// IsClientError reports whether err should be surfaced to the caller as a 4xx.
func IsClientError(err error) bool {
	return errors.Is(err, ErrShapeMismatch) ||
		errors.Is(err, ErrSchema) ||
		errors.Is(err, ErrInvalidRubric) ||
		errors.Is(err, ErrMalformedRequest)
}
