package entity

import (
	"errors"
	"strings"
)

var (
	// ErrReceiptNotFound is returned when no receipt exists for an id
	ErrReceiptNotFound = errors.New("receipt not found")

	// ErrIDExhausted is returned when a unique receipt id could not be allocated
	ErrIDExhausted = errors.New("unable to allocate unique receipt id")
)

// Violation describes a single failed constraint on a receipt field
type Violation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every constraint a submitted receipt violated
type ValidationError struct {
	Violations []Violation
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Violations: []Violation{{Field: field, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "invalid receipt"
	}

	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+" "+v.Reason)
	}

	return "invalid receipt: " + strings.Join(parts, "; ")
}

// Field returns the first violated field
func (e *ValidationError) Field() string {
	if len(e.Violations) == 0 {
		return ""
	}
	return e.Violations[0].Field
}
