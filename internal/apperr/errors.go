// Package apperr holds the error kinds shared by the catalog, the cart and the
// persistence layer. Domain packages wrap these sentinels so that callers can
// branch with errors.Is regardless of which store produced the failure.
package apperr

import (
	"errors"
	"strings"
)

var (
	// ErrValidation marks malformed input rejected before any mutation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an operation on an identifier absent from its collection.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks a failed read or write on the underlying storage.
	ErrPersistence = errors.New("persistence failure")
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationError collects every field problem found in a single input.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Description)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Add records a field problem.
func (e *ValidationError) Add(field, description string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Description: description})
}

// OrNil returns nil when no field problem was recorded, so a collector can be
// returned directly from a validate function.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}
