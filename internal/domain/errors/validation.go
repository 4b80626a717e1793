package errors

import (
	"net/http"
	"sort"
	"strings"
)

// ValidationError carries per-field messages and renders as 422.
type ValidationError struct {
	fields map[string][]string
}

// NewValidationError builds a ValidationError from a field to messages map.
func NewValidationError(fields map[string][]string) *ValidationError {
	if fields == nil {
		fields = map[string][]string{}
	}

	return &ValidationError{fields: fields}
}

// NewFieldError is shorthand for a single failing field.
func NewFieldError(field, message string) *ValidationError {
	return NewValidationError(map[string][]string{field: {message}})
}

// Add appends a message for field.
func (e *ValidationError) Add(field, message string) {
	e.fields[field] = append(e.fields[field], message)
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.fields[k], ", "))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) HTTPCode() int {
	return http.StatusUnprocessableEntity
}

func (e *ValidationError) ErrorCode() string {
	return ErrValidationFailed.ErrorCode()
}

func (e *ValidationError) Message() string {
	return ErrValidationFailed.Message()
}

func (e *ValidationError) Details() string {
	return ""
}

// FieldErrors returns the per-field messages.
func (e *ValidationError) FieldErrors() map[string][]string {
	return e.fields
}
