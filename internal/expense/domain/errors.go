package domain

import (
	"errors"
	"fmt"
)

// Pipeline error taxonomy. Callers branch on these with errors.Is/errors.As
// to decide the terminal processing status for an email.
var (
	// ErrClassification covers unreachable models, timeouts and provider errors
	ErrClassification = errors.New("classification failed")
	// ErrParse covers non-JSON or schema-mismatched model output
	ErrParse = errors.New("model output parse failed")
	// ErrStore covers persistence backend failures
	ErrStore = errors.New("store failure")
)

// ValidationKind distinguishes why enrichment rejected an extraction
type ValidationKind string

const (
	MissingRequiredField ValidationKind = "missing_required_field"
	OutOfRange           ValidationKind = "out_of_range"
)

// ValidationError names the field that failed enrichment validation
type ValidationError struct {
	Kind   ValidationKind
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%s): field %q: %s", e.Kind, e.Field, e.Reason)
}

// NewMissingFieldError reports a required field that was absent or empty
func NewMissingFieldError(field, reason string) *ValidationError {
	return &ValidationError{Kind: MissingRequiredField, Field: field, Reason: reason}
}
