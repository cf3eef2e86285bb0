// Package errors defines the advisory diagnostics the engines surface to
// callers and the structured API errors used by the HTTP transport.
//
// Engine conditions are never returned as Go errors: the cleaning and
// alignment passes handle every malformed cell or missing column locally
// and record a Diagnostic instead, so callers distinguish "nothing to do"
// from "resampled to zero rows" only by inspecting the result.
package errors

import (
	"fmt"
	"net/http"

	"github.com/go-chi/render"
)

// Condition classifies an advisory diagnostic raised by an engine.
type Condition string

const (
	// ConditionNotFound means a named column is missing from the header.
	ConditionNotFound Condition = "not_found"
	// ConditionUnparseable means an individual value failed to parse and
	// was skipped or left as-is.
	ConditionUnparseable Condition = "unparseable"
	// ConditionEmptySeries means no time values parsed at all.
	ConditionEmptySeries Condition = "empty_series"
	// ConditionDegenerateGrid means the time range or interval produced an
	// empty grid.
	ConditionDegenerateGrid Condition = "degenerate_grid"
)

// Diagnostic is a human-readable warning surfaced to the caller as
// log-like output, never as a thrown error.
type Diagnostic struct {
	Condition Condition `json:"condition"`
	Message   string    `json:"message"`
}

// Diagnosticf builds a Diagnostic with a formatted message.
func Diagnosticf(c Condition, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Condition: c, Message: fmt.Sprintf(format, args...)}
}

// String implements fmt.Stringer.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Condition, d.Message)
}

// APIError represents a structured API error response.
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters.
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details.
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// ErrValidation builds a 400 error for an invalid request field.
func ErrValidation(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", message,
		map[string]string{"field": field})
}

// Predefined errors for common transport scenarios.
var (
	ErrInvalidRequest = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
)
