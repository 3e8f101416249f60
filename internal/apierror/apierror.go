// Package apierror provides the standardized error envelope for the API and
// the domain sentinel errors handlers translate into HTTP statuses. All
// errors returned to clients go through this package so internal details
// (stack traces, SQL errors) never leak.
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}

// Domain sentinels. Services return these; handlers map them to statuses.
var (
	// ErrUnknownGeneration is returned when the :generation path segment is
	// not one of the registered schema generations.
	ErrUnknownGeneration = errors.New("unknown schema generation")

	// ErrNotFound is returned when a record lookup finds nothing.
	ErrNotFound = errors.New("record not found")

	// ErrConfirmationMismatch rejects a destructive operation whose confirm
	// token did not match the required phrase. The store stays untouched.
	ErrConfirmationMismatch = errors.New("confirmation phrase mismatch")

	// ErrEmptySheet is returned when an uploaded workbook has no data rows.
	ErrEmptySheet = errors.New("file must have at least a header and one data row")
)
