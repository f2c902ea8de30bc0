package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation indicates a model or configuration failed validation.
	ErrValidation = errors.New("validation error")

	// ErrNotFound indicates a shape, file, or reference was not found.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates two model sources disagree about a shape, trait or metadata key.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates malformed identifiers, selectors or model documents.
	ErrInvalidInput = errors.New("invalid input")
)
