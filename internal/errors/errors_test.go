//nolint:revive // Package name matches the package it tests
package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors(t *testing.T) {
	// Verify sentinel errors are distinct
	assert.NotEqual(t, ErrValidation, ErrNotFound)
	assert.NotEqual(t, ErrValidation, ErrConflict)
	assert.NotEqual(t, ErrConflict, ErrInvalidInput)
}

func TestDetailErrorError(t *testing.T) {
	detail := &DetailError{
		Type:     "merge conflict",
		Message:  "trait values differ",
		Location: "example.motd#Date",
		Field:    "smithy.api#since",
		Context:  map[string]string{"left": `"2021-04-30"`, "right": `"not-a-date"`},
		Hint:     "Remove one of the definitions",
	}

	output := detail.Error()

	assert.Contains(t, output, "Error: merge conflict")
	assert.Contains(t, output, "Location: example.motd#Date")
	assert.Contains(t, output, "Field: smithy.api#since")
	assert.Contains(t, output, `left: "2021-04-30"`)
	assert.Contains(t, output, "trait values differ")
	assert.Contains(t, output, "Hint: Remove one of the definitions")
	assert.Less(t, strings.Index(output, "left:"), strings.Index(output, "right:"), "context keys are sorted")
}

func TestDetailErrorUnwrap(t *testing.T) {
	detail := &DetailError{
		Type:    "test",
		Message: "test message",
		Cause:   ErrValidation,
	}

	assert.True(t, errors.Is(detail, ErrValidation))
	assert.Equal(t, ErrValidation, detail.Unwrap())
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("unresolved target", "smithy.example#Foo$bar", "target", "Import the shape with use")

	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var detail *DetailError
	require.True(t, errors.As(err, &detail))
	assert.Equal(t, "validation failed", detail.Type)
	assert.Equal(t, "smithy.example#Foo$bar", detail.Location)
}

func TestNewConflictError(t *testing.T) {
	cause := fmt.Errorf("shape conflict: %w", ErrConflict)
	err := NewConflictError("kinds differ", "a.b#C", "", nil, cause)

	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, ExitConflict, ExitCodeFromError(err))
}

func TestWrap(t *testing.T) {
	wrapped := Wrap(ErrNotFound, "model file missing")

	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Contains(t, wrapped.Error(), "model file missing")
}

func TestExitCodeFromError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil", err: nil, expected: ExitSuccess},
		{name: "validation", err: Wrap(ErrValidation, "x"), expected: ExitValidationError},
		{name: "not found", err: Wrap(ErrNotFound, "x"), expected: ExitNotFound},
		{name: "conflict", err: Wrap(ErrConflict, "x"), expected: ExitConflict},
		{name: "invalid input", err: Wrap(ErrInvalidInput, "x"), expected: ExitInvalidInput},
		{name: "exit error wins", err: NewExitError(Wrap(ErrConflict, "x"), 42), expected: 42},
		{name: "unknown", err: errors.New("boom"), expected: ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExitCodeFromError(tt.err))
		})
	}
}

func TestExitCodeName(t *testing.T) {
	assert.Equal(t, "Conflict", ExitCodeName(ExitConflict))
	assert.Equal(t, "Unknown", ExitCodeName(99))
}
