package identity

import (
	"errors"
	"fmt"

	oerrors "github.com/shapemodel/cli/internal/errors"
)

// Sentinel kinds for identity errors. Each wraps oerrors.ErrInvalidInput.
var (
	ErrInvalidIdentifier = fmt.Errorf("invalid identifier: %w", oerrors.ErrInvalidInput)
	ErrInvalidNamespace  = fmt.Errorf("invalid namespace: %w", oerrors.ErrInvalidInput)
	ErrInvalidShapeID    = fmt.Errorf("invalid shape ID: %w", oerrors.ErrInvalidInput)
)

// InvalidError reports text that failed identity validation.
type InvalidError struct {
	// Kind is one of ErrInvalidIdentifier, ErrInvalidNamespace, ErrInvalidShapeID.
	Kind error

	// Text is the offending input.
	Text string
}

func newInvalid(kind error, text string) *InvalidError {
	return &InvalidError{Kind: kind, Text: text}
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%s %q", kindName(e.Kind), e.Text)
}

func (e *InvalidError) Unwrap() error {
	return e.Kind
}

func kindName(kind error) string {
	switch {
	case errors.Is(kind, ErrInvalidIdentifier):
		return "invalid identifier"
	case errors.Is(kind, ErrInvalidNamespace):
		return "invalid namespace"
	default:
		return "invalid shape ID"
	}
}
