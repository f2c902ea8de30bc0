package core

import (
	"fmt"

	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/identity"
)

// Sentinel kinds for merge failures. Each wraps oerrors.ErrConflict.
var (
	ErrShapeConflict    = fmt.Errorf("shape conflict: %w", oerrors.ErrConflict)
	ErrTraitConflict    = fmt.Errorf("trait conflict: %w", oerrors.ErrConflict)
	ErrMetadataConflict = fmt.Errorf("metadata conflict: %w", oerrors.ErrConflict)
)

// ShapeConflictError indicates two definitions of the same shape ID differ
// in kind or structural payload.
type ShapeConflictError struct {
	ShapeID  identity.ShapeID
	Existing string
	Incoming string
}

func (e *ShapeConflictError) Error() string {
	return fmt.Sprintf("shape %s: conflicting definitions: existing %q, incoming %q",
		e.ShapeID, e.Existing, e.Incoming)
}

func (e *ShapeConflictError) Unwrap() error {
	return ErrShapeConflict
}

// TraitConflictError indicates the same trait was applied to the same target
// with incompatible values.
type TraitConflictError struct {
	Target   identity.ShapeID
	Trait    identity.ShapeID
	Existing Value
	Incoming Value
}

func (e *TraitConflictError) Error() string {
	return fmt.Sprintf("trait %s on %s: conflicting values %s and %s",
		e.Trait, e.Target, e.Existing.Describe(), e.Incoming.Describe())
}

func (e *TraitConflictError) Unwrap() error {
	return ErrTraitConflict
}

// MetadataConflictError indicates two values for the same metadata key
// could not be merged.
type MetadataConflictError struct {
	Key      string
	Existing Value
	Incoming Value
}

func (e *MetadataConflictError) Error() string {
	return fmt.Sprintf("metadata %q: conflicting values %s and %s",
		e.Key, e.Existing.Describe(), e.Incoming.Describe())
}

func (e *MetadataConflictError) Unwrap() error {
	return ErrMetadataConflict
}

// MergeError reports which incoming entry aborted a full model merge.
type MergeError struct {
	// Entry names the shape ID, applied-trait target, or metadata key.
	Entry string
	Cause error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merging %s: %v", e.Entry, e.Cause)
}

func (e *MergeError) Unwrap() error {
	return e.Cause
}

func invalidShapeID(id identity.ShapeID) error {
	return &identity.InvalidError{Kind: identity.ErrInvalidShapeID, Text: id.String()}
}
