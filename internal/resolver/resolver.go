// Package resolver turns shape references into absolute shape IDs using a
// model's namespace, its use imports and the prelude.
package resolver

import (
	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
	"github.com/shapemodel/cli/internal/prelude"
)

// Resolver resolves references against a single model plus the prelude.
type Resolver struct {
	model   *core.Model
	prelude *core.Model
}

// New returns a resolver for m.
func New(m *core.Model) *Resolver {
	return &Resolver{model: m, prelude: prelude.Model()}
}

// Resolve returns the absolute ID that ref refers to.
//
// Absolute references that name a known shape are returned unchanged.
// Unknown absolute references fail when strict and are returned unchanged
// otherwise, so models can be assembled out of order. Relative references
// are looked up in the model's namespace, then its use imports, then the
// prelude; the first hit wins and a miss fails in both modes.
//
// Member references resolve the containing shape first and then require
// the member to be declared, except that a non-strict reference written
// with an unknown absolute container keeps the member speculatively.
func (r *Resolver) Resolve(ref identity.ShapeID, strict bool) (identity.ShapeID, bool) {
	shape, known, ok := r.resolveShape(ref.ShapeOnly(), strict)
	if !ok {
		return identity.ShapeID{}, false
	}
	if !ref.IsMember() {
		return shape, true
	}

	memberID := shape.WithMember(ref.Member())
	if !known {
		if strict || !ref.IsAbsolute() {
			return identity.ShapeID{}, false
		}
		return memberID, true
	}
	if r.declaresMember(memberID) {
		return memberID, true
	}
	return identity.ShapeID{}, false
}

// ResolveString parses text as a reference and resolves it.
func (r *Resolver) ResolveString(text string, strict bool) (identity.ShapeID, error) {
	ref, err := identity.ParseReference(text)
	if err != nil {
		return identity.ShapeID{}, err
	}
	resolved, ok := r.Resolve(ref, strict)
	if !ok {
		return identity.ShapeID{}, &ResolutionError{Reference: ref, Strict: strict}
	}
	return resolved, nil
}

// Known reports whether id names a shape or member of the model or the
// prelude.
func (r *Resolver) Known(id identity.ShapeID) bool {
	return r.model.HasShape(id) || r.prelude.HasShape(id)
}

// resolveShape resolves a shape-only reference. known reports whether the
// returned ID names a shape that actually exists.
func (r *Resolver) resolveShape(ref identity.ShapeID, strict bool) (id identity.ShapeID, known, ok bool) {
	if ref.IsAbsolute() {
		if r.Known(ref) {
			return ref, true, true
		}
		if strict {
			return identity.ShapeID{}, false, false
		}
		return ref, false, true
	}

	if ns := r.model.Namespace(); ns != "" {
		local := ref.InNamespace(ns)
		if r.model.HasShape(local) {
			return local, true, true
		}
	}

	for _, use := range r.model.Uses() {
		if use.Name() == ref.Name() {
			return use, r.Known(use), true
		}
	}

	if fromPrelude := ref.InNamespace(prelude.Namespace); r.prelude.HasShape(fromPrelude) {
		return fromPrelude, true, true
	}
	return identity.ShapeID{}, false, false
}

func (r *Resolver) declaresMember(id identity.ShapeID) bool {
	if _, ok := r.model.Member(id); ok {
		return true
	}
	_, ok := r.prelude.Member(id)
	return ok
}
