package resolver

import (
	"fmt"

	"github.com/shapemodel/cli/internal/core"
	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/identity"
)

// ErrUnresolved is the kind of every *ResolutionError.
var ErrUnresolved = fmt.Errorf("unresolved reference: %w", oerrors.ErrValidation)

// ResolutionError reports a reference that did not resolve.
type ResolutionError struct {
	// Source is the shape or member holding the reference; zero for
	// references resolved directly through ResolveString.
	Source identity.ShapeID

	// Relation names how Source refers to Reference, e.g. "member", "input", "trait".
	Relation string

	Reference identity.ShapeID
	Strict    bool
}

func (e *ResolutionError) Error() string {
	if e.Source.IsZero() {
		return fmt.Sprintf("shape %s not found", e.Reference)
	}
	return fmt.Sprintf("%s: %s reference %s does not resolve", e.Source, e.Relation, e.Reference)
}

func (e *ResolutionError) Unwrap() error {
	return ErrUnresolved
}

// Check resolves every reference held by the model: member targets, service,
// operation and resource references, applied trait IDs and shape-reference
// trait values. In strict mode shapes that were only ever the target of an
// applied trait, and traits applied to undeclared members, are reported too.
// Errors are returned in shape ID order.
func (r *Resolver) Check(strict bool) []error {
	c := &checker{r: r, strict: strict}
	for _, s := range r.model.Shapes() {
		if strict && s.Kind() == core.KindUnresolved {
			c.errs = append(c.errs, &ResolutionError{
				Source: s.ID(), Relation: "applied trait target", Reference: s.ID(), Strict: strict,
			})
		}
		c.traits(s.ID(), s.Traits())
		_ = core.Visit(s, c)
	}
	if strict {
		for _, target := range r.model.PendingTargets() {
			c.errs = append(c.errs, &ResolutionError{
				Source: target, Relation: "applied trait target", Reference: target, Strict: strict,
			})
		}
	}
	return c.errs
}

type checker struct {
	core.BaseVisitor
	r      *Resolver
	strict bool
	errs   []error
}

func (c *checker) ref(source identity.ShapeID, relation string, ref identity.ShapeID) {
	if ref.IsZero() {
		return
	}
	if _, ok := c.r.Resolve(ref, c.strict); !ok {
		c.errs = append(c.errs, &ResolutionError{
			Source: source, Relation: relation, Reference: ref, Strict: c.strict,
		})
	}
}

func (c *checker) refs(source identity.ShapeID, relation string, refs []identity.ShapeID) {
	for _, ref := range refs {
		c.ref(source, relation, ref)
	}
}

func (c *checker) traits(source identity.ShapeID, t *core.Traits) {
	t.Each(func(trait identity.ShapeID, v core.Value) {
		c.ref(source, "trait", trait)
		c.value(source, v)
	})
}

func (c *checker) value(source identity.ShapeID, v core.Value) {
	switch v.Kind() {
	case core.ShapeRefValue:
		ref, _ := v.AsShapeRef()
		c.ref(source, "trait value", ref)
	case core.ArrayValue:
		for _, e := range v.Elements() {
			c.value(source, e)
		}
	case core.ObjectValue:
		for _, f := range v.Fields() {
			c.value(source, f.Value)
		}
	}
}

func (c *checker) members(owner identity.ShapeID, ms ...*core.Member) {
	for _, m := range ms {
		if m == nil {
			continue
		}
		mid := owner.WithMember(m.Name)
		c.ref(mid, "member", m.Target)
		c.traits(mid, &m.Traits)
	}
}

func (c *checker) List(s *core.Shape, b core.ListBody) error {
	c.members(s.ID(), b.Member)
	return nil
}

func (c *checker) Set(s *core.Shape, b core.SetBody) error {
	c.members(s.ID(), b.Member)
	return nil
}

func (c *checker) Map(s *core.Shape, b core.MapBody) error {
	c.members(s.ID(), b.Key, b.Value)
	return nil
}

func (c *checker) Structure(s *core.Shape, b core.StructureBody) error {
	c.members(s.ID(), b.Members...)
	return nil
}

func (c *checker) Union(s *core.Shape, b core.UnionBody) error {
	c.members(s.ID(), b.Members...)
	return nil
}

func (c *checker) Service(s *core.Shape, b core.ServiceBody) error {
	c.refs(s.ID(), "operation", b.Operations)
	c.refs(s.ID(), "resource", b.Resources)
	return nil
}

func (c *checker) Operation(s *core.Shape, b core.OperationBody) error {
	c.ref(s.ID(), "input", b.Input)
	c.ref(s.ID(), "output", b.Output)
	c.refs(s.ID(), "error", b.Errors)
	return nil
}

func (c *checker) Resource(s *core.Shape, b core.ResourceBody) error {
	id := s.ID()
	for _, ri := range b.Identifiers {
		c.ref(id, "identifier", ri.Target)
	}
	c.ref(id, "create", b.Create)
	c.ref(id, "put", b.Put)
	c.ref(id, "read", b.Read)
	c.ref(id, "update", b.Update)
	c.ref(id, "delete", b.Delete)
	c.ref(id, "list", b.List)
	c.refs(id, "operation", b.Operations)
	c.refs(id, "collection operation", b.CollectionOperations)
	c.refs(id, "resource", b.Resources)
	return nil
}
