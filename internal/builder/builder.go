// Package builder provides fluent construction of a core.Model.
//
// Shapes are declared with plain text references. Relative targets such as
// "String" or "GetCityInput" are resolved when Build is called, against the
// shapes declared so far, the use imports and the prelude, so declarations
// may appear in any order. Errors accumulate and are returned together by
// Build.
package builder

import (
	"errors"
	"fmt"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
	"github.com/shapemodel/cli/internal/resolver"
)

// Trait is a trait application written with a text reference, e.g.
// {ID: "required"} or {ID: "smithy.api#documentation", Value: core.String("...")}.
type Trait struct {
	ID    string
	Value core.Value
}

// MemberConfig declares a member of an aggregate shape.
type MemberConfig struct {
	Name   string
	Target string
	Traits []Trait
}

// ListConfig declares a list or set shape.
type ListConfig struct {
	Member MemberConfig
	Traits []Trait
}

// MapConfig declares a map shape.
type MapConfig struct {
	Key    MemberConfig
	Value  MemberConfig
	Traits []Trait
}

// StructureConfig declares a structure or union shape.
type StructureConfig struct {
	Members []MemberConfig
	Traits  []Trait
}

// ServiceConfig declares a service shape.
type ServiceConfig struct {
	Version    string
	Operations []string
	Resources  []string
	Traits     []Trait
}

// OperationConfig declares an operation shape. Empty references mean absent.
type OperationConfig struct {
	Input  string
	Output string
	Errors []string
	Traits []Trait
}

// IdentifierConfig binds a resource identifier name to its target.
type IdentifierConfig struct {
	Name   string
	Target string
}

// ResourceConfig declares a resource shape. Empty references mean absent.
type ResourceConfig struct {
	Identifiers          []IdentifierConfig
	Create               string
	Put                  string
	Read                 string
	Update               string
	Delete               string
	List                 string
	Operations           []string
	CollectionOperations []string
	Resources            []string
	Traits               []Trait
}

// ModelBuilder accumulates declarations for a single namespace.
type ModelBuilder struct {
	namespace identity.NamespaceID
	version   string
	uses      []string
	decls     []declaration
	applies   []application
	metadata  []core.Field
	errs      []error
}

// declaration is a shape whose references are resolved at Build time.
type declaration struct {
	id    identity.ShapeID
	build func(r *refs) core.Body
	trait []Trait
}

type application struct {
	target string
	trait  Trait
}

// New returns a builder for namespace ns. An invalid namespace is reported
// by Build.
func New(ns string) *ModelBuilder {
	b := &ModelBuilder{version: core.DefaultVersion}
	namespace, err := identity.NewNamespaceID(ns)
	if err != nil {
		b.errs = append(b.errs, err)
	}
	b.namespace = namespace
	return b
}

// Version sets the model version.
func (b *ModelBuilder) Version(v string) *ModelBuilder {
	b.version = v
	return b
}

// Use imports an absolute shape ID into the namespace.
func (b *ModelBuilder) Use(ref string) *ModelBuilder {
	b.uses = append(b.uses, ref)
	return b
}

// Simple declares a scalar shape.
func (b *ModelBuilder) Simple(name string, t core.SimpleType, traits ...Trait) *ModelBuilder {
	return b.declare(name, traits, func(*refs) core.Body { return core.SimpleBody{Type: t} })
}

// List declares a list shape. An empty member name defaults to "member".
func (b *ModelBuilder) List(name string, cfg ListConfig) *ModelBuilder {
	return b.declare(name, cfg.Traits, func(r *refs) core.Body {
		return core.ListBody{Member: r.member(withName(cfg.Member, "member"))}
	})
}

// Set declares a set shape. An empty member name defaults to "member".
func (b *ModelBuilder) Set(name string, cfg ListConfig) *ModelBuilder {
	return b.declare(name, cfg.Traits, func(r *refs) core.Body {
		return core.SetBody{Member: r.member(withName(cfg.Member, "member"))}
	})
}

// Map declares a map shape. Empty member names default to "key" and "value".
func (b *ModelBuilder) Map(name string, cfg MapConfig) *ModelBuilder {
	return b.declare(name, cfg.Traits, func(r *refs) core.Body {
		return core.MapBody{
			Key:   r.member(withName(cfg.Key, "key")),
			Value: r.member(withName(cfg.Value, "value")),
		}
	})
}

// Structure declares a structure shape.
func (b *ModelBuilder) Structure(name string, cfg StructureConfig) *ModelBuilder {
	return b.declare(name, cfg.Traits, func(r *refs) core.Body {
		return core.StructureBody{Members: r.members(cfg.Members)}
	})
}

// Union declares a union shape.
func (b *ModelBuilder) Union(name string, cfg StructureConfig) *ModelBuilder {
	return b.declare(name, cfg.Traits, func(r *refs) core.Body {
		return core.UnionBody{Members: r.members(cfg.Members)}
	})
}

// Service declares a service shape.
func (b *ModelBuilder) Service(name string, cfg ServiceConfig) *ModelBuilder {
	return b.declare(name, cfg.Traits, func(r *refs) core.Body {
		return core.ServiceBody{
			Version:    cfg.Version,
			Operations: r.list("operation", cfg.Operations),
			Resources:  r.list("resource", cfg.Resources),
		}
	})
}

// Operation declares an operation shape.
func (b *ModelBuilder) Operation(name string, cfg OperationConfig) *ModelBuilder {
	return b.declare(name, cfg.Traits, func(r *refs) core.Body {
		return core.OperationBody{
			Input:  r.optional("input", cfg.Input),
			Output: r.optional("output", cfg.Output),
			Errors: r.list("error", cfg.Errors),
		}
	})
}

// Resource declares a resource shape.
func (b *ModelBuilder) Resource(name string, cfg ResourceConfig) *ModelBuilder {
	return b.declare(name, cfg.Traits, func(r *refs) core.Body {
		body := core.ResourceBody{
			Create:               r.optional("create", cfg.Create),
			Put:                  r.optional("put", cfg.Put),
			Read:                 r.optional("read", cfg.Read),
			Update:               r.optional("update", cfg.Update),
			Delete:               r.optional("delete", cfg.Delete),
			List:                 r.optional("list", cfg.List),
			Operations:           r.list("operation", cfg.Operations),
			CollectionOperations: r.list("collection_operation", cfg.CollectionOperations),
			Resources:            r.list("resource", cfg.Resources),
		}
		for _, ic := range cfg.Identifiers {
			name, err := identity.NewIdentifier(ic.Name)
			if err != nil {
				r.fail(err)
				continue
			}
			body.Identifiers = append(body.Identifiers, core.ResourceIdentifier{
				Name:   name,
				Target: r.resolve("identifier", ic.Target),
			})
		}
		return body
	})
}

// Apply applies a trait to a shape or member declared anywhere, including
// shapes that are never declared.
func (b *ModelBuilder) Apply(target string, trait Trait) *ModelBuilder {
	b.applies = append(b.applies, application{target: target, trait: trait})
	return b
}

// Metadata adds a metadata entry.
func (b *ModelBuilder) Metadata(key string, value core.Value) *ModelBuilder {
	b.metadata = append(b.metadata, core.F(key, value))
	return b
}

func (b *ModelBuilder) declare(name string, traits []Trait, build func(*refs) core.Body) *ModelBuilder {
	id, err := identity.NewIdentifier(name)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.decls = append(b.decls, declaration{
		id:    identity.NewShapeID(b.namespace, id),
		build: build,
		trait: traits,
	})
	return b
}

// Build resolves every reference and returns the model. All declaration,
// resolution and merge errors are returned joined; the model is nil when
// any occurred.
func (b *ModelBuilder) Build() (*core.Model, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}

	// Resolution runs against a skeleton of the declared shapes so that
	// forward references resolve locally.
	skeleton := core.NewModel(b.namespace, b.version)
	m := core.NewModel(b.namespace, b.version)
	var errs []error
	for _, ref := range b.uses {
		id, err := identity.ParseShapeID(ref)
		if err == nil {
			err = errors.Join(skeleton.AddUse(id), m.AddUse(id))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("use %s: %w", ref, err))
		}
	}
	for _, d := range b.decls {
		if !skeleton.HasShape(d.id) {
			_ = skeleton.AddShape(core.NewShape(d.id, nil))
		}
	}

	res := resolver.New(skeleton)
	for _, d := range b.decls {
		r := &refs{resolver: res, source: d.id}
		s := core.NewShape(d.id, d.build(r))
		for _, t := range d.trait {
			if trait, ok := r.trait(t.ID); ok {
				if err := s.ApplyTrait(trait, t.Value); err != nil {
					r.fail(err)
				}
			}
		}
		for _, mem := range s.Members() {
			for _, t := range r.memberTraits[mem.Name] {
				if trait, ok := r.trait(t.ID); ok {
					if err := mem.Traits.Apply(d.id.WithMember(mem.Name), trait, t.Value); err != nil {
						r.fail(err)
					}
				}
			}
		}
		if len(r.errs) > 0 {
			errs = append(errs, r.errs...)
			continue
		}
		if err := m.AddShape(s); err != nil {
			errs = append(errs, err)
		}
	}

	for _, a := range b.applies {
		if err := b.apply(res, m, a); err != nil {
			errs = append(errs, err)
		}
	}
	for _, f := range b.metadata {
		if err := m.AddMetadata(f.Key, f.Value); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return m, nil
}

func (b *ModelBuilder) apply(res *resolver.Resolver, m *core.Model, a application) error {
	ref, err := identity.ParseReference(a.target)
	if err != nil {
		return err
	}
	shape, ok := res.Resolve(ref.ShapeOnly(), false)
	if !ok {
		return &resolver.ResolutionError{Relation: "apply target", Reference: ref}
	}
	target := shape
	if ref.IsMember() {
		target = shape.WithMember(ref.Member())
	}

	r := &refs{resolver: res, source: target}
	trait, ok := r.trait(a.trait.ID)
	if !ok {
		return r.errs[0]
	}
	return m.ApplyTrait(target, trait, a.trait.Value)
}

func withName(mc MemberConfig, name string) MemberConfig {
	if mc.Name == "" {
		mc.Name = name
	}
	return mc
}
