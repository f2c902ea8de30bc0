package core

import (
	"fmt"
	"slices"
	"sort"

	"github.com/shapemodel/cli/internal/identity"
)

// DefaultVersion is the model version used when none is set.
const DefaultVersion = "1.0"

// Model is the shape store: a version tag, a default namespace, use imports,
// top-level shapes keyed by absolute ShapeID, traits applied to members that
// are not declared yet, and metadata.
//
// A Model is owned by a single writer while it is assembled. Once assembly
// finishes it may be read concurrently as long as nothing mutates it.
type Model struct {
	version   string
	namespace identity.NamespaceID
	uses      []identity.ShapeID
	shapes    map[identity.ShapeID]*Shape
	pending   map[identity.ShapeID]*Traits
	metadata  map[string]Value
}

// NewModel returns an empty model. An empty version selects DefaultVersion.
func NewModel(namespace identity.NamespaceID, version string) *Model {
	if version == "" {
		version = DefaultVersion
	}
	return &Model{
		version:   version,
		namespace: namespace,
		shapes:    make(map[identity.ShapeID]*Shape),
		pending:   make(map[identity.ShapeID]*Traits),
		metadata:  make(map[string]Value),
	}
}

// Namespace returns the model's default namespace.
func (m *Model) Namespace() identity.NamespaceID { return m.namespace }

// SetNamespace replaces the default namespace.
func (m *Model) SetNamespace(ns identity.NamespaceID) { m.namespace = ns }

// Version returns the model version tag.
func (m *Model) Version() string { return m.version }

// SetVersion replaces the version tag.
func (m *Model) SetVersion(v string) { m.version = v }

// Uses returns the use imports sorted by ShapeID.
func (m *Model) Uses() []identity.ShapeID {
	return slices.Clone(m.uses)
}

// AddUse brings an absolute shape ID into scope for relative resolution.
// Adding the same import twice is a no-op.
func (m *Model) AddUse(id identity.ShapeID) error {
	if !id.IsAbsolute() || id.IsMember() {
		return invalidShapeID(id)
	}
	i, found := slices.BinarySearchFunc(m.uses, id, identity.Compare)
	if found {
		return nil
	}
	m.uses = slices.Insert(m.uses, i, id)
	return nil
}

// Len returns the number of top-level shapes.
func (m *Model) Len() int { return len(m.shapes) }

// HasShape reports whether a top-level shape with the ID exists. Member IDs
// are looked up on their owning shape.
func (m *Model) HasShape(id identity.ShapeID) bool {
	if id.IsMember() {
		_, ok := m.Member(id)
		return ok
	}
	_, ok := m.shapes[id]
	return ok
}

// Shape returns the top-level shape with the ID.
func (m *Model) Shape(id identity.ShapeID) (*Shape, bool) {
	s, ok := m.shapes[id.ShapeOnly()]
	return s, ok
}

// Member returns the member named by a member ID.
func (m *Model) Member(id identity.ShapeID) (*Member, bool) {
	if !id.IsMember() {
		return nil, false
	}
	s, ok := m.shapes[id.ShapeOnly()]
	if !ok {
		return nil, false
	}
	return s.Member(id.Member())
}

// TraitsOf returns the trait table of a shape or member ID.
func (m *Model) TraitsOf(id identity.ShapeID) (*Traits, bool) {
	if id.IsMember() {
		mem, ok := m.Member(id)
		if !ok {
			return nil, false
		}
		return &mem.Traits, true
	}
	s, ok := m.shapes[id]
	if !ok {
		return nil, false
	}
	return s.Traits(), true
}

// ShapeIDs returns every top-level shape ID in sorted order.
func (m *Model) ShapeIDs() []identity.ShapeID {
	ids := make([]identity.ShapeID, 0, len(m.shapes))
	for id := range m.shapes {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, identity.Compare)
	return ids
}

// Shapes returns every top-level shape sorted by ID.
func (m *Model) Shapes() []*Shape {
	ids := m.ShapeIDs()
	out := make([]*Shape, len(ids))
	for i, id := range ids {
		out[i] = m.shapes[id]
	}
	return out
}

// AddShape inserts a top-level shape, merging it with an existing shape of
// the same ID. Traits previously applied to its members are folded in.
// On error the model is unchanged.
func (m *Model) AddShape(s *Shape) error {
	id := s.ID()
	if !id.IsAbsolute() || id.IsMember() {
		return invalidShapeID(id)
	}

	merged := s.Clone()
	if existing, ok := m.shapes[id]; ok {
		var err error
		if merged, err = mergeShapes(existing, s); err != nil {
			return err
		}
	}

	var consumed []identity.ShapeID
	for _, mem := range merged.Members() {
		mid := id.WithMember(mem.Name)
		p, ok := m.pending[mid]
		if !ok {
			continue
		}
		if err := mem.Traits.Merge(mid, p); err != nil {
			return err
		}
		consumed = append(consumed, mid)
	}

	m.shapes[id] = merged
	for _, mid := range consumed {
		delete(m.pending, mid)
	}
	return nil
}

// ApplyTrait applies a trait to a shape or member. An absent top-level
// target becomes an Unresolved placeholder; an absent member target is held
// until its owning shape declares the member. On error the model is
// unchanged.
func (m *Model) ApplyTrait(target, trait identity.ShapeID, value Value) error {
	if !target.IsAbsolute() {
		return invalidShapeID(target)
	}
	if !trait.IsAbsolute() || trait.IsMember() {
		return invalidShapeID(trait)
	}

	if target.IsMember() {
		if mem, ok := m.Member(target); ok {
			return mem.Traits.Apply(target, trait, value)
		}
		p, ok := m.pending[target]
		if !ok {
			p = &Traits{}
		}
		if err := p.Apply(target, trait, value); err != nil {
			return err
		}
		m.pending[target] = p
		return nil
	}

	s, ok := m.shapes[target]
	if !ok {
		placeholder := NewShape(target, nil)
		if err := placeholder.ApplyTrait(trait, value); err != nil {
			return err
		}
		m.shapes[target] = placeholder
		return nil
	}
	return s.ApplyTrait(trait, value)
}

// PendingTargets returns member IDs that carry applied traits but are not
// declared by any shape, sorted.
func (m *Model) PendingTargets() []identity.ShapeID {
	ids := make([]identity.ShapeID, 0, len(m.pending))
	for id := range m.pending {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, identity.Compare)
	return ids
}

// PendingTraits returns the traits held for an undeclared member.
func (m *Model) PendingTraits(id identity.ShapeID) (*Traits, bool) {
	t, ok := m.pending[id]
	return t, ok
}

// AddMetadata stores a metadata value. A second value for the same key is
// combined by MergeMetadataValue; on conflict the prior value is kept.
func (m *Model) AddMetadata(key string, value Value) error {
	existing, ok := m.metadata[key]
	if !ok {
		m.metadata[key] = value
		return nil
	}
	merged, err := MergeMetadataValue(key, existing, value)
	if err != nil {
		return err
	}
	m.metadata[key] = merged
	return nil
}

// MetadataValue returns the value stored under key.
func (m *Model) MetadataValue(key string) (Value, bool) {
	v, ok := m.metadata[key]
	return v, ok
}

// MetadataKeys returns every metadata key, sorted.
func (m *Model) MetadataKeys() []string {
	keys := make([]string, 0, len(m.metadata))
	for k := range m.metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge folds other into m: shapes in ID order, then pending member traits,
// then use imports, then metadata in key order. The first failure stops the
// merge and is returned as a *MergeError; m may then hold part of other and
// should be discarded.
func (m *Model) Merge(other *Model) error {
	for _, id := range other.ShapeIDs() {
		if err := m.AddShape(other.shapes[id]); err != nil {
			return &MergeError{Entry: fmt.Sprintf("shape %s", id), Cause: err}
		}
	}
	for _, target := range other.PendingTargets() {
		var err error
		other.pending[target].Each(func(trait identity.ShapeID, v Value) {
			if err == nil {
				err = m.ApplyTrait(target, trait, v)
			}
		})
		if err != nil {
			return &MergeError{Entry: fmt.Sprintf("trait on %s", target), Cause: err}
		}
	}
	for _, id := range other.uses {
		if err := m.AddUse(id); err != nil {
			return &MergeError{Entry: fmt.Sprintf("use %s", id), Cause: err}
		}
	}
	for _, key := range other.MetadataKeys() {
		if err := m.AddMetadata(key, other.metadata[key]); err != nil {
			return &MergeError{Entry: fmt.Sprintf("metadata %q", key), Cause: err}
		}
	}
	if m.namespace == "" {
		m.namespace = other.namespace
	}
	return nil
}
