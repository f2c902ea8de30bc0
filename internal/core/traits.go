package core

import (
	"github.com/shapemodel/cli/internal/identity"
)

// Traits is an insertion-ordered table of applied traits keyed by trait ID.
// The zero value is an empty table ready to use.
type Traits struct {
	order  []identity.ShapeID
	values map[identity.ShapeID]Value
}

// Len returns the number of applied traits.
func (t *Traits) Len() int {
	return len(t.order)
}

// Has reports whether the trait is applied.
func (t *Traits) Has(id identity.ShapeID) bool {
	_, ok := t.values[id]
	return ok
}

// Get returns the value of an applied trait.
func (t *Traits) Get(id identity.ShapeID) (Value, bool) {
	v, ok := t.values[id]
	return v, ok
}

// IDs returns the applied trait IDs in insertion order.
func (t *Traits) IDs() []identity.ShapeID {
	out := make([]identity.ShapeID, len(t.order))
	copy(out, t.order)
	return out
}

// Each calls fn for every trait in insertion order.
func (t *Traits) Each(fn func(id identity.ShapeID, v Value)) {
	for _, id := range t.order {
		fn(id, t.values[id])
	}
}

// Apply adds the trait to the table, merging with an existing application
// of the same trait by MergeTraitValue. On error the table is unchanged.
func (t *Traits) Apply(target, trait identity.ShapeID, value Value) error {
	existing, ok := t.values[trait]
	if !ok {
		t.set(trait, value)
		return nil
	}
	merged, err := MergeTraitValue(target, trait, existing, value)
	if err != nil {
		return err
	}
	t.set(trait, merged)
	return nil
}

// Merge folds every trait of other into t. The result is computed on a copy
// and committed only if every trait merges cleanly.
func (t *Traits) Merge(target identity.ShapeID, other *Traits) error {
	next := t.Clone()
	for _, id := range other.order {
		if err := next.Apply(target, id, other.values[id]); err != nil {
			return err
		}
	}
	*t = next
	return nil
}

// Union adds the traits of other that t does not already apply. Traits
// present in both keep the value from t.
func (t *Traits) Union(other *Traits) {
	for _, id := range other.order {
		if !t.Has(id) {
			t.set(id, other.values[id])
		}
	}
}

// Clone returns a deep copy of the table.
func (t *Traits) Clone() Traits {
	if len(t.order) == 0 {
		return Traits{}
	}
	out := Traits{
		order:  make([]identity.ShapeID, len(t.order)),
		values: make(map[identity.ShapeID]Value, len(t.values)),
	}
	copy(out.order, t.order)
	for k, v := range t.values {
		out.values[k] = v
	}
	return out
}

func (t *Traits) set(id identity.ShapeID, v Value) {
	if t.values == nil {
		t.values = make(map[identity.ShapeID]Value)
	}
	if _, ok := t.values[id]; !ok {
		t.order = append(t.order, id)
	}
	t.values[id] = v
}
