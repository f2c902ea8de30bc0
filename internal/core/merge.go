package core

import (
	"github.com/shapemodel/cli/internal/identity"
)

// MergeTraitValue combines two values of the same trait applied to the same
// target:
//   - either side None, or both deeply equal: the present value is kept
//   - both arrays: left elements followed by right elements, duplicates kept
//   - anything else: *TraitConflictError
func MergeTraitValue(target, trait identity.ShapeID, left, right Value) (Value, error) {
	switch {
	case right.IsNone():
		return left, nil
	case left.IsNone():
		return right, nil
	case left.Kind() == ArrayValue && right.Kind() == ArrayValue:
		return left.Concat(right), nil
	case left.Equal(right):
		return left, nil
	default:
		return Value{}, &TraitConflictError{Target: target, Trait: trait, Existing: left, Incoming: right}
	}
}

// MergeMetadataValue combines two values for the same metadata key: arrays
// concatenate in order, equal values are idempotent, anything else conflicts.
func MergeMetadataValue(key string, existing, incoming Value) (Value, error) {
	switch {
	case existing.Kind() == ArrayValue && incoming.Kind() == ArrayValue:
		return existing.Concat(incoming), nil
	case existing.Equal(incoming):
		return existing, nil
	default:
		return Value{}, &MetadataConflictError{Key: key, Existing: existing, Incoming: incoming}
	}
}

// mergeShapes returns a new shape combining existing and incoming, or an
// error. Neither argument is modified. When either side is an Unresolved
// placeholder the trait tables are unioned by trait ID, keeping the value
// from existing; two concrete shapes merge traits by MergeTraitValue.
func mergeShapes(existing, incoming *Shape) (*Shape, error) {
	id := existing.id
	ek, ik := existing.Kind(), incoming.Kind()

	var merged *Shape
	switch {
	case ek == KindUnresolved && ik != KindUnresolved:
		merged = incoming.Clone()
		// existing traits come first so the table keeps insertion order
		merged.traits = existing.traits.Clone()
		merged.traits.Union(&incoming.traits)
		return merged, nil
	case ek == KindUnresolved || ik == KindUnresolved:
		merged = existing.Clone()
		merged.traits.Union(&incoming.traits)
		return merged, nil
	}

	if !existing.body.sameStructure(incoming.body) {
		return nil, &ShapeConflictError{
			ShapeID:  id,
			Existing: existing.body.Describe(),
			Incoming: incoming.body.Describe(),
		}
	}
	merged = existing.Clone()
	if err := mergeMemberTraits(merged, incoming); err != nil {
		return nil, err
	}
	if err := merged.traits.Merge(id, &incoming.traits); err != nil {
		return nil, err
	}
	return merged, nil
}

// mergeMemberTraits folds the member traits of incoming into the members of
// merged, which must have the same structure.
func mergeMemberTraits(merged, incoming *Shape) error {
	for _, im := range incoming.Members() {
		m, ok := merged.Member(im.Name)
		if !ok {
			continue
		}
		if err := m.Traits.Merge(merged.id.WithMember(m.Name), &im.Traits); err != nil {
			return err
		}
	}
	return nil
}
