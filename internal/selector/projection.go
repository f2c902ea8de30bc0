package selector

import (
	"slices"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
)

// Projection is a set of top-level shape IDs and member IDs. The zero value
// is the empty projection.
type Projection struct {
	ids map[identity.ShapeID]struct{}
}

// NewProjection returns a projection holding ids.
func NewProjection(ids ...identity.ShapeID) Projection {
	p := Projection{ids: make(map[identity.ShapeID]struct{}, len(ids))}
	for _, id := range ids {
		p.ids[id] = struct{}{}
	}
	return p
}

// AllShapes returns the projection over every top-level shape of m.
func AllShapes(m *core.Model) Projection {
	return NewProjection(m.ShapeIDs()...)
}

// Len returns the number of entries.
func (p Projection) Len() int { return len(p.ids) }

// IsEmpty reports whether the projection holds nothing.
func (p Projection) IsEmpty() bool { return len(p.ids) == 0 }

// IsMembers reports whether the projection is non-empty and holds only
// member IDs.
func (p Projection) IsMembers() bool {
	if len(p.ids) == 0 {
		return false
	}
	for id := range p.ids {
		if !id.IsMember() {
			return false
		}
	}
	return true
}

// Contains reports whether id is in the projection.
func (p Projection) Contains(id identity.ShapeID) bool {
	_, ok := p.ids[id]
	return ok
}

// IDs returns every entry sorted; members sort directly after their shape.
func (p Projection) IDs() []identity.ShapeID {
	out := make([]identity.ShapeID, 0, len(p.ids))
	for id := range p.ids {
		out = append(out, id)
	}
	slices.SortFunc(out, identity.Compare)
	return out
}

// Shapes returns the top-level shape IDs, sorted.
func (p Projection) Shapes() []identity.ShapeID {
	return slices.DeleteFunc(p.IDs(), identity.ShapeID.IsMember)
}

// Members returns the member IDs, sorted.
func (p Projection) Members() []identity.ShapeID {
	return slices.DeleteFunc(p.IDs(), func(id identity.ShapeID) bool { return !id.IsMember() })
}

// Union returns the entries in p or o.
func (p Projection) Union(o Projection) Projection {
	out := NewProjection()
	for id := range p.ids {
		out.ids[id] = struct{}{}
	}
	for id := range o.ids {
		out.ids[id] = struct{}{}
	}
	return out
}

// Intersect returns the entries in both p and o.
func (p Projection) Intersect(o Projection) Projection {
	return p.Filter(o.Contains)
}

// Difference returns the entries in p but not in o.
func (p Projection) Difference(o Projection) Projection {
	return p.Filter(func(id identity.ShapeID) bool { return !o.Contains(id) })
}

// Filter returns the entries for which keep returns true.
func (p Projection) Filter(keep func(identity.ShapeID) bool) Projection {
	out := NewProjection()
	for id := range p.ids {
		if keep(id) {
			out.ids[id] = struct{}{}
		}
	}
	return out
}

// Equal reports whether both projections hold the same entries.
func (p Projection) Equal(o Projection) bool {
	if len(p.ids) != len(o.ids) {
		return false
	}
	for id := range p.ids {
		if !o.Contains(id) {
			return false
		}
	}
	return true
}

func (p Projection) add(id identity.ShapeID) {
	p.ids[id] = struct{}{}
}
