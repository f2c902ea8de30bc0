package selector

import (
	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
	"github.com/shapemodel/cli/internal/prelude"
)

// Evaluate runs the selector over every shape of m and returns the final
// projection. Evaluation never fails: unmatched or missing data simply
// drops out of the projection.
func Evaluate(m *core.Model, s *Selector) Projection {
	ev := newEvaluator(m)
	return ev.run(s, ev.root)
}

// EvaluateFrom runs the selector starting from an explicit projection.
func EvaluateFrom(m *core.Model, s *Selector, start Projection) Projection {
	return newEvaluator(m).run(s, start)
}

// MatchShapeType reports whether a top-level shape satisfies t. It is total
// over every shape kind; Member never matches a top-level shape.
func MatchShapeType(t ShapeType, s *core.Shape) bool {
	if t == All {
		return true
	}
	simple, isSimple := s.SimpleType()
	switch t {
	case Member:
		return false
	case Number:
		return isSimple && simple.IsNumber()
	case SimpleType:
		return isSimple
	case Collection:
		k := s.Kind()
		return k == core.KindList || k == core.KindSet || k == core.KindMap
	case List:
		return s.Kind() == core.KindList
	case Set:
		return s.Kind() == core.KindSet
	case Map:
		return s.Kind() == core.KindMap
	case Structure:
		return s.Kind() == core.KindStructure
	case Union:
		return s.Kind() == core.KindUnion
	case Service:
		return s.Kind() == core.KindService
	case Operation:
		return s.Kind() == core.KindOperation
	case Resource:
		return s.Kind() == core.KindResource
	}
	if want, ok := simpleTypeOf[t]; ok {
		return isSimple && simple == want
	}
	return false
}

var simpleTypeOf = map[ShapeType]core.SimpleType{
	Blob:       core.Blob,
	Boolean:    core.Boolean,
	Document:   core.Document,
	String:     core.StringType,
	Byte:       core.Byte,
	Short:      core.Short,
	Integer:    core.Integer,
	Long:       core.Long,
	Float:      core.Float,
	Double:     core.Double,
	BigInteger: core.BigInteger,
	BigDecimal: core.BigDecimal,
	Timestamp:  core.Timestamp,
}

type evaluator struct {
	model   *core.Model
	root    Projection
	vars    map[string]Projection
	reverse map[identity.ShapeID][]edge
}

func newEvaluator(m *core.Model) *evaluator {
	return &evaluator{
		model: m,
		root:  AllShapes(m),
		vars:  make(map[string]Projection),
	}
}

// shape looks a top-level shape up in the model, then the prelude.
func (c *evaluator) shape(id identity.ShapeID) (*core.Shape, bool) {
	if s, ok := c.model.Shape(id); ok {
		return s, true
	}
	if id.Namespace() == prelude.Namespace {
		return prelude.Model().Shape(id)
	}
	return nil, false
}

func (c *evaluator) member(id identity.ShapeID) (*core.Member, bool) {
	s, ok := c.shape(id.ShapeOnly())
	if !ok || !id.IsMember() {
		return nil, false
	}
	return s.Member(id.Member())
}

func (c *evaluator) traits(id identity.ShapeID) (*core.Traits, bool) {
	if id.IsMember() {
		m, ok := c.member(id)
		if !ok {
			return nil, false
		}
		return &m.Traits, true
	}
	s, ok := c.shape(id)
	if !ok {
		return nil, false
	}
	return s.Traits(), true
}

func (c *evaluator) run(s *Selector, in Projection) Projection {
	p := in
	for _, e := range s.Expressions {
		p = c.apply(e, p)
	}
	return p
}

func (c *evaluator) apply(e Expression, in Projection) Projection {
	switch e := e.(type) {
	case ShapeTypeExpr:
		membersOnly := in.IsMembers()
		return in.Filter(func(id identity.ShapeID) bool { return c.matchType(e.Type, id, membersOnly) })
	case AttributeExpr:
		return in.Filter(func(id identity.ShapeID) bool { return c.matchAttribute(e, id) })
	case ScopedAttributeExpr:
		return in.Filter(func(id identity.ShapeID) bool { return c.matchScoped(e, id) })
	case NeighborExpr:
		return c.neighbors(e, in)
	case FunctionExpr:
		return c.function(e, in)
	case VariableDefinition:
		c.vars[e.Name] = c.run(e.Selector, in)
		return in
	case VariableReference:
		if p, ok := c.vars[e.Name]; ok {
			return p
		}
		return NewProjection()
	default:
		return NewProjection()
	}
}

// matchType applies a shape type predicate to a projection entry. In a
// projection of members only, every member its owning shape declares is
// kept. When shapes and members are mixed, members only satisfy All and
// Member.
func (c *evaluator) matchType(t ShapeType, id identity.ShapeID, membersOnly bool) bool {
	if id.IsMember() {
		if !membersOnly && t != All && t != Member {
			return false
		}
		_, ok := c.member(id)
		return ok
	}
	s, ok := c.shape(id)
	if !ok {
		return false
	}
	return MatchShapeType(t, s)
}

func (c *evaluator) function(e FunctionExpr, in Projection) Projection {
	switch e.Name {
	case "is":
		out := NewProjection()
		for _, arg := range e.Args {
			out = out.Union(c.run(arg, in))
		}
		return out
	case "not":
		return in.Filter(func(id identity.ShapeID) bool { return !c.anyMatch(e.Args, id) })
	case "test":
		return in.Filter(func(id identity.ShapeID) bool { return c.anyMatch(e.Args, id) })
	case "in":
		if len(e.Args) != 1 {
			return NewProjection()
		}
		return in.Intersect(c.run(e.Args[0], c.root))
	case "root":
		if len(e.Args) != 1 {
			return NewProjection()
		}
		return c.run(e.Args[0], c.root)
	default:
		return NewProjection()
	}
}

// anyMatch reports whether any selector yields a non-empty projection when
// applied to id alone.
func (c *evaluator) anyMatch(args []*Selector, id identity.ShapeID) bool {
	single := NewProjection(id)
	for _, arg := range args {
		if !c.run(arg, single).IsEmpty() {
			return true
		}
	}
	return false
}
