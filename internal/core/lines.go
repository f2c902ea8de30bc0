package core

import (
	"sort"
	"strings"

	"github.com/shapemodel/cli/internal/identity"
)

// Lines renders the model's shapes in a canonical, sorted, line-oriented
// form used for golden-file comparisons. Each line is one fact:
//
//	structure::ns#Name
//	structure::ns#Name::member::field=>ns#Target
//	structure::ns#Name::member::field::trait::smithy.api#required
//	string::ns#Name::trait::smithy.api#pattern<="^[a-z]+$"
//	operation::ns#Op::input=>ns#Input
func Lines(m *Model) []string {
	w := &lineWriter{}
	for _, s := range m.Shapes() {
		_ = Visit(s, w)
	}
	sort.Strings(w.lines)
	return w.lines
}

type lineWriter struct {
	lines []string
}

func (w *lineWriter) add(parts ...string) {
	w.lines = append(w.lines, strings.Join(parts, "::"))
}

func (w *lineWriter) shape(s *Shape) string {
	prefix := s.TypeName() + "::" + s.ID().String()
	w.lines = append(w.lines, prefix)
	w.traits(prefix, s.Traits())
	return prefix
}

func (w *lineWriter) traits(prefix string, t *Traits) {
	t.Each(func(id identity.ShapeID, v Value) {
		line := prefix + "::trait::" + id.String()
		if !v.IsNone() {
			line += "<=" + v.Describe()
		}
		w.lines = append(w.lines, line)
	})
}

func (w *lineWriter) members(prefix string, ms ...*Member) {
	for _, m := range ms {
		if m == nil {
			continue
		}
		mp := prefix + "::member::" + string(m.Name)
		w.lines = append(w.lines, mp+"=>"+m.Target.String())
		w.traits(mp, &m.Traits)
	}
}

func (w *lineWriter) ref(prefix, rel string, id identity.ShapeID) {
	if !id.IsZero() {
		w.add(prefix, rel+"=>"+id.String())
	}
}

func (w *lineWriter) refs(prefix, rel string, ids []identity.ShapeID) {
	for _, id := range ids {
		w.ref(prefix, rel, id)
	}
}

func (w *lineWriter) Unresolved(s *Shape) error {
	w.shape(s)
	return nil
}

func (w *lineWriter) Simple(s *Shape, _ SimpleBody) error {
	w.shape(s)
	return nil
}

func (w *lineWriter) List(s *Shape, b ListBody) error {
	w.members(w.shape(s), b.Member)
	return nil
}

func (w *lineWriter) Set(s *Shape, b SetBody) error {
	w.members(w.shape(s), b.Member)
	return nil
}

func (w *lineWriter) Map(s *Shape, b MapBody) error {
	w.members(w.shape(s), b.Key, b.Value)
	return nil
}

func (w *lineWriter) Structure(s *Shape, b StructureBody) error {
	w.members(w.shape(s), b.Members...)
	return nil
}

func (w *lineWriter) Union(s *Shape, b UnionBody) error {
	w.members(w.shape(s), b.Members...)
	return nil
}

func (w *lineWriter) Service(s *Shape, b ServiceBody) error {
	p := w.shape(s)
	if b.Version != "" {
		w.add(p, "version="+b.Version)
	}
	w.refs(p, "operation", b.Operations)
	w.refs(p, "resource", b.Resources)
	return nil
}

func (w *lineWriter) Operation(s *Shape, b OperationBody) error {
	p := w.shape(s)
	w.ref(p, "input", b.Input)
	w.ref(p, "output", b.Output)
	w.refs(p, "error", b.Errors)
	return nil
}

func (w *lineWriter) Resource(s *Shape, b ResourceBody) error {
	p := w.shape(s)
	for _, ri := range b.Identifiers {
		w.add(p, "identifier", string(ri.Name)+"=>"+ri.Target.String())
	}
	w.ref(p, "create", b.Create)
	w.ref(p, "put", b.Put)
	w.ref(p, "read", b.Read)
	w.ref(p, "update", b.Update)
	w.ref(p, "delete", b.Delete)
	w.ref(p, "list", b.List)
	w.refs(p, "operation", b.Operations)
	w.refs(p, "collection_operation", b.CollectionOperations)
	w.refs(p, "resource", b.Resources)
	return nil
}
