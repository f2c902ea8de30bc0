package core

import "fmt"

// Visitor receives each top-level shape together with its kind-specific
// payload. Implementations must not mutate the model.
type Visitor interface {
	Unresolved(s *Shape) error
	Simple(s *Shape, b SimpleBody) error
	List(s *Shape, b ListBody) error
	Set(s *Shape, b SetBody) error
	Map(s *Shape, b MapBody) error
	Structure(s *Shape, b StructureBody) error
	Union(s *Shape, b UnionBody) error
	Service(s *Shape, b ServiceBody) error
	Operation(s *Shape, b OperationBody) error
	Resource(s *Shape, b ResourceBody) error
}

// BaseVisitor implements every Visitor method as a no-op. Embed it to
// handle only the kinds you care about.
type BaseVisitor struct{}

func (BaseVisitor) Unresolved(*Shape) error               { return nil }
func (BaseVisitor) Simple(*Shape, SimpleBody) error       { return nil }
func (BaseVisitor) List(*Shape, ListBody) error           { return nil }
func (BaseVisitor) Set(*Shape, SetBody) error             { return nil }
func (BaseVisitor) Map(*Shape, MapBody) error             { return nil }
func (BaseVisitor) Structure(*Shape, StructureBody) error { return nil }
func (BaseVisitor) Union(*Shape, UnionBody) error         { return nil }
func (BaseVisitor) Service(*Shape, ServiceBody) error     { return nil }
func (BaseVisitor) Operation(*Shape, OperationBody) error { return nil }
func (BaseVisitor) Resource(*Shape, ResourceBody) error   { return nil }

// Walk visits every top-level shape in ShapeID order and stops at the first
// error returned by v.
func Walk(m *Model, v Visitor) error {
	for _, s := range m.Shapes() {
		if err := Visit(s, v); err != nil {
			return err
		}
	}
	return nil
}

// Visit dispatches a single shape to the matching Visitor method.
func Visit(s *Shape, v Visitor) error {
	switch b := s.Body().(type) {
	case UnresolvedBody:
		return v.Unresolved(s)
	case SimpleBody:
		return v.Simple(s, b)
	case ListBody:
		return v.List(s, b)
	case SetBody:
		return v.Set(s, b)
	case MapBody:
		return v.Map(s, b)
	case StructureBody:
		return v.Structure(s, b)
	case UnionBody:
		return v.Union(s, b)
	case ServiceBody:
		return v.Service(s, b)
	case OperationBody:
		return v.Operation(s, b)
	case ResourceBody:
		return v.Resource(s, b)
	default:
		return fmt.Errorf("shape %s: unknown body %T", s.ID(), b)
	}
}
