package selector

import (
	"slices"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
)

// Relationship names understood by neighbor expressions.
const (
	RelMember              = "member"
	RelTarget              = "target"
	RelInput               = "input"
	RelOutput              = "output"
	RelError               = "error"
	RelOperation           = "operation"
	RelResource            = "resource"
	RelIdentifier          = "identifier"
	RelCreate              = "create"
	RelPut                 = "put"
	RelRead                = "read"
	RelUpdate              = "update"
	RelDelete              = "delete"
	RelList                = "list"
	RelCollectionOperation = "collectionOperation"
)

// Relationships lists every relationship name.
var Relationships = []string{
	RelMember, RelTarget, RelInput, RelOutput, RelError, RelOperation, RelResource,
	RelIdentifier, RelCreate, RelPut, RelRead, RelUpdate, RelDelete, RelList,
	RelCollectionOperation,
}

type edge struct {
	to  identity.ShapeID
	rel string
}

func (c *evaluator) neighbors(e NeighborExpr, in Projection) Projection {
	out := NewProjection()
	if e.Recursive {
		for _, id := range in.IDs() {
			c.closure(id, out)
		}
		return out
	}
	for _, id := range in.IDs() {
		var edges []edge
		if e.Direction == Forward {
			edges = c.forward(id)
		} else {
			edges = c.reverseEdges(id)
		}
		for _, ed := range edges {
			if len(e.Relationships) == 0 || slices.Contains(e.Relationships, ed.rel) {
				out.add(ed.to)
			}
		}
	}
	return out
}

// closure adds everything reachable from id through forward edges.
func (c *evaluator) closure(id identity.ShapeID, out Projection) {
	queue := []identity.ShapeID{id}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		for _, ed := range c.forward(next) {
			if out.Contains(ed.to) {
				continue
			}
			out.add(ed.to)
			queue = append(queue, ed.to)
		}
	}
}

// forward returns the outgoing edges of a shape or member. Targets that are
// neither in the model nor the prelude are skipped.
func (c *evaluator) forward(id identity.ShapeID) []edge {
	var edges []edge
	add := func(rel string, to identity.ShapeID) {
		if to.IsZero() {
			return
		}
		if _, ok := c.shape(to.ShapeOnly()); ok {
			edges = append(edges, edge{to: to, rel: rel})
		}
	}
	addAll := func(rel string, ids []identity.ShapeID) {
		for _, to := range ids {
			add(rel, to)
		}
	}

	if id.IsMember() {
		if m, ok := c.member(id); ok {
			add(RelTarget, m.Target)
		}
		return edges
	}

	s, ok := c.shape(id)
	if !ok {
		return nil
	}
	for _, m := range s.Members() {
		edges = append(edges, edge{to: id.WithMember(m.Name), rel: RelMember})
	}
	switch b := s.Body().(type) {
	case core.OperationBody:
		add(RelInput, b.Input)
		add(RelOutput, b.Output)
		addAll(RelError, b.Errors)
	case core.ServiceBody:
		addAll(RelOperation, b.Operations)
		addAll(RelResource, b.Resources)
	case core.ResourceBody:
		for _, ri := range b.Identifiers {
			add(RelIdentifier, ri.Target)
		}
		add(RelCreate, b.Create)
		add(RelPut, b.Put)
		add(RelRead, b.Read)
		add(RelUpdate, b.Update)
		add(RelDelete, b.Delete)
		add(RelList, b.List)
		addAll(RelOperation, b.Operations)
		addAll(RelCollectionOperation, b.CollectionOperations)
		addAll(RelResource, b.Resources)
	}
	return edges
}

// reverseEdges returns the incoming edges of id, built once per evaluation
// from every shape and member of the model.
func (c *evaluator) reverseEdges(id identity.ShapeID) []edge {
	if c.reverse == nil {
		c.reverse = make(map[identity.ShapeID][]edge)
		for _, from := range c.model.ShapeIDs() {
			c.index(from)
			s, _ := c.model.Shape(from)
			for _, m := range s.Members() {
				c.index(from.WithMember(m.Name))
			}
		}
	}
	return c.reverse[id]
}

func (c *evaluator) index(from identity.ShapeID) {
	for _, ed := range c.forward(from) {
		c.reverse[ed.to] = append(c.reverse[ed.to], edge{to: from, rel: ed.rel})
	}
}
