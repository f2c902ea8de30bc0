package jsonast

import (
	"encoding/json"
	"fmt"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
)

// Write encodes m as an indented JSON AST document. Object keys are sorted,
// so equal models produce identical bytes.
func Write(m *core.Model) ([]byte, error) {
	doc, err := ToDocument(m)
	if err != nil {
		return nil, err
	}
	out, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding model document: %w", err)
	}
	return append(out, '\n'), nil
}

// ToDocument converts m into its document form. Placeholder shapes and
// traits held for undeclared members become "apply" entries.
func ToDocument(m *core.Model) (*Document, error) {
	w := &nodeWriter{nodes: make(map[string]*ShapeNode, m.Len())}
	if err := core.Walk(m, w); err != nil {
		return nil, err
	}
	for _, target := range m.PendingTargets() {
		traits, _ := m.PendingTraits(target)
		w.nodes[target.String()] = &ShapeNode{Type: typeApply, Traits: traitsNode(traits)}
	}

	doc := &Document{Smithy: m.Version(), Shapes: w.nodes}
	if keys := m.MetadataKeys(); len(keys) > 0 {
		doc.Metadata = make(map[string]any, len(keys))
		for _, k := range keys {
			v, _ := m.MetadataValue(k)
			doc.Metadata[k] = v.Interface()
		}
	}
	return doc, nil
}

// ShapeNodes returns the JSON encoding of each top-level entry of m's
// document, keyed by shape ID.
func ShapeNodes(m *core.Model) (map[string][]byte, error) {
	doc, err := ToDocument(m)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(doc.Shapes))
	for id, node := range doc.Shapes {
		data, err := json.Marshal(node)
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", id, err)
		}
		out[id] = data
	}
	return out, nil
}

type nodeWriter struct {
	nodes map[string]*ShapeNode
}

func (w *nodeWriter) put(s *core.Shape, node *ShapeNode) error {
	node.Traits = traitsNode(s.Traits())
	w.nodes[s.ID().String()] = node
	return nil
}

func (w *nodeWriter) Unresolved(s *core.Shape) error {
	return w.put(s, &ShapeNode{Type: typeApply})
}

func (w *nodeWriter) Simple(s *core.Shape, b core.SimpleBody) error {
	return w.put(s, &ShapeNode{Type: b.Type.String()})
}

func (w *nodeWriter) List(s *core.Shape, b core.ListBody) error {
	return w.put(s, &ShapeNode{Type: typeList, Member: memberNode(b.Member)})
}

func (w *nodeWriter) Set(s *core.Shape, b core.SetBody) error {
	return w.put(s, &ShapeNode{Type: typeSet, Member: memberNode(b.Member)})
}

func (w *nodeWriter) Map(s *core.Shape, b core.MapBody) error {
	return w.put(s, &ShapeNode{Type: typeMap, Key: memberNode(b.Key), Value: memberNode(b.Value)})
}

func (w *nodeWriter) Structure(s *core.Shape, b core.StructureBody) error {
	return w.put(s, &ShapeNode{Type: typeStructure, Members: membersNode(b.Members)})
}

func (w *nodeWriter) Union(s *core.Shape, b core.UnionBody) error {
	return w.put(s, &ShapeNode{Type: typeUnion, Members: membersNode(b.Members)})
}

func (w *nodeWriter) Service(s *core.Shape, b core.ServiceBody) error {
	return w.put(s, &ShapeNode{
		Type:       typeService,
		Version:    b.Version,
		Operations: targetsNode(b.Operations),
		Resources:  targetsNode(b.Resources),
	})
}

func (w *nodeWriter) Operation(s *core.Shape, b core.OperationBody) error {
	return w.put(s, &ShapeNode{
		Type:   typeOperation,
		Input:  optionalNode(b.Input),
		Output: optionalNode(b.Output),
		Errors: targetsNode(b.Errors),
	})
}

func (w *nodeWriter) Resource(s *core.Shape, b core.ResourceBody) error {
	node := &ShapeNode{
		Type:                 typeResource,
		Create:               optionalNode(b.Create),
		Put:                  optionalNode(b.Put),
		Read:                 optionalNode(b.Read),
		Update:               optionalNode(b.Update),
		Delete:               optionalNode(b.Delete),
		List:                 optionalNode(b.List),
		Operations:           targetsNode(b.Operations),
		CollectionOperations: targetsNode(b.CollectionOperations),
		Resources:            targetsNode(b.Resources),
	}
	if len(b.Identifiers) > 0 {
		node.Identifiers = make(map[string]TargetNode, len(b.Identifiers))
		for _, ri := range b.Identifiers {
			node.Identifiers[string(ri.Name)] = TargetNode{Target: ri.Target.String()}
		}
	}
	return w.put(s, node)
}

func traitsNode(t *core.Traits) map[string]any {
	if t == nil || t.Len() == 0 {
		return nil
	}
	out := make(map[string]any, t.Len())
	t.Each(func(id identity.ShapeID, v core.Value) {
		out[id.String()] = v.Interface()
	})
	return out
}

func memberNode(m *core.Member) *MemberNode {
	if m == nil {
		return nil
	}
	return &MemberNode{Target: m.Target.String(), Traits: traitsNode(&m.Traits)}
}

func membersNode(ms []*core.Member) map[string]*MemberNode {
	if len(ms) == 0 {
		return nil
	}
	out := make(map[string]*MemberNode, len(ms))
	for _, m := range ms {
		out[string(m.Name)] = memberNode(m)
	}
	return out
}

func targetsNode(ids []identity.ShapeID) []TargetNode {
	if len(ids) == 0 {
		return nil
	}
	out := make([]TargetNode, len(ids))
	for i, id := range ids {
		out[i] = TargetNode{Target: id.String()}
	}
	return out
}

func optionalNode(id identity.ShapeID) *TargetNode {
	if id.IsZero() {
		return nil
	}
	return &TargetNode{Target: id.String()}
}
