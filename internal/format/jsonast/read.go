// Package jsonast reads and writes models in the JSON AST form:
//
//	{
//	  "smithy": "1.0",
//	  "metadata": {"owners": ["team-a"]},
//	  "shapes": {
//	    "example.motd#Date": {"type": "string", "traits": {"smithy.api#pattern": "^\\d+$"}}
//	  }
//	}
//
// YAML documents with the same structure are accepted too.
package jsonast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"sigs.k8s.io/yaml"

	"github.com/shapemodel/cli/internal/core"
	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/identity"
)

// ErrDecode is the kind of every *DecodeError.
var ErrDecode = fmt.Errorf("malformed model document: %w", oerrors.ErrInvalidInput)

// DecodeError reports a document that could not be turned into a model.
type DecodeError struct {
	// Path locates the offending node, e.g. `shapes["ns#A"].members["b"]`.
	Path  string
	Cause error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("decoding model document: %v", e.Cause)
	}
	return fmt.Sprintf("decoding model document at %s: %v", e.Path, e.Cause)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Cause}
}

// Read decodes a JSON or YAML document into a new model. Nothing is returned
// on error, never a partially populated model.
func Read(data []byte) (*core.Model, error) {
	doc, err := decode(data)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

func decode(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &DecodeError{Cause: fmt.Errorf("empty document")}
	}
	if trimmed[0] != '{' {
		converted, err := yaml.YAMLToJSON(trimmed)
		if err != nil {
			return nil, &DecodeError{Cause: err}
		}
		trimmed = converted
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return &doc, nil
}

// FromDocument converts a decoded document into a model. Shapes are added in
// ID order, then "apply" entries, then metadata in key order.
func FromDocument(doc *Document) (*core.Model, error) {
	ids := make([]string, 0, len(doc.Shapes))
	for id := range doc.Shapes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	m := core.NewModel("", doc.Smithy)
	var applies []string
	for _, key := range ids {
		node := doc.Shapes[key]
		path := fmt.Sprintf("shapes[%q]", key)
		if node == nil {
			return nil, &DecodeError{Path: path, Cause: fmt.Errorf("null shape")}
		}
		if node.Type == typeApply {
			applies = append(applies, key)
			continue
		}

		id, err := identity.ParseShapeID(key)
		if err != nil {
			return nil, &DecodeError{Path: path, Cause: err}
		}
		if id.IsMember() {
			return nil, &DecodeError{Path: path, Cause: fmt.Errorf("member ID used as a shape")}
		}
		if m.Namespace() == "" {
			m.SetNamespace(id.Namespace())
		}

		s, err := shapeFromNode(id, node, path)
		if err != nil {
			return nil, err
		}
		if err := m.AddShape(s); err != nil {
			return nil, &DecodeError{Path: path, Cause: err}
		}
	}

	for _, key := range applies {
		path := fmt.Sprintf("shapes[%q]", key)
		target, err := identity.ParseShapeID(key)
		if err != nil {
			return nil, &DecodeError{Path: path, Cause: err}
		}
		if err := eachTrait(doc.Shapes[key].Traits, path, func(trait identity.ShapeID, v core.Value) error {
			return m.ApplyTrait(target, trait, v)
		}); err != nil {
			return nil, err
		}
	}

	keys := make([]string, 0, len(doc.Metadata))
	for k := range doc.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		path := fmt.Sprintf("metadata[%q]", k)
		v, err := core.FromInterface(doc.Metadata[k])
		if err != nil {
			return nil, &DecodeError{Path: path, Cause: err}
		}
		if err := m.AddMetadata(k, v); err != nil {
			return nil, &DecodeError{Path: path, Cause: err}
		}
	}
	return m, nil
}

func shapeFromNode(id identity.ShapeID, node *ShapeNode, path string) (*core.Shape, error) {
	d := &nodeDecoder{path: path}
	var body core.Body
	switch node.Type {
	case typeList:
		body = core.ListBody{Member: d.member(id, "member", node.Member)}
	case typeSet:
		body = core.SetBody{Member: d.member(id, "member", node.Member)}
	case typeMap:
		body = core.MapBody{Key: d.member(id, "key", node.Key), Value: d.member(id, "value", node.Value)}
	case typeStructure:
		body = core.StructureBody{Members: d.members(id, node.Members)}
	case typeUnion:
		body = core.UnionBody{Members: d.members(id, node.Members)}
	case typeService:
		body = core.ServiceBody{
			Version:    node.Version,
			Operations: d.targets("operations", node.Operations),
			Resources:  d.targets("resources", node.Resources),
		}
	case typeOperation:
		body = core.OperationBody{
			Input:  d.optional("input", node.Input),
			Output: d.optional("output", node.Output),
			Errors: d.targets("errors", node.Errors),
		}
	case typeResource:
		body = d.resource(node)
	default:
		t, ok := core.ParseSimpleType(node.Type)
		if !ok {
			return nil, &DecodeError{Path: path + ".type", Cause: fmt.Errorf("unknown shape type %q", node.Type)}
		}
		body = core.SimpleBody{Type: t}
	}
	if d.err != nil {
		return nil, d.err
	}

	s := core.NewShape(id, body)
	if err := eachTrait(node.Traits, path, s.ApplyTrait); err != nil {
		return nil, err
	}
	return s, nil
}

// nodeDecoder keeps the first error met while decoding one shape node.
type nodeDecoder struct {
	path string
	err  error
}

func (d *nodeDecoder) fail(path string, err error) {
	if d.err == nil {
		d.err = &DecodeError{Path: path, Cause: err}
	}
}

func (d *nodeDecoder) target(path, text string) identity.ShapeID {
	id, err := identity.ParseShapeID(text)
	if err != nil {
		d.fail(path, err)
		return identity.ShapeID{}
	}
	return id
}

func (d *nodeDecoder) optional(field string, n *TargetNode) identity.ShapeID {
	if n == nil {
		return identity.ShapeID{}
	}
	return d.target(d.path+"."+field, n.Target)
}

func (d *nodeDecoder) targets(field string, ns []TargetNode) []identity.ShapeID {
	if len(ns) == 0 {
		return nil
	}
	out := make([]identity.ShapeID, len(ns))
	for i, n := range ns {
		out[i] = d.target(fmt.Sprintf("%s.%s[%d]", d.path, field, i), n.Target)
	}
	return out
}

func (d *nodeDecoder) member(owner identity.ShapeID, name string, n *MemberNode) *core.Member {
	path := d.path + "." + name
	if n == nil {
		d.fail(path, fmt.Errorf("missing member %q", name))
		return nil
	}
	return d.memberNamed(owner, identity.Identifier(name), n, path)
}

func (d *nodeDecoder) memberNamed(owner identity.ShapeID, name identity.Identifier, n *MemberNode, path string) *core.Member {
	if n == nil {
		d.fail(path, fmt.Errorf("null member"))
		return nil
	}
	mem := core.NewMember(name, d.target(path+".target", n.Target))
	mid := owner.WithMember(name)
	if err := eachTrait(n.Traits, path, func(trait identity.ShapeID, v core.Value) error {
		return mem.Traits.Apply(mid, trait, v)
	}); err != nil && d.err == nil {
		d.err = err
	}
	return mem
}

// members decodes structure and union members sorted by name, since JSON
// object keys carry no order.
func (d *nodeDecoder) members(owner identity.ShapeID, ns map[string]*MemberNode) []*core.Member {
	names := make([]string, 0, len(ns))
	for name := range ns {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*core.Member, 0, len(names))
	for _, name := range names {
		path := fmt.Sprintf("%s.members[%q]", d.path, name)
		id, err := identity.NewIdentifier(name)
		if err != nil {
			d.fail(path, err)
			continue
		}
		if mem := d.memberNamed(owner, id, ns[name], path); mem != nil {
			out = append(out, mem)
		}
	}
	return out
}

func (d *nodeDecoder) resource(node *ShapeNode) core.ResourceBody {
	body := core.ResourceBody{
		Create:               d.optional("create", node.Create),
		Put:                  d.optional("put", node.Put),
		Read:                 d.optional("read", node.Read),
		Update:               d.optional("update", node.Update),
		Delete:               d.optional("delete", node.Delete),
		List:                 d.optional("list", node.List),
		Operations:           d.targets("operations", node.Operations),
		CollectionOperations: d.targets("collectionOperations", node.CollectionOperations),
		Resources:            d.targets("resources", node.Resources),
	}
	names := make([]string, 0, len(node.Identifiers))
	for name := range node.Identifiers {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		path := fmt.Sprintf("%s.identifiers[%q]", d.path, name)
		id, err := identity.NewIdentifier(name)
		if err != nil {
			d.fail(path, err)
			continue
		}
		body.Identifiers = append(body.Identifiers, core.ResourceIdentifier{
			Name:   id,
			Target: d.target(path, node.Identifiers[name].Target),
		})
	}
	return body
}

// eachTrait decodes a traits object in trait ID order.
func eachTrait(traits map[string]any, path string, fn func(identity.ShapeID, core.Value) error) error {
	keys := make([]string, 0, len(traits))
	for k := range traits {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		tpath := fmt.Sprintf("%s.traits[%q]", path, k)
		trait, err := identity.ParseShapeID(k)
		if err != nil {
			return &DecodeError{Path: tpath, Cause: err}
		}
		v, err := core.FromInterface(traits[k])
		if err != nil {
			return &DecodeError{Path: tpath, Cause: err}
		}
		if err := fn(trait, v); err != nil {
			return &DecodeError{Path: tpath, Cause: err}
		}
	}
	return nil
}
