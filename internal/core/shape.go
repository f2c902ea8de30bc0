package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shapemodel/cli/internal/identity"
)

// ShapeKind is the top-level discriminant of a shape.
type ShapeKind int

const (
	KindUnresolved ShapeKind = iota
	KindSimple
	KindList
	KindSet
	KindMap
	KindStructure
	KindUnion
	KindService
	KindOperation
	KindResource
)

// String returns the IDL keyword for the kind.
func (k ShapeKind) String() string {
	switch k {
	case KindUnresolved:
		return "unresolved"
	case KindSimple:
		return "simple"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindStructure:
		return "structure"
	case KindUnion:
		return "union"
	case KindService:
		return "service"
	case KindOperation:
		return "operation"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

// SimpleType enumerates the scalar shape types.
type SimpleType int

const (
	Blob SimpleType = iota
	Boolean
	Document
	StringType
	Byte
	Short
	Integer
	Long
	Float
	Double
	BigInteger
	BigDecimal
	Timestamp
)

// SimpleTypes lists every simple type in declaration order.
var SimpleTypes = []SimpleType{
	Blob, Boolean, Document, StringType, Byte, Short, Integer, Long,
	Float, Double, BigInteger, BigDecimal, Timestamp,
}

var simpleTypeNames = map[SimpleType]string{
	Blob:       "blob",
	Boolean:    "boolean",
	Document:   "document",
	StringType: "string",
	Byte:       "byte",
	Short:      "short",
	Integer:    "integer",
	Long:       "long",
	Float:      "float",
	Double:     "double",
	BigInteger: "bigInteger",
	BigDecimal: "bigDecimal",
	Timestamp:  "timestamp",
}

// String returns the IDL keyword for the simple type.
func (s SimpleType) String() string {
	if n, ok := simpleTypeNames[s]; ok {
		return n
	}
	return "unknown"
}

// IsNumber reports whether the simple type is numeric.
func (s SimpleType) IsNumber() bool {
	switch s {
	case Byte, Short, Integer, Long, Float, Double, BigInteger, BigDecimal:
		return true
	default:
		return false
	}
}

// ParseSimpleType looks up a simple type by its IDL keyword.
func ParseSimpleType(name string) (SimpleType, bool) {
	for t, n := range simpleTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Member is a named, targeted member of an aggregate shape.
type Member struct {
	Name   identity.Identifier
	Target identity.ShapeID
	Traits Traits
}

// NewMember returns a member with no traits.
func NewMember(name identity.Identifier, target identity.ShapeID) *Member {
	return &Member{Name: name, Target: target}
}

func (m *Member) clone() *Member {
	return &Member{Name: m.Name, Target: m.Target, Traits: m.Traits.Clone()}
}

// Body is the kind-specific payload of a shape. The set of implementations
// is closed: SimpleBody, ListBody, SetBody, MapBody, StructureBody,
// UnionBody, ServiceBody, OperationBody, ResourceBody and UnresolvedBody.
type Body interface {
	Kind() ShapeKind
	// Describe renders the structural payload for conflict diagnostics.
	Describe() string

	sameStructure(other Body) bool
	clone() Body
}

// UnresolvedBody is the placeholder payload of a shape that has only been
// referenced by applied traits.
type UnresolvedBody struct{}

func (UnresolvedBody) Kind() ShapeKind  { return KindUnresolved }
func (UnresolvedBody) Describe() string { return "unresolved" }
func (b UnresolvedBody) clone() Body    { return b }
func (UnresolvedBody) sameStructure(o Body) bool {
	_, ok := o.(UnresolvedBody)
	return ok
}

// SimpleBody is the payload of a scalar shape.
type SimpleBody struct {
	Type SimpleType
}

func (SimpleBody) Kind() ShapeKind    { return KindSimple }
func (b SimpleBody) Describe() string { return b.Type.String() }
func (b SimpleBody) clone() Body      { return b }
func (b SimpleBody) sameStructure(o Body) bool {
	ob, ok := o.(SimpleBody)
	return ok && ob.Type == b.Type
}

// ListBody is the payload of a list shape.
type ListBody struct {
	Member *Member
}

func (ListBody) Kind() ShapeKind    { return KindList }
func (b ListBody) Describe() string { return "list member=>" + targetOf(b.Member) }
func (b ListBody) clone() Body      { return ListBody{Member: cloneMember(b.Member)} }
func (b ListBody) sameStructure(o Body) bool {
	ob, ok := o.(ListBody)
	return ok && sameMember(b.Member, ob.Member)
}

// SetBody is the payload of a set shape.
type SetBody struct {
	Member *Member
}

func (SetBody) Kind() ShapeKind    { return KindSet }
func (b SetBody) Describe() string { return "set member=>" + targetOf(b.Member) }
func (b SetBody) clone() Body      { return SetBody{Member: cloneMember(b.Member)} }
func (b SetBody) sameStructure(o Body) bool {
	ob, ok := o.(SetBody)
	return ok && sameMember(b.Member, ob.Member)
}

// MapBody is the payload of a map shape.
type MapBody struct {
	Key   *Member
	Value *Member
}

func (MapBody) Kind() ShapeKind { return KindMap }
func (b MapBody) Describe() string {
	return "map key=>" + targetOf(b.Key) + " value=>" + targetOf(b.Value)
}
func (b MapBody) clone() Body { return MapBody{Key: cloneMember(b.Key), Value: cloneMember(b.Value)} }
func (b MapBody) sameStructure(o Body) bool {
	ob, ok := o.(MapBody)
	return ok && sameMember(b.Key, ob.Key) && sameMember(b.Value, ob.Value)
}

// StructureBody is the payload of a structure shape.
type StructureBody struct {
	Members []*Member
}

func (StructureBody) Kind() ShapeKind    { return KindStructure }
func (b StructureBody) Describe() string { return "structure " + describeMembers(b.Members) }
func (b StructureBody) clone() Body      { return StructureBody{Members: cloneMembers(b.Members)} }
func (b StructureBody) sameStructure(o Body) bool {
	ob, ok := o.(StructureBody)
	return ok && sameMembers(b.Members, ob.Members)
}

// UnionBody is the payload of a union shape.
type UnionBody struct {
	Members []*Member
}

func (UnionBody) Kind() ShapeKind    { return KindUnion }
func (b UnionBody) Describe() string { return "union " + describeMembers(b.Members) }
func (b UnionBody) clone() Body      { return UnionBody{Members: cloneMembers(b.Members)} }
func (b UnionBody) sameStructure(o Body) bool {
	ob, ok := o.(UnionBody)
	return ok && sameMembers(b.Members, ob.Members)
}

// ServiceBody is the payload of a service shape.
type ServiceBody struct {
	Version    string
	Operations []identity.ShapeID
	Resources  []identity.ShapeID
}

func (ServiceBody) Kind() ShapeKind { return KindService }
func (b ServiceBody) Describe() string {
	return fmt.Sprintf("service version=%s operations=%s resources=%s",
		b.Version, describeIDs(b.Operations), describeIDs(b.Resources))
}
func (b ServiceBody) clone() Body {
	return ServiceBody{Version: b.Version, Operations: cloneIDs(b.Operations), Resources: cloneIDs(b.Resources)}
}
func (b ServiceBody) sameStructure(o Body) bool {
	ob, ok := o.(ServiceBody)
	return ok && b.Version == ob.Version &&
		sameIDSet(b.Operations, ob.Operations) && sameIDSet(b.Resources, ob.Resources)
}

// OperationBody is the payload of an operation shape. Zero IDs mean absent.
type OperationBody struct {
	Input  identity.ShapeID
	Output identity.ShapeID
	Errors []identity.ShapeID
}

func (OperationBody) Kind() ShapeKind { return KindOperation }
func (b OperationBody) Describe() string {
	return fmt.Sprintf("operation input=%s output=%s errors=%s",
		optID(b.Input), optID(b.Output), describeIDs(b.Errors))
}
func (b OperationBody) clone() Body {
	return OperationBody{Input: b.Input, Output: b.Output, Errors: cloneIDs(b.Errors)}
}
func (b OperationBody) sameStructure(o Body) bool {
	ob, ok := o.(OperationBody)
	return ok && b.Input == ob.Input && b.Output == ob.Output && sameIDSet(b.Errors, ob.Errors)
}

// ResourceIdentifier binds a resource identifier name to its target shape.
type ResourceIdentifier struct {
	Name   identity.Identifier
	Target identity.ShapeID
}

// ResourceBody is the payload of a resource shape. Zero lifecycle IDs mean absent.
type ResourceBody struct {
	Identifiers          []ResourceIdentifier
	Create               identity.ShapeID
	Put                  identity.ShapeID
	Read                 identity.ShapeID
	Update               identity.ShapeID
	Delete               identity.ShapeID
	List                 identity.ShapeID
	Operations           []identity.ShapeID
	CollectionOperations []identity.ShapeID
	Resources            []identity.ShapeID
}

func (ResourceBody) Kind() ShapeKind { return KindResource }
func (b ResourceBody) Describe() string {
	ids := make([]string, len(b.Identifiers))
	for i, ri := range b.Identifiers {
		ids[i] = string(ri.Name) + "=>" + ri.Target.String()
	}
	sort.Strings(ids)
	return fmt.Sprintf("resource identifiers=[%s] create=%s put=%s read=%s update=%s delete=%s list=%s operations=%s collectionOperations=%s resources=%s",
		strings.Join(ids, ", "), optID(b.Create), optID(b.Put), optID(b.Read), optID(b.Update),
		optID(b.Delete), optID(b.List), describeIDs(b.Operations), describeIDs(b.CollectionOperations),
		describeIDs(b.Resources))
}
func (b ResourceBody) clone() Body {
	out := b
	out.Identifiers = append([]ResourceIdentifier(nil), b.Identifiers...)
	out.Operations = cloneIDs(b.Operations)
	out.CollectionOperations = cloneIDs(b.CollectionOperations)
	out.Resources = cloneIDs(b.Resources)
	return out
}
func (b ResourceBody) sameStructure(o Body) bool {
	ob, ok := o.(ResourceBody)
	if !ok || len(b.Identifiers) != len(ob.Identifiers) {
		return false
	}
	for _, ri := range b.Identifiers {
		if target, found := ob.Identifier(ri.Name); !found || target != ri.Target {
			return false
		}
	}
	return b.Create == ob.Create && b.Put == ob.Put && b.Read == ob.Read &&
		b.Update == ob.Update && b.Delete == ob.Delete && b.List == ob.List &&
		sameIDSet(b.Operations, ob.Operations) &&
		sameIDSet(b.CollectionOperations, ob.CollectionOperations) &&
		sameIDSet(b.Resources, ob.Resources)
}

// Identifier looks up an identifier binding by name.
func (b ResourceBody) Identifier(name identity.Identifier) (identity.ShapeID, bool) {
	for _, ri := range b.Identifiers {
		if ri.Name == name {
			return ri.Target, true
		}
	}
	return identity.ShapeID{}, false
}

// Shape is a top-level shape: an absolute ID, a payload and applied traits.
type Shape struct {
	id     identity.ShapeID
	body   Body
	traits Traits
}

// NewShape creates a shape. A nil body yields an Unresolved shape.
func NewShape(id identity.ShapeID, body Body) *Shape {
	if body == nil {
		body = UnresolvedBody{}
	}
	return &Shape{id: id, body: body}
}

// ID returns the shape ID.
func (s *Shape) ID() identity.ShapeID { return s.id }

// Body returns the kind-specific payload.
func (s *Shape) Body() Body { return s.body }

// Kind returns the top-level kind.
func (s *Shape) Kind() ShapeKind { return s.body.Kind() }

// SimpleType returns the scalar type for simple shapes.
func (s *Shape) SimpleType() (SimpleType, bool) {
	b, ok := s.body.(SimpleBody)
	return b.Type, ok
}

// TypeName returns the IDL keyword of the shape: the simple type name for
// scalars, the kind name otherwise.
func (s *Shape) TypeName() string {
	if t, ok := s.SimpleType(); ok {
		return t.String()
	}
	return s.Kind().String()
}

// Traits returns the shape's trait table.
func (s *Shape) Traits() *Traits { return &s.traits }

// ApplyTrait applies a trait to the shape itself.
func (s *Shape) ApplyTrait(trait identity.ShapeID, value Value) error {
	return s.traits.Apply(s.id, trait, value)
}

// Members returns the members of aggregate shapes in declaration order:
// structure and union members, the list/set member, or the map key and value.
func (s *Shape) Members() []*Member {
	switch b := s.body.(type) {
	case StructureBody:
		return b.Members
	case UnionBody:
		return b.Members
	case ListBody:
		return nonNil(b.Member)
	case SetBody:
		return nonNil(b.Member)
	case MapBody:
		return nonNil(b.Key, b.Value)
	default:
		return nil
	}
}

// Member looks up a member by name.
func (s *Shape) Member(name identity.Identifier) (*Member, bool) {
	for _, m := range s.Members() {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the shape.
func (s *Shape) Clone() *Shape {
	return &Shape{id: s.id, body: s.body.clone(), traits: s.traits.Clone()}
}

func nonNil(ms ...*Member) []*Member {
	out := make([]*Member, 0, len(ms))
	for _, m := range ms {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}

func targetOf(m *Member) string {
	if m == nil {
		return "-"
	}
	return m.Target.String()
}

func cloneMember(m *Member) *Member {
	if m == nil {
		return nil
	}
	return m.clone()
}

func cloneMembers(ms []*Member) []*Member {
	if ms == nil {
		return nil
	}
	out := make([]*Member, len(ms))
	for i, m := range ms {
		out[i] = m.clone()
	}
	return out
}

func sameMember(a, b *Member) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Name == b.Name && a.Target == b.Target
}

func sameMembers(a, b []*Member) bool {
	if len(a) != len(b) {
		return false
	}
	byName := make(map[identity.Identifier]identity.ShapeID, len(b))
	for _, m := range b {
		byName[m.Name] = m.Target
	}
	for _, m := range a {
		target, ok := byName[m.Name]
		if !ok || target != m.Target {
			return false
		}
	}
	return true
}

func describeMembers(ms []*Member) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = string(m.Name) + "=>" + m.Target.String()
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}

func cloneIDs(ids []identity.ShapeID) []identity.ShapeID {
	if ids == nil {
		return nil
	}
	return append([]identity.ShapeID(nil), ids...)
}

func sameIDSet(a, b []identity.ShapeID) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[identity.ShapeID]int, len(a))
	for _, id := range a {
		set[id]++
	}
	for _, id := range b {
		if set[id] == 0 {
			return false
		}
		set[id]--
	}
	return true
}

func describeIDs(ids []identity.ShapeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	sort.Strings(parts)
	return "[" + strings.Join(parts, ", ") + "]"
}

func optID(id identity.ShapeID) string {
	if id.IsZero() {
		return "-"
	}
	return id.String()
}
