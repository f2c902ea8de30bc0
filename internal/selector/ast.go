// Package selector implements the shape selector query language: an AST,
// a textual parser and an evaluator that narrows a projection of shapes and
// members over a model.
package selector

import (
	"strconv"
	"strings"
)

// Selector is an ordered sequence of expressions folded left to right.
type Selector struct {
	Expressions []Expression
}

// String renders the selector in its canonical textual form.
func (s *Selector) String() string {
	parts := make([]string, len(s.Expressions))
	for i, e := range s.Expressions {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}

// Expression is one step of a selector. The set of implementations is
// closed: ShapeTypeExpr, AttributeExpr, ScopedAttributeExpr, NeighborExpr,
// FunctionExpr, VariableDefinition and VariableReference.
type Expression interface {
	String() string
	expression()
}

// ShapeType is the predicate of a shape type expression.
type ShapeType int

const (
	All ShapeType = iota
	Blob
	Boolean
	Document
	String
	Byte
	Short
	Integer
	Long
	Float
	Double
	BigInteger
	BigDecimal
	Timestamp
	List
	Set
	Map
	Structure
	Union
	Service
	Operation
	Resource
	Member
	Number
	SimpleType
	Collection
)

// ShapeTypes lists every shape type predicate.
var ShapeTypes = []ShapeType{
	All, Blob, Boolean, Document, String, Byte, Short, Integer, Long, Float,
	Double, BigInteger, BigDecimal, Timestamp, List, Set, Map, Structure,
	Union, Service, Operation, Resource, Member, Number, SimpleType, Collection,
}

var shapeTypeNames = map[ShapeType]string{
	All:        "*",
	Blob:       "blob",
	Boolean:    "boolean",
	Document:   "document",
	String:     "string",
	Byte:       "byte",
	Short:      "short",
	Integer:    "integer",
	Long:       "long",
	Float:      "float",
	Double:     "double",
	BigInteger: "bigInteger",
	BigDecimal: "bigDecimal",
	Timestamp:  "timestamp",
	List:       "list",
	Set:        "set",
	Map:        "map",
	Structure:  "structure",
	Union:      "union",
	Service:    "service",
	Operation:  "operation",
	Resource:   "resource",
	Member:     "member",
	Number:     "number",
	SimpleType: "simpleType",
	Collection: "collection",
}

// String returns the selector keyword of the shape type.
func (t ShapeType) String() string {
	if n, ok := shapeTypeNames[t]; ok {
		return n
	}
	return "unknown"
}

// ParseShapeType looks up a shape type by its selector keyword.
func ParseShapeType(name string) (ShapeType, bool) {
	for t, n := range shapeTypeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// ShapeTypeExpr keeps shapes matching a type predicate.
type ShapeTypeExpr struct {
	Type ShapeType
}

func (ShapeTypeExpr) expression()      {}
func (e ShapeTypeExpr) String() string { return e.Type.String() }

// Comparator is an attribute comparison operator.
type Comparator string

const (
	Equal            Comparator = "="
	NotEqual         Comparator = "!="
	StartsWith       Comparator = "^="
	EndsWith         Comparator = "$="
	Contains         Comparator = "*="
	Exists           Comparator = "?="
	GreaterThan      Comparator = ">"
	GreaterThanEqual Comparator = ">="
	LessThan         Comparator = "<"
	LessThanEqual    Comparator = "<="
)

// Comparators lists every comparator, longest text first.
var Comparators = []Comparator{
	NotEqual, StartsWith, EndsWith, Contains, Exists, GreaterThanEqual,
	LessThanEqual, Equal, GreaterThan, LessThan,
}

// Path is an attribute path such as id|name or trait|length|min.
type Path []string

// String renders the path with segments joined by '|', quoting segments that
// are not bare words.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		if isBareWord(seg) {
			parts[i] = seg
		} else {
			parts[i] = quote(seg)
		}
	}
	return strings.Join(parts, "|")
}

// AttributeExpr keeps shapes whose attribute exists or, when a comparator is
// set, whose attribute compares true against any of the values.
type AttributeExpr struct {
	Key             Path
	Comparator      Comparator
	Values          []string
	CaseInsensitive bool
}

func (AttributeExpr) expression() {}

func (e AttributeExpr) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(e.Key.String())
	if e.Comparator != "" {
		b.WriteByte(' ')
		b.WriteString(string(e.Comparator))
		b.WriteByte(' ')
		writeValues(&b, e.Values)
		if e.CaseInsensitive {
			b.WriteString(" i")
		}
	}
	b.WriteByte(']')
	return b.String()
}

// ScopedValue is an operand of a scoped assertion: either a path relative to
// the scoped value, written @{path}, or a literal.
type ScopedValue struct {
	Path    Path
	Literal string
	IsPath  bool
}

func (v ScopedValue) String() string {
	if v.IsPath {
		return "@{" + v.Path.String() + "}"
	}
	return quote(v.Literal)
}

// ScopedAssertion compares two scoped operands.
type ScopedAssertion struct {
	Left            ScopedValue
	Comparator      Comparator
	Right           []ScopedValue
	CaseInsensitive bool
}

func (a ScopedAssertion) String() string {
	var b strings.Builder
	b.WriteString(a.Left.String())
	b.WriteByte(' ')
	b.WriteString(string(a.Comparator))
	b.WriteByte(' ')
	for i, r := range a.Right {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.String())
	}
	if a.CaseInsensitive {
		b.WriteString(" i")
	}
	return b.String()
}

// ScopedAttributeExpr keeps shapes where some value under Scope satisfies
// every assertion.
type ScopedAttributeExpr struct {
	Scope      Path
	Assertions []ScopedAssertion
}

func (ScopedAttributeExpr) expression() {}

func (e ScopedAttributeExpr) String() string {
	parts := make([]string, len(e.Assertions))
	for i, a := range e.Assertions {
		parts[i] = a.String()
	}
	return "[@" + e.Scope.String() + ": " + strings.Join(parts, " && ") + "]"
}

// Direction of a neighbor traversal.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// NeighborExpr replaces each shape with its neighbors. An empty
// Relationships list follows every relationship.
type NeighborExpr struct {
	Direction     Direction
	Recursive     bool
	Relationships []string
}

func (NeighborExpr) expression() {}

func (e NeighborExpr) String() string {
	switch {
	case e.Recursive:
		return "~>"
	case len(e.Relationships) == 0 && e.Direction == Forward:
		return ">"
	case len(e.Relationships) == 0:
		return "<"
	case e.Direction == Forward:
		return "-[" + strings.Join(e.Relationships, ", ") + "]->"
	default:
		return "<-[" + strings.Join(e.Relationships, ", ") + "]-"
	}
}

// FunctionExpr applies a named built-in function to selector arguments.
type FunctionExpr struct {
	Name string
	Args []*Selector
}

func (FunctionExpr) expression() {}

func (e FunctionExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return ":" + e.Name + "(" + strings.Join(args, ", ") + ")"
}

// VariableDefinition binds Name to the projection produced by Selector from
// the current projection. The current projection passes through unchanged.
type VariableDefinition struct {
	Name     string
	Selector *Selector
}

func (VariableDefinition) expression() {}

func (e VariableDefinition) String() string {
	return "$" + e.Name + "(" + e.Selector.String() + ")"
}

// VariableReference substitutes the projection bound to Name.
type VariableReference struct {
	Name string
}

func (VariableReference) expression()      {}
func (e VariableReference) String() string { return "${" + e.Name + "}" }

func writeValues(b *strings.Builder, values []string) {
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quote(v))
	}
}

func quote(s string) string {
	return strconv.Quote(s)
}

func isBareWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isBareByte(s[i]) {
			return false
		}
	}
	return true
}
