package selector

import (
	"strconv"
	"strings"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
	"github.com/shapemodel/cli/internal/prelude"
)

// Pseudo-properties usable as path segments on object and array values.
const (
	KeysProperty   = "(keys)"
	ValuesProperty = "(values)"
	LengthProperty = "(length)"
)

// attribute resolves an attribute path for a projection entry. The bool
// reports whether the attribute exists.
func (c *evaluator) attribute(id identity.ShapeID, key Path) ([]core.Value, bool) {
	if len(key) == 0 {
		return nil, false
	}
	var vals []core.Value
	switch key[0] {
	case "id":
		v, ok := idAttribute(id, key[1:])
		if !ok {
			return nil, false
		}
		return []core.Value{v}, true
	case "service":
		s, ok := c.shape(id)
		if !ok || id.IsMember() {
			return nil, false
		}
		body, ok := s.Body().(core.ServiceBody)
		if !ok {
			return nil, false
		}
		switch {
		case len(key) == 1:
			vals = []core.Value{core.String(id.String())}
		case key[1] == "version" && len(key) == 2:
			vals = []core.Value{core.String(body.Version)}
		default:
			return nil, false
		}
	case "trait":
		if len(key) < 2 {
			return nil, false
		}
		traitID, ok := traitKey(key[1])
		if !ok {
			return nil, false
		}
		traits, ok := c.traits(id)
		if !ok {
			return nil, false
		}
		v, ok := traits.Get(traitID)
		if !ok {
			return nil, false
		}
		vals = walk([]core.Value{v}, key[2:])
	default:
		return nil, false
	}
	return vals, len(vals) > 0
}

func idAttribute(id identity.ShapeID, rest Path) (core.Value, bool) {
	if len(rest) == 0 {
		return core.String(id.String()), true
	}
	if len(rest) > 1 {
		return core.Value{}, false
	}
	switch rest[0] {
	case "namespace":
		return core.String(string(id.Namespace())), true
	case "name":
		return core.String(string(id.Name())), true
	case "member":
		if !id.IsMember() {
			return core.Value{}, false
		}
		return core.String(string(id.Member())), true
	default:
		return core.Value{}, false
	}
}

// traitKey turns a trait path segment into a trait ID. Relative names refer
// to the prelude.
func traitKey(name string) (identity.ShapeID, bool) {
	if strings.Contains(name, identity.ShapeSeparator) {
		id, err := identity.ParseShapeID(name)
		return id, err == nil && !id.IsMember()
	}
	if !identity.IsValidIdentifier(name) {
		return identity.ShapeID{}, false
	}
	return prelude.TraitID(name), true
}

// walk follows path segments into values. Missing keys drop out.
func walk(vals []core.Value, path Path) []core.Value {
	for _, seg := range path {
		var next []core.Value
		for _, v := range vals {
			next = append(next, step(v, seg)...)
		}
		vals = next
	}
	return vals
}

func step(v core.Value, seg string) []core.Value {
	switch seg {
	case KeysProperty:
		var out []core.Value
		for _, f := range v.Fields() {
			out = append(out, core.String(f.Key))
		}
		return out
	case ValuesProperty:
		if v.Kind() == core.ArrayValue {
			return v.Elements()
		}
		var out []core.Value
		for _, f := range v.Fields() {
			out = append(out, f.Value)
		}
		return out
	case LengthProperty:
		switch v.Kind() {
		case core.ArrayValue, core.ObjectValue, core.StringValue:
			return []core.Value{core.Int(int64(v.Len()))}
		}
		return nil
	}
	switch v.Kind() {
	case core.ObjectValue:
		if f, ok := v.Get(seg); ok {
			return []core.Value{f}
		}
	case core.ArrayValue:
		if i, err := strconv.Atoi(seg); err == nil && i >= 0 && i < v.Len() {
			return []core.Value{v.Elements()[i]}
		}
	}
	return nil
}

func (c *evaluator) matchAttribute(e AttributeExpr, id identity.ShapeID) bool {
	vals, exists := c.attribute(id, e.Key)
	switch e.Comparator {
	case "":
		return exists
	case Exists:
		return matchExists(exists, e.Values)
	}
	if !exists {
		return false
	}
	for _, v := range vals {
		for _, operand := range e.Values {
			if compare(e.Comparator, v.Text(), operand, e.CaseInsensitive) {
				return true
			}
		}
	}
	return false
}

func (c *evaluator) matchScoped(e ScopedAttributeExpr, id identity.ShapeID) bool {
	scope, ok := c.attribute(id, e.Scope)
	if !ok {
		return false
	}
	for _, sv := range scope {
		if allAssertions(sv, e.Assertions) {
			return true
		}
	}
	return false
}

func allAssertions(scope core.Value, assertions []ScopedAssertion) bool {
	for _, a := range assertions {
		if !assertion(scope, a) {
			return false
		}
	}
	return true
}

func assertion(scope core.Value, a ScopedAssertion) bool {
	left := scopedValues(scope, a.Left)
	var operands []string
	for _, r := range a.Right {
		for _, v := range scopedValues(scope, r) {
			operands = append(operands, v.Text())
		}
	}
	if a.Comparator == Exists {
		return matchExists(len(left) > 0, operands)
	}
	for _, l := range left {
		for _, operand := range operands {
			if compare(a.Comparator, l.Text(), operand, a.CaseInsensitive) {
				return true
			}
		}
	}
	return false
}

func scopedValues(scope core.Value, v ScopedValue) []core.Value {
	if !v.IsPath {
		return []core.Value{core.String(v.Literal)}
	}
	return walk([]core.Value{scope}, v.Path)
}

func matchExists(exists bool, operands []string) bool {
	for _, o := range operands {
		if (o == "true" && exists) || (o == "false" && !exists) {
			return true
		}
	}
	return false
}

// compare applies a comparator to an attribute text and an operand.
// Relative comparators only match when both sides parse as numbers.
func compare(op Comparator, attr, operand string, caseInsensitive bool) bool {
	if caseInsensitive {
		attr = strings.ToLower(attr)
		operand = strings.ToLower(operand)
	}
	switch op {
	case Equal:
		return attr == operand
	case NotEqual:
		return attr != operand
	case StartsWith:
		return strings.HasPrefix(attr, operand)
	case EndsWith:
		return strings.HasSuffix(attr, operand)
	case Contains:
		return strings.Contains(attr, operand)
	case GreaterThan, GreaterThanEqual, LessThan, LessThanEqual:
		a, err := strconv.ParseFloat(attr, 64)
		if err != nil {
			return false
		}
		b, err := strconv.ParseFloat(operand, 64)
		if err != nil {
			return false
		}
		switch op {
		case GreaterThan:
			return a > b
		case GreaterThanEqual:
			return a >= b
		case LessThan:
			return a < b
		default:
			return a <= b
		}
	default:
		return false
	}
}
