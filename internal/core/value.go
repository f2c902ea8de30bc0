package core

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/shapemodel/cli/internal/identity"
)

// ValueKind discriminates the variants of a Value.
type ValueKind int

const (
	// NoneValue marks a trait applied without a value.
	NoneValue ValueKind = iota
	StringValue
	NumberValue
	BooleanValue
	ArrayValue
	ObjectValue
	ShapeRefValue
)

// String returns the kind name used in diagnostics.
func (k ValueKind) String() string {
	switch k {
	case NoneValue:
		return "none"
	case StringValue:
		return "string"
	case NumberValue:
		return "number"
	case BooleanValue:
		return "boolean"
	case ArrayValue:
		return "array"
	case ObjectValue:
		return "object"
	case ShapeRefValue:
		return "shape reference"
	default:
		return "unknown"
	}
}

// Value is a trait or metadata value. It is a closed sum type; the zero
// Value is the None variant.
type Value struct {
	kind    ValueKind
	str     string
	num     float64
	digits  string
	boolean bool
	elems   []Value
	fields  []Field
	ref     identity.ShapeID
}

// Field is a single key/value pair of an object Value.
type Field struct {
	Key   string
	Value Value
}

// None returns the empty value.
func None() Value { return Value{} }

// String returns a string value.
func String(s string) Value { return Value{kind: StringValue, str: s} }

// Number returns a numeric value.
func Number(f float64) Value { return Value{kind: NumberValue, num: f} }

// Int returns a numeric value holding an integer.
func Int(i int64) Value {
	return Value{kind: NumberValue, num: float64(i), digits: strconv.FormatInt(i, 10)}
}

// Decimal returns a numeric value from decimal text. Integers keep every
// digit even when float64 cannot represent them.
func Decimal(text string) (Value, error) {
	if i, ok := new(big.Int).SetString(text, 10); ok {
		f, _ := new(big.Float).SetInt(i).Float64()
		return Value{kind: NumberValue, num: f, digits: i.String()}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q: %w", text, err)
	}
	return Value{kind: NumberValue, num: f}, nil
}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: BooleanValue, boolean: b} }

// ShapeRef returns a value referring to another shape.
func ShapeRef(id identity.ShapeID) Value { return Value{kind: ShapeRefValue, ref: id} }

// Array returns an array value holding a copy of elems.
func Array(elems ...Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{kind: ArrayValue, elems: cp}
}

// Strings returns an array of string values.
func Strings(ss ...string) Value {
	elems := make([]Value, len(ss))
	for i, s := range ss {
		elems[i] = String(s)
	}
	return Value{kind: ArrayValue, elems: elems}
}

// Object returns an object value. Later duplicate keys replace earlier ones
// in place, so key order follows first appearance.
func Object(fields ...Field) Value {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		replaced := false
		for i := range out {
			if out[i].Key == f.Key {
				out[i].Value = f.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, f)
		}
	}
	return Value{kind: ObjectValue, fields: out}
}

// F is shorthand for building an object Field.
func F(key string, v Value) Field { return Field{Key: key, Value: v} }

// Kind returns the variant.
func (v Value) Kind() ValueKind { return v.kind }

// IsNone reports whether v carries no value.
func (v Value) IsNone() bool { return v.kind == NoneValue }

// AsString returns the string payload.
func (v Value) AsString() (string, bool) { return v.str, v.kind == StringValue }

// AsNumber returns the numeric payload.
func (v Value) AsNumber() (float64, bool) { return v.num, v.kind == NumberValue }

// AsBool returns the boolean payload.
func (v Value) AsBool() (bool, bool) { return v.boolean, v.kind == BooleanValue }

// AsShapeRef returns the referenced shape ID.
func (v Value) AsShapeRef() (identity.ShapeID, bool) { return v.ref, v.kind == ShapeRefValue }

// Elements returns a copy of the array elements, nil for other kinds.
func (v Value) Elements() []Value {
	if v.kind != ArrayValue {
		return nil
	}
	cp := make([]Value, len(v.elems))
	copy(cp, v.elems)
	return cp
}

// Fields returns a copy of the object fields in insertion order, nil for other kinds.
func (v Value) Fields() []Field {
	if v.kind != ObjectValue {
		return nil
	}
	cp := make([]Field, len(v.fields))
	copy(cp, v.fields)
	return cp
}

// Get looks up an object field.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Len returns the number of elements, fields, or string bytes; zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case ArrayValue:
		return len(v.elems)
	case ObjectValue:
		return len(v.fields)
	case StringValue:
		return len(v.str)
	default:
		return 0
	}
}

// Equal reports deep equality. Object field order is not significant;
// array element order is.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case NoneValue:
		return true
	case StringValue:
		return v.str == o.str
	case NumberValue:
		if v.digits != "" && o.digits != "" {
			return v.digits == o.digits
		}
		return v.num == o.num
	case BooleanValue:
		return v.boolean == o.boolean
	case ShapeRefValue:
		return v.ref == o.ref
	case ArrayValue:
		if len(v.elems) != len(o.elems) {
			return false
		}
		for i := range v.elems {
			if !v.elems[i].Equal(o.elems[i]) {
				return false
			}
		}
		return true
	case ObjectValue:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for _, f := range v.fields {
			other, ok := o.Get(f.Key)
			if !ok || !f.Value.Equal(other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Concat appends the elements of o to those of v. Both must be arrays.
func (v Value) Concat(o Value) Value {
	out := make([]Value, 0, len(v.elems)+len(o.elems))
	out = append(out, v.elems...)
	out = append(out, o.elems...)
	return Value{kind: ArrayValue, elems: out}
}

// Text renders a scalar as the plain text used for comparisons: strings
// unquoted, numbers in shortest form, shape references as their ID.
// Arrays and objects fall back to Describe.
func (v Value) Text() string {
	switch v.kind {
	case StringValue:
		return v.str
	case NumberValue:
		return v.numberText()
	case BooleanValue:
		return strconv.FormatBool(v.boolean)
	case ShapeRefValue:
		return v.ref.String()
	case NoneValue:
		return ""
	default:
		return v.Describe()
	}
}

// Describe renders the value in a compact, deterministic, JSON-like form.
func (v Value) Describe() string {
	var b strings.Builder
	v.describe(&b)
	return b.String()
}

func (v Value) describe(b *strings.Builder) {
	switch v.kind {
	case NoneValue:
		b.WriteString("none")
	case StringValue:
		b.WriteString(strconv.Quote(v.str))
	case NumberValue:
		b.WriteString(v.numberText())
	case BooleanValue:
		b.WriteString(strconv.FormatBool(v.boolean))
	case ShapeRefValue:
		b.WriteString(v.ref.String())
	case ArrayValue:
		b.WriteByte('[')
		for i, e := range v.elems {
			if i > 0 {
				b.WriteString(", ")
			}
			e.describe(b)
		}
		b.WriteByte(']')
	case ObjectValue:
		keys := make([]string, 0, len(v.fields))
		for _, f := range v.fields {
			keys = append(keys, f.Key)
		}
		sort.Strings(keys)
		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			fv, _ := v.Get(k)
			fv.describe(b)
		}
		b.WriteByte('}')
	}
}

// String implements fmt.Stringer.
func (v Value) String() string {
	return v.Describe()
}

// numberText renders integers with every digit and other numbers in
// shortest form.
func (v Value) numberText() string {
	if v.digits != "" {
		return v.digits
	}
	return formatNumber(v.num)
}

func formatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Interface converts the value into plain Go data suitable for encoding:
// string, json.Number, bool, []any, map[string]any, or nil. Shape references
// become their ID text.
func (v Value) Interface() any {
	switch v.kind {
	case StringValue:
		return v.str
	case NumberValue:
		return json.Number(v.numberText())
	case BooleanValue:
		return v.boolean
	case ShapeRefValue:
		return v.ref.String()
	case ArrayValue:
		out := make([]any, len(v.elems))
		for i, e := range v.elems {
			out[i] = e.Interface()
		}
		return out
	case ObjectValue:
		out := make(map[string]any, len(v.fields))
		for _, f := range v.fields {
			out[f.Key] = f.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// FromInterface converts decoded JSON or YAML data into a Value. Object keys
// are sorted so the result does not depend on map iteration order.
func FromInterface(data any) (Value, error) {
	switch d := data.(type) {
	case nil:
		return None(), nil
	case string:
		return String(d), nil
	case bool:
		return Bool(d), nil
	case float64:
		return Number(d), nil
	case float32:
		return Number(float64(d)), nil
	case int:
		return Int(int64(d)), nil
	case int64:
		return Int(d), nil
	case json.Number:
		return Decimal(d.String())
	case []any:
		elems := make([]Value, len(d))
		for i, e := range d {
			ev, err := FromInterface(e)
			if err != nil {
				return Value{}, fmt.Errorf("[%d]: %w", i, err)
			}
			elems[i] = ev
		}
		return Value{kind: ArrayValue, elems: elems}, nil
	case map[string]any:
		keys := make([]string, 0, len(d))
		for k := range d {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, 0, len(keys))
		for _, k := range keys {
			fv, err := FromInterface(d[k])
			if err != nil {
				return Value{}, fmt.Errorf("%s: %w", k, err)
			}
			fields = append(fields, Field{Key: k, Value: fv})
		}
		return Value{kind: ObjectValue, fields: fields}, nil
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", data)
	}
}
