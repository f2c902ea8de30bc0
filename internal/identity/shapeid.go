package identity

import (
	"strings"
)

// ShapeID identifies a shape, or a member of a shape.
//
// Absolute IDs always carry a namespace: ns#Name or ns#Name$member.
// Relative IDs (no namespace) only exist as unresolved references and are
// produced by ParseReference; the resolver turns them into absolute IDs.
type ShapeID struct {
	namespace NamespaceID
	shape     Identifier
	member    Identifier
}

// NewShapeID builds an absolute top-level shape ID from validated parts.
func NewShapeID(namespace NamespaceID, shape Identifier) ShapeID {
	return ShapeID{namespace: namespace, shape: shape}
}

// NewMemberID builds an absolute member ID from validated parts.
func NewMemberID(namespace NamespaceID, shape, member Identifier) ShapeID {
	return ShapeID{namespace: namespace, shape: shape, member: member}
}

// IsValidShapeID reports whether s is a valid absolute shape ID.
func IsValidShapeID(s string) bool {
	_, err := ParseShapeID(s)
	return err == nil
}

// ParseShapeID parses an absolute shape ID: namespace#Name or namespace#Name$member.
func ParseShapeID(s string) (ShapeID, error) {
	if !strings.Contains(s, ShapeSeparator) {
		return ShapeID{}, newInvalid(ErrInvalidShapeID, s)
	}
	return parse(s)
}

// ParseReference parses either an absolute shape ID or a relative reference
// (Name or Name$member).
func ParseReference(s string) (ShapeID, error) {
	return parse(s)
}

// MustParse is like ParseShapeID but panics on invalid input.
// Intended for constants and tests.
func MustParse(s string) ShapeID {
	id, err := ParseShapeID(s)
	if err != nil {
		panic(err)
	}
	return id
}

func parse(s string) (ShapeID, error) {
	var id ShapeID

	rest := s
	if ns, local, ok := strings.Cut(s, ShapeSeparator); ok {
		if !IsValidNamespace(ns) {
			return ShapeID{}, newInvalid(ErrInvalidShapeID, s)
		}
		id.namespace = NamespaceID(ns)
		rest = local
	}

	name, member, hasMember := strings.Cut(rest, MemberSeparator)
	if !IsValidIdentifier(name) {
		return ShapeID{}, newInvalid(ErrInvalidShapeID, s)
	}
	id.shape = Identifier(name)

	if hasMember {
		if !IsValidIdentifier(member) {
			return ShapeID{}, newInvalid(ErrInvalidShapeID, s)
		}
		id.member = Identifier(member)
	}
	return id, nil
}

// Namespace returns the namespace, empty for relative references.
func (id ShapeID) Namespace() NamespaceID {
	return id.namespace
}

// Name returns the shape name.
func (id ShapeID) Name() Identifier {
	return id.shape
}

// Member returns the member name, empty for top-level shape IDs.
func (id ShapeID) Member() Identifier {
	return id.member
}

// IsAbsolute reports whether the ID carries a namespace.
func (id ShapeID) IsAbsolute() bool {
	return id.namespace != ""
}

// IsMember reports whether the ID names a member.
func (id ShapeID) IsMember() bool {
	return id.member != ""
}

// IsZero reports whether id is the zero ShapeID.
func (id ShapeID) IsZero() bool {
	return id == ShapeID{}
}

// ShapeOnly strips the member name.
func (id ShapeID) ShapeOnly() ShapeID {
	return ShapeID{namespace: id.namespace, shape: id.shape}
}

// WithMember returns the member ID for name within this shape.
func (id ShapeID) WithMember(name Identifier) ShapeID {
	return ShapeID{namespace: id.namespace, shape: id.shape, member: name}
}

// InNamespace returns the ID with its namespace replaced.
func (id ShapeID) InNamespace(ns NamespaceID) ShapeID {
	id.namespace = ns
	return id
}

// String renders the ID in its textual form.
func (id ShapeID) String() string {
	var b strings.Builder
	if id.namespace != "" {
		b.WriteString(string(id.namespace))
		b.WriteString(ShapeSeparator)
	}
	b.WriteString(string(id.shape))
	if id.member != "" {
		b.WriteString(MemberSeparator)
		b.WriteString(string(id.member))
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (id ShapeID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Relative references are accepted.
func (id *ShapeID) UnmarshalText(text []byte) error {
	parsed, err := ParseReference(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Compare orders shape IDs by namespace, name, then member.
func Compare(a, b ShapeID) int {
	if c := strings.Compare(string(a.namespace), string(b.namespace)); c != 0 {
		return c
	}
	if c := strings.Compare(string(a.shape), string(b.shape)); c != 0 {
		return c
	}
	return strings.Compare(string(a.member), string(b.member))
}
