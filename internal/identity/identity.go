// Package identity provides the validated name types of the shape model:
// identifiers, namespaces and shape IDs.
//
// All three are plain comparable values. A ShapeID can be used directly as a
// map key, which is how the model store indexes shapes.
package identity

import (
	"strings"
)

const (
	// NamespaceSeparator joins identifiers into a namespace.
	NamespaceSeparator = "."

	// ShapeSeparator separates the namespace from the shape name.
	ShapeSeparator = "#"

	// MemberSeparator separates the shape name from the member name.
	MemberSeparator = "$"
)

// Identifier is a single name token.
type Identifier string

// IsValidIdentifier reports whether s is a valid identifier: ASCII letters,
// digits and underscores, starting with a letter or underscore, containing at
// least one letter.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	hasLetter := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isLetter(c):
			hasLetter = true
		case c == '_':
		case isDigit(c):
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return hasLetter
}

// NewIdentifier validates s and returns it as an Identifier.
func NewIdentifier(s string) (Identifier, error) {
	if !IsValidIdentifier(s) {
		return "", newInvalid(ErrInvalidIdentifier, s)
	}
	return Identifier(s), nil
}

// MustIdentifier is like NewIdentifier but panics on invalid input.
// Intended for constants and tests.
func MustIdentifier(s string) Identifier {
	id, err := NewIdentifier(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the identifier text.
func (i Identifier) String() string {
	return string(i)
}

// NamespaceID is a dot-separated sequence of identifiers, e.g. smithy.example.
type NamespaceID string

// IsValidNamespace reports whether s is a non-empty, dot-separated sequence of
// valid identifiers with no empty segment.
func IsValidNamespace(s string) bool {
	if s == "" {
		return false
	}
	for _, seg := range strings.Split(s, NamespaceSeparator) {
		if !IsValidIdentifier(seg) {
			return false
		}
	}
	return true
}

// NewNamespaceID validates s and returns it as a NamespaceID.
func NewNamespaceID(s string) (NamespaceID, error) {
	if !IsValidNamespace(s) {
		return "", newInvalid(ErrInvalidNamespace, s)
	}
	return NamespaceID(s), nil
}

// MustNamespace is like NewNamespaceID but panics on invalid input.
func MustNamespace(s string) NamespaceID {
	ns, err := NewNamespaceID(s)
	if err != nil {
		panic(err)
	}
	return ns
}

// Segments returns the identifiers making up the namespace.
func (n NamespaceID) Segments() []Identifier {
	if n == "" {
		return nil
	}
	parts := strings.Split(string(n), NamespaceSeparator)
	out := make([]Identifier, len(parts))
	for i, p := range parts {
		out[i] = Identifier(p)
	}
	return out
}

// String returns the namespace text.
func (n NamespaceID) String() string {
	return string(n)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
