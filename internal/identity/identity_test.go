package identity_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/identity"
)

func TestIsValidIdentifier(t *testing.T) {
	good := []string{"a", "aBc", "_aBc", "___aBc", "a1", "a1c", "a_c", "a_"}
	bad := []string{"", "_", "1", "1a", "_1", "a!"}

	for _, s := range good {
		assert.True(t, identity.IsValidIdentifier(s), "expected %q to be valid", s)
	}
	for _, s := range bad {
		assert.False(t, identity.IsValidIdentifier(s), "expected %q to be invalid", s)
	}
}

func TestNewIdentifier(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		id, err := identity.NewIdentifier("MyString")
		require.NoError(t, err)
		assert.Equal(t, "MyString", id.String())
	})

	t.Run("invalid cites text", func(t *testing.T) {
		_, err := identity.NewIdentifier("1a")
		require.Error(t, err)
		assert.ErrorIs(t, err, identity.ErrInvalidIdentifier)
		assert.ErrorIs(t, err, oerrors.ErrInvalidInput)
		assert.Contains(t, err.Error(), `"1a"`)

		var invalid *identity.InvalidError
		require.True(t, errors.As(err, &invalid))
		assert.Equal(t, "1a", invalid.Text)
	})
}

func TestNamespace(t *testing.T) {
	tests := []struct {
		in    string
		valid bool
	}{
		{"smithy", true},
		{"smithy.example", true},
		{"a.b_c.d1", true},
		{"", false},
		{".smithy", false},
		{"smithy.", false},
		{"smithy..example", false},
		{"smithy.1a", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.valid, identity.IsValidNamespace(tt.in))
			_, err := identity.NewNamespaceID(tt.in)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, identity.ErrInvalidNamespace)
			}
		})
	}

	ns := identity.MustNamespace("smithy.example")
	assert.Equal(t, []identity.Identifier{"smithy", "example"}, ns.Segments())
}

func TestShapeIDRoundTrip(t *testing.T) {
	valid := []string{
		"smithy.example#Foo",
		"smithy.example#Foo$bar",
		"a#b",
		"a.b.c#_X1$_y",
	}

	for _, s := range valid {
		t.Run(s, func(t *testing.T) {
			assert.True(t, identity.IsValidShapeID(s))
			id, err := identity.ParseShapeID(s)
			require.NoError(t, err)
			assert.Equal(t, s, id.String())
			assert.True(t, id.IsAbsolute())
		})
	}
}

func TestParseShapeIDInvalid(t *testing.T) {
	invalid := []string{
		"",
		"Foo",
		"#Foo",
		"smithy.example#",
		"smithy.example#Foo$",
		"smithy.example#Foo$bar$baz",
		"smithy.example#Foo#Bar",
		"smithy..example#Foo",
		"smithy.example#1Foo",
	}

	for _, s := range invalid {
		t.Run(s, func(t *testing.T) {
			assert.False(t, identity.IsValidShapeID(s))
			_, err := identity.ParseShapeID(s)
			assert.ErrorIs(t, err, identity.ErrInvalidShapeID)
		})
	}
}

func TestParseReference(t *testing.T) {
	rel, err := identity.ParseReference("MyString")
	require.NoError(t, err)
	assert.False(t, rel.IsAbsolute())
	assert.Equal(t, "MyString", rel.String())

	relMember, err := identity.ParseReference("Foo$bar")
	require.NoError(t, err)
	assert.True(t, relMember.IsMember())
	assert.Equal(t, identity.Identifier("bar"), relMember.Member())

	abs, err := identity.ParseReference("foo.baz#Bar")
	require.NoError(t, err)
	assert.True(t, abs.IsAbsolute())

	_, err = identity.ParseReference("1Foo")
	assert.ErrorIs(t, err, identity.ErrInvalidShapeID)
}

func TestShapeIDProjections(t *testing.T) {
	id := identity.MustParse("smithy.example#Foo$bar")

	assert.Equal(t, identity.NamespaceID("smithy.example"), id.Namespace())
	assert.Equal(t, identity.Identifier("Foo"), id.Name())
	assert.Equal(t, "smithy.example#Foo", id.ShapeOnly().String())
	assert.Equal(t, "smithy.example#Foo$baz", id.ShapeOnly().WithMember("baz").String())
	assert.Equal(t, "other#Foo$bar", id.InNamespace("other").String())

	// comparable: usable as map key
	set := map[identity.ShapeID]bool{id: true}
	assert.True(t, set[identity.MustParse("smithy.example#Foo$bar")])
}

func TestCompare(t *testing.T) {
	a := identity.MustParse("a#B")
	b := identity.MustParse("a#B$c")
	c := identity.MustParse("b#A")

	assert.Negative(t, identity.Compare(a, b))
	assert.Negative(t, identity.Compare(b, c))
	assert.Zero(t, identity.Compare(a, identity.MustParse("a#B")))
}

func TestShapeIDText(t *testing.T) {
	id := identity.MustParse("smithy.example#Foo")
	text, err := id.MarshalText()
	require.NoError(t, err)

	var back identity.ShapeID
	require.NoError(t, back.UnmarshalText(text))
	assert.Equal(t, id, back)
}
