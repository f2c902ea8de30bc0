package core_test

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapemodel/cli/internal/core"
	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/identity"
)

func stringShape(name string) *core.Shape {
	return core.NewShape(motd(name), core.SimpleBody{Type: core.StringType})
}

func TestAddShape_IdenticalTwiceIsIdempotent(t *testing.T) {
	m := core.NewModel(motdNS, "")
	first := stringShape("Date")
	require.NoError(t, first.ApplyTrait(api("since"), core.String("2021-04-30")))
	second := stringShape("Date")
	require.NoError(t, second.ApplyTrait(api("since"), core.String("2021-04-30")))

	require.NoError(t, m.AddShape(first))
	require.NoError(t, m.AddShape(second))

	assert.Equal(t, 1, m.Len())
	s, ok := m.Shape(motd("Date"))
	require.True(t, ok)
	assert.Equal(t, 1, s.Traits().Len())
}

func TestAddShape_UnionsTraits(t *testing.T) {
	m := core.NewModel(motdNS, "")
	require.NoError(t, m.AddShape(withTrait(t, stringShape("Date"), api("since"), core.String("2021"))))
	require.NoError(t, m.AddShape(withTrait(t, stringShape("Date"), api("sensitive"), core.Object())))

	s, _ := m.Shape(motd("Date"))
	assert.Equal(t, []identity.ShapeID{api("since"), api("sensitive")}, s.Traits().IDs())
}

func TestAddShape_UnresolvedMerges(t *testing.T) {
	tests := []struct {
		name     string
		first    *core.Shape
		second   *core.Shape
		wantKind core.ShapeKind
	}{
		{
			name:     "both unresolved",
			first:    core.NewShape(motd("Date"), nil),
			second:   core.NewShape(motd("Date"), nil),
			wantKind: core.KindUnresolved,
		},
		{
			name:     "unresolved then concrete",
			first:    core.NewShape(motd("Date"), nil),
			second:   stringShape("Date"),
			wantKind: core.KindSimple,
		},
		{
			name:     "concrete then unresolved",
			first:    stringShape("Date"),
			second:   core.NewShape(motd("Date"), nil),
			wantKind: core.KindSimple,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := core.NewModel(motdNS, "")
			require.NoError(t, tt.first.ApplyTrait(api("documentation"), core.String("docs")))
			require.NoError(t, tt.second.ApplyTrait(api("tags"), core.Strings("a")))

			require.NoError(t, m.AddShape(tt.first))
			require.NoError(t, m.AddShape(tt.second))

			s, ok := m.Shape(motd("Date"))
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, s.Kind())
			assert.True(t, s.Traits().Has(api("documentation")))
			assert.True(t, s.Traits().Has(api("tags")))
		})
	}
}

func TestAddShape_PlaceholderTraitsUnionByID(t *testing.T) {
	m := core.NewModel(motdNS, "")
	require.NoError(t, m.ApplyTrait(motd("Date"), api("since"), core.String("2021-04-30")))
	require.NoError(t, m.ApplyTrait(motd("Date"), api("tags"), core.Strings("a")))

	concrete := withTrait(t, stringShape("Date"), api("since"), core.String("2022-01-01"))
	require.NoError(t, concrete.ApplyTrait(api("tags"), core.Strings("b")))
	require.NoError(t, concrete.ApplyTrait(api("sensitive"), core.None()))

	require.NoError(t, m.AddShape(concrete))

	s, ok := m.Shape(motd("Date"))
	require.True(t, ok)
	assert.Equal(t, core.KindSimple, s.Kind())
	assert.Equal(t, []identity.ShapeID{api("since"), api("tags"), api("sensitive")}, s.Traits().IDs())
	since, _ := s.Traits().Get(api("since"))
	assert.True(t, since.Equal(core.String("2021-04-30")), spew.Sdump(since))
	tags, _ := s.Traits().Get(api("tags"))
	assert.True(t, tags.Equal(core.Strings("a")), spew.Sdump(tags))
}

func TestAddShape_ConcreteTraitConflict(t *testing.T) {
	m := core.NewModel(motdNS, "")
	require.NoError(t, m.AddShape(withTrait(t, stringShape("Date"), api("since"), core.String("2021-04-30"))))

	err := m.AddShape(withTrait(t, stringShape("Date"), api("since"), core.String("2022-01-01")))

	var conflict *core.TraitConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, core.ErrTraitConflict)
}

func TestAddShape_ConflictLeavesModelUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		incoming *core.Shape
	}{
		{"different kind", core.NewShape(motd("Date"), core.StructureBody{})},
		{"different simple type", core.NewShape(motd("Date"), core.SimpleBody{Type: core.Timestamp})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := core.NewModel(motdNS, "")
			require.NoError(t, m.AddShape(withTrait(t, stringShape("Date"), api("since"), core.String("1"))))
			before := core.Lines(m)

			err := m.AddShape(tt.incoming)

			require.Error(t, err)
			var conflict *core.ShapeConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, motd("Date"), conflict.ShapeID)
			assert.Equal(t, "string", conflict.Existing)
			assert.ErrorIs(t, err, core.ErrShapeConflict)
			assert.ErrorIs(t, err, oerrors.ErrConflict)
			assert.Equal(t, before, core.Lines(m))
		})
	}
}

func TestAddShape_StructureMemberOrderIsNotStructural(t *testing.T) {
	m := core.NewModel(motdNS, "")
	require.NoError(t, m.AddShape(core.NewShape(motd("Pair"), core.StructureBody{Members: []*core.Member{
		member("a", api("String")), member("b", api("Integer")),
	}})))

	err := m.AddShape(core.NewShape(motd("Pair"), core.StructureBody{Members: []*core.Member{
		member("b", api("Integer")), member("a", api("String"), api("required")),
	}}))
	require.NoError(t, err)

	mem, ok := m.Member(motd("Pair").WithMember("a"))
	require.True(t, ok)
	assert.True(t, mem.Traits.Has(api("required")))

	err = m.AddShape(core.NewShape(motd("Pair"), core.StructureBody{Members: []*core.Member{
		member("a", api("String")), member("b", api("Long")),
	}}))
	assert.ErrorIs(t, err, core.ErrShapeConflict)
}

func TestAddShape_RejectsRelativeAndMemberIDs(t *testing.T) {
	m := core.NewModel(motdNS, "")
	rel, err := identity.ParseReference("Date")
	require.NoError(t, err)

	assert.ErrorIs(t, m.AddShape(core.NewShape(rel, nil)), identity.ErrInvalidShapeID)
	assert.ErrorIs(t, m.AddShape(core.NewShape(motd("Date").WithMember("x"), nil)), identity.ErrInvalidShapeID)
	assert.Equal(t, 0, m.Len())
}

func TestApplyTrait_ArrayValuesConcatenate(t *testing.T) {
	m := core.NewModel(motdNS, "")
	require.NoError(t, m.AddShape(stringShape("Date")))

	require.NoError(t, m.ApplyTrait(motd("Date"), api("tags"), core.Strings("tag-1", "tag-2")))
	require.NoError(t, m.ApplyTrait(motd("Date"), api("tags"), core.Strings("tag-3", "tag-1")))

	s, _ := m.Shape(motd("Date"))
	got, ok := s.Traits().Get(api("tags"))
	require.True(t, ok)
	want := core.Strings("tag-1", "tag-2", "tag-3", "tag-1")
	assert.True(t, want.Equal(got), "got %s", spew.Sdump(got.Interface()))
	assert.Equal(t, 4, got.Len())
}

func TestApplyTrait_ScalarConflictKeepsPriorValue(t *testing.T) {
	m := core.NewModel(motdNS, "")
	require.NoError(t, m.AddShape(stringShape("Date")))
	require.NoError(t, m.ApplyTrait(motd("Date"), api("since"), core.String("2021-04-30")))

	err := m.ApplyTrait(motd("Date"), api("since"), core.String("not-a-date"))

	var conflict *core.TraitConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, api("since"), conflict.Trait)
	assert.Equal(t, motd("Date"), conflict.Target)
	assert.ErrorIs(t, err, core.ErrTraitConflict)

	s, _ := m.Shape(motd("Date"))
	got, _ := s.Traits().Get(api("since"))
	assert.Equal(t, core.String("2021-04-30"), got)
}

func TestApplyTrait_AbsentTargetBecomesUnresolved(t *testing.T) {
	m := core.NewModel(motdNS, "")
	require.NoError(t, m.ApplyTrait(motd("Later"), api("documentation"), core.String("d")))

	s, ok := m.Shape(motd("Later"))
	require.True(t, ok)
	assert.Equal(t, core.KindUnresolved, s.Kind())

	require.NoError(t, m.AddShape(stringShape("Later")))
	s, _ = m.Shape(motd("Later"))
	assert.Equal(t, core.KindSimple, s.Kind())
	assert.True(t, s.Traits().Has(api("documentation")))
}

func TestApplyTrait_PendingMemberTraitsFoldIn(t *testing.T) {
	m := core.NewModel(motdNS, "")
	target := motd("Input").WithMember("date")
	require.NoError(t, m.ApplyTrait(target, api("required"), core.Object()))
	assert.Equal(t, []identity.ShapeID{target}, m.PendingTargets())

	require.NoError(t, m.AddShape(core.NewShape(motd("Input"), core.StructureBody{Members: []*core.Member{
		member("date", motd("Date")),
	}})))

	assert.Empty(t, m.PendingTargets())
	mem, ok := m.Member(target)
	require.True(t, ok)
	assert.True(t, mem.Traits.Has(api("required")))
}

func TestApplyTrait_PendingConflictAbortsAdd(t *testing.T) {
	m := core.NewModel(motdNS, "")
	target := motd("Input").WithMember("date")
	require.NoError(t, m.ApplyTrait(target, api("since"), core.String("1")))

	incoming := core.NewShape(motd("Input"), core.StructureBody{Members: []*core.Member{
		member("date", motd("Date")),
	}})
	mem, _ := incoming.Member("date")
	require.NoError(t, mem.Traits.Apply(target, api("since"), core.String("2")))

	err := m.AddShape(incoming)

	assert.ErrorIs(t, err, core.ErrTraitConflict)
	assert.False(t, m.HasShape(motd("Input")))
	assert.Equal(t, []identity.ShapeID{target}, m.PendingTargets())
}

func TestAddMetadata(t *testing.T) {
	t.Run("conflict preserves prior value", func(t *testing.T) {
		m := core.NewModel(motdNS, "")
		require.NoError(t, m.AddMetadata("name", core.String("example-model")))

		err := m.AddMetadata("name", core.String("another-name"))

		var conflict *core.MetadataConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "name", conflict.Key)
		got, ok := m.MetadataValue("name")
		require.True(t, ok)
		assert.Equal(t, core.String("example-model"), got)
	})

	t.Run("arrays concatenate", func(t *testing.T) {
		m := core.NewModel(motdNS, "")
		require.NoError(t, m.AddMetadata("suppressions", core.Strings("a")))
		require.NoError(t, m.AddMetadata("suppressions", core.Strings("b", "a")))

		got, _ := m.MetadataValue("suppressions")
		assert.True(t, core.Strings("a", "b", "a").Equal(got))
	})

	t.Run("equal values are idempotent", func(t *testing.T) {
		m := core.NewModel(motdNS, "")
		obj := core.Object(core.F("x", core.Int(1)))
		require.NoError(t, m.AddMetadata("settings", obj))
		require.NoError(t, m.AddMetadata("settings", core.Object(core.F("x", core.Number(1)))))
		assert.Equal(t, []string{"settings"}, m.MetadataKeys())
	})

	t.Run("mismatched kinds conflict", func(t *testing.T) {
		m := core.NewModel(motdNS, "")
		require.NoError(t, m.AddMetadata("k", core.Strings("a")))
		assert.ErrorIs(t, m.AddMetadata("k", core.String("a")), core.ErrMetadataConflict)
	})
}

func TestMerge_CombinesModels(t *testing.T) {
	left := core.NewModel(motdNS, "1.0")
	require.NoError(t, left.AddShape(stringShape("Date")))
	require.NoError(t, left.AddMetadata("authors", core.Strings("a")))

	right := core.NewModel(motdNS, "1.0")
	require.NoError(t, right.AddShape(withTrait(t, stringShape("Date"), api("pattern"), core.String("^x$"))))
	require.NoError(t, right.AddShape(stringShape("Other")))
	require.NoError(t, right.ApplyTrait(motd("Input").WithMember("date"), api("required"), core.Object()))
	require.NoError(t, right.AddUse(id("foo.baz#Bar")))
	require.NoError(t, right.AddMetadata("authors", core.Strings("b")))

	require.NoError(t, left.Merge(right))

	assert.Equal(t, []identity.ShapeID{motd("Date"), motd("Other")}, left.ShapeIDs())
	date, _ := left.Shape(motd("Date"))
	assert.True(t, date.Traits().Has(api("pattern")))
	assert.Equal(t, []identity.ShapeID{motd("Input").WithMember("date")}, left.PendingTargets())
	assert.Equal(t, []identity.ShapeID{id("foo.baz#Bar")}, left.Uses())
	authors, _ := left.MetadataValue("authors")
	assert.True(t, core.Strings("a", "b").Equal(authors))
}

func TestMerge_ReportsOffendingEntry(t *testing.T) {
	tests := []struct {
		name      string
		right     func(t *testing.T) *core.Model
		wantEntry string
		wantKind  error
	}{
		{
			name: "shape",
			right: func(t *testing.T) *core.Model {
				m := core.NewModel(motdNS, "")
				require.NoError(t, m.AddShape(core.NewShape(motd("Date"), core.StructureBody{})))
				return m
			},
			wantEntry: "shape example.motd#Date",
			wantKind:  core.ErrShapeConflict,
		},
		{
			name: "metadata",
			right: func(t *testing.T) *core.Model {
				m := core.NewModel(motdNS, "")
				require.NoError(t, m.AddMetadata("name", core.String("b")))
				return m
			},
			wantEntry: `metadata "name"`,
			wantKind:  core.ErrMetadataConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			left := core.NewModel(motdNS, "")
			require.NoError(t, left.AddShape(stringShape("Date")))
			require.NoError(t, left.AddMetadata("name", core.String("a")))

			err := left.Merge(tt.right(t))

			var mergeErr *core.MergeError
			require.True(t, errors.As(err, &mergeErr))
			assert.Equal(t, tt.wantEntry, mergeErr.Entry)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Equal(t, oerrors.ExitConflict, oerrors.ExitCodeFromError(err))
		})
	}
}

func TestMerge_IsOrderIndependentForCompatibleModels(t *testing.T) {
	a := motdModel(t)
	b := core.NewModel(motdNS, "")
	require.NoError(t, b.AddShape(withTrait(t, stringShape("Date"), api("documentation"), core.String("A date"))))

	ab := core.NewModel(motdNS, "")
	require.NoError(t, ab.Merge(a))
	require.NoError(t, ab.Merge(b))

	ba := core.NewModel(motdNS, "")
	require.NoError(t, ba.Merge(b))
	require.NoError(t, ba.Merge(a))

	assert.Equal(t, core.Lines(ab), core.Lines(ba))
}

func TestAddUse(t *testing.T) {
	m := core.NewModel(motdNS, "")
	require.NoError(t, m.AddUse(id("foo.baz#Bar")))
	require.NoError(t, m.AddUse(id("a.b#C")))
	require.NoError(t, m.AddUse(id("foo.baz#Bar")))

	assert.Equal(t, []identity.ShapeID{id("a.b#C"), id("foo.baz#Bar")}, m.Uses())

	rel, _ := identity.ParseReference("Bar")
	assert.ErrorIs(t, m.AddUse(rel), identity.ErrInvalidShapeID)
}

func TestNewModel_DefaultVersion(t *testing.T) {
	m := core.NewModel(motdNS, "")
	assert.Equal(t, core.DefaultVersion, m.Version())
	assert.Equal(t, motdNS, m.Namespace())
}
