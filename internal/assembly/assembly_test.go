package assembly_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapemodel/cli/internal/assembly"
	"github.com/shapemodel/cli/internal/core"
	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/identity"
	"github.com/shapemodel/cli/internal/output"
	"github.com/shapemodel/cli/internal/resolver"
	"github.com/shapemodel/cli/internal/testutil"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	output.SetupLogging(output.LogConfig{Verbose: true, Timestamps: output.BoolPtr(false), Writer: &buf})
	t.Cleanup(func() { output.SetupLogging(output.LogConfig{}) })
	return &buf
}

func TestAssemble_Directory(t *testing.T) {
	logs := captureLogs(t)
	dir := testutil.CopyFixture(t, "motd.json", "motd-extras.yaml")

	a := assembly.New(assembly.Options{Strict: true})
	require.NoError(t, a.AddPath(dir))
	assert.Equal(t, 2, a.Len())

	m, err := a.Assemble(context.Background())
	require.NoError(t, err)

	assert.Equal(t, identity.NamespaceID("example.motd"), m.Namespace())
	assert.Empty(t, m.PendingTargets())
	assert.True(t, m.HasShape(identity.MustParse("example.motd#Tags")))

	// motd-extras.yaml sorts before motd.json.
	owners, ok := m.MetadataValue("owners")
	require.True(t, ok)
	assert.True(t, core.Strings("docs-team", "motd-team").Equal(owners), owners.Describe())

	assert.Contains(t, logs.String(), "merging source")
	assert.Contains(t, logs.String(), "model example.motd")
}

func TestAssemble_OrderIndependentShapes(t *testing.T) {
	build := func(names ...string) []string {
		a := assembly.New(assembly.Options{})
		for _, name := range names {
			a.AddBytes(name, filepath.Ext(name), testutil.ReadFixture(t, name))
		}
		m, err := a.Assemble(context.Background())
		require.NoError(t, err)
		return core.Lines(m)
	}

	first := build("motd.json", "motd-extras.yaml")
	second := build("motd-extras.yaml", "motd.json")
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("assembly depends on insertion order (-first +second):\n%s", diff)
	}
}

func TestAssemble_CUEAndJSONAgree(t *testing.T) {
	a := assembly.New(assembly.Options{Strict: true})
	a.AddBytes("motd.cue", ".cue", testutil.ReadFixture(t, "motd.cue"))
	a.AddBytes("motd.json", "json", testutil.ReadFixture(t, "motd.json"))

	m, err := a.Assemble(context.Background())
	require.NoError(t, err)

	want := testutil.GoldenLines(t, "motd.lines")
	if diff := cmp.Diff(want, core.Lines(m)); diff != "" {
		t.Errorf("Lines() mismatch (-want +got):\n%s", diff)
	}
}

func TestAssemble_Conflict(t *testing.T) {
	dir := testutil.CopyFixture(t, "motd.json", "motd-conflict.json")

	a := assembly.New(assembly.Options{})
	require.NoError(t, a.AddPath(dir))
	_, err := a.Assemble(context.Background())
	require.Error(t, err)

	var se *assembly.SourceError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, filepath.Join(dir, "motd.json"), se.Source)
	assert.ErrorIs(t, err, core.ErrShapeConflict)

	var me *core.MergeError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "shape example.motd#Date", me.Entry)
	assert.Equal(t, oerrors.ExitConflict, oerrors.ExitCodeFromError(err))
}

func TestAssemble_Strict(t *testing.T) {
	extras := testutil.ReadFixture(t, "motd-extras.yaml")

	t.Run("strict fails on undeclared member targets", func(t *testing.T) {
		a := assembly.New(assembly.Options{Strict: true})
		a.AddBytes("extras.yaml", ".yaml", extras)

		_, err := a.Assemble(context.Background())
		require.Error(t, err)

		var ve *assembly.ValidationError
		require.ErrorAs(t, err, &ve)
		require.Len(t, ve.Errors, 1)
		assert.ErrorIs(t, err, resolver.ErrUnresolved)
		assert.Equal(t, oerrors.ExitValidationError, oerrors.ExitCodeFromError(err))
	})

	t.Run("non-strict keeps the model", func(t *testing.T) {
		captureLogs(t)
		a := assembly.New(assembly.Options{})
		a.AddBytes("extras.yaml", ".yaml", extras)

		m, err := a.Assemble(context.Background())
		require.NoError(t, err)
		assert.Len(t, m.PendingTargets(), 1)
	})
}

func TestAddPath_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing path", func(t *testing.T) {
		err := assembly.New(assembly.Options{}).AddPath(filepath.Join(dir, "nope.json"))
		require.Error(t, err)
		assert.ErrorIs(t, err, oerrors.ErrNotFound)
		assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
	})

	t.Run("unsupported file", func(t *testing.T) {
		path := testutil.WriteFile(t, dir, "notes.txt", "hello")
		err := assembly.New(assembly.Options{}).AddPath(path)
		require.Error(t, err)
		assert.ErrorIs(t, err, oerrors.ErrInvalidInput)
	})
}

func TestAddPath_Walk(t *testing.T) {
	dir := testutil.CopyFixture(t, "motd.json", "motd.cue")
	testutil.WriteFile(t, dir, "README.md", "# not a model")
	testutil.WriteFile(t, dir, ".cache/broken.json", "{")

	t.Run("every registered extension", func(t *testing.T) {
		a := assembly.New(assembly.Options{})
		require.NoError(t, a.AddPath(dir))
		assert.Equal(t, 2, a.Len())
	})

	t.Run("restricted extensions", func(t *testing.T) {
		a := assembly.New(assembly.Options{Extensions: []string{"json"}})
		require.NoError(t, a.AddPath(dir))
		assert.Equal(t, 1, a.Len())
		assert.Equal(t, []string{".json"}, a.Extensions())
	})
}

func TestAssemble_ReadErrors(t *testing.T) {
	t.Run("malformed document names its source", func(t *testing.T) {
		a := assembly.New(assembly.Options{})
		a.AddBytes("broken.json", ".json", []byte(`{"shapes": {"ns#A": {"type": "widget"}}}`))

		_, err := a.Assemble(context.Background())
		var se *assembly.SourceError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, "broken.json", se.Source)
		assert.Equal(t, oerrors.ExitInvalidInput, oerrors.ExitCodeFromError(err))
	})

	t.Run("unknown extension", func(t *testing.T) {
		a := assembly.New(assembly.Options{})
		a.AddBytes("model.xml", ".xml", []byte("<model/>"))

		_, err := a.Assemble(context.Background())
		assert.ErrorIs(t, err, oerrors.ErrInvalidInput)
	})

	t.Run("custom reader", func(t *testing.T) {
		a := assembly.New(assembly.Options{})
		a.RegisterReader("txt", func(string, []byte) (*core.Model, error) {
			return core.NewModel("example.txt", ""), nil
		})
		a.AddBytes("model.txt", ".txt", nil)

		m, err := a.Assemble(context.Background())
		require.NoError(t, err)
		assert.Equal(t, identity.NamespaceID("example.txt"), m.Namespace())
	})
}

func TestAssemble_Cancelled(t *testing.T) {
	a := assembly.New(assembly.Options{})
	a.AddBytes("motd.json", ".json", testutil.ReadFixture(t, "motd.json"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Assemble(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAssembler_Sources(t *testing.T) {
	a := assembly.New(assembly.Options{})
	a.AddBytes("b.json", ".json", nil)
	a.AddBytes("a.cue", ".cue", nil)
	assert.Equal(t, []string{"a.cue", "b.json"}, a.Sources())
}

func TestAssemble_DefaultNamespace(t *testing.T) {
	meta := []byte(`{"smithy": "1.0", "metadata": {"suite": "smoke"}}`)

	t.Run("applies when sources declare none", func(t *testing.T) {
		logs := captureLogs(t)
		a := assembly.New(assembly.Options{Namespace: "example.meta"})
		a.AddBytes("meta.json", ".json", meta)

		m, err := a.Assemble(context.Background())
		require.NoError(t, err)
		assert.Equal(t, identity.NamespaceID("example.meta"), m.Namespace())
		assert.Contains(t, logs.String(), "namespace=example.meta")
	})

	t.Run("declared namespace wins", func(t *testing.T) {
		a := assembly.New(assembly.Options{Namespace: "example.meta"})
		a.AddBytes("motd.json", ".json", testutil.ReadFixture(t, "motd.json"))

		m, err := a.Assemble(context.Background())
		require.NoError(t, err)
		assert.Equal(t, identity.NamespaceID("example.motd"), m.Namespace())
	})
}
