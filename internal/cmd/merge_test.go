package cmd

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapemodel/cli/internal/core"
	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/format/jsonast"
	"github.com/shapemodel/cli/internal/identity"
	"github.com/shapemodel/cli/internal/testutil"
)

func TestMerge(t *testing.T) {
	isolate(t)
	dir := testutil.CopyFixture(t, "motd.json", "motd-extras.yaml")

	out, err := execute(t, "merge", "--strict", dir)
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(out)), out)

	merged, err := jsonast.Read([]byte(out))
	require.NoError(t, err)
	assert.True(t, merged.HasShape(identity.MustParse("example.motd#Tags")))

	t.Run("output reads back to the same model", func(t *testing.T) {
		again, err := execute(t, "lines", dir)
		require.NoError(t, err)
		if diff := cmp.Diff(strings.TrimSuffix(again, "\n"), strings.Join(core.Lines(merged), "\n")); diff != "" {
			t.Errorf("merged model differs (-sources +merged):\n%s", diff)
		}
	})
}

func TestMerge_YAML(t *testing.T) {
	isolate(t)

	out, err := execute(t, "merge", "-o", "yaml", testutil.FixturePath(t, "motd.json"))
	require.NoError(t, err)
	assert.False(t, strings.HasPrefix(out, "{"))
	assert.Contains(t, out, "shapes:")

	m, err := jsonast.Read([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, 7, m.Len())
}

func TestMerge_Conflict(t *testing.T) {
	isolate(t)
	dir := testutil.CopyFixture(t, "motd.json", "motd-conflict.json")

	_, err := execute(t, "merge", dir)
	requireExitCode(t, err, oerrors.ExitConflict)
	assert.ErrorIs(t, err, core.ErrShapeConflict)
}
