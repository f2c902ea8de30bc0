package cmd

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/testutil"
)

func TestDiff(t *testing.T) {
	isolate(t)
	base := testutil.FixturePath(t, "motd.json")
	extended := testutil.CopyFixture(t, "motd.json", "motd-extras.yaml")

	t.Run("identical", func(t *testing.T) {
		out, err := execute(t, "diff", base, base)
		require.NoError(t, err)
		assert.Equal(t, "No changes detected.\n", out)
	})

	t.Run("changes", func(t *testing.T) {
		out, err := execute(t, "diff", base, extended)
		require.NoError(t, err)
		assert.Contains(t, out, "Added:")
		assert.Contains(t, out, "  + example.motd#Tags")
		assert.Contains(t, out, "  ~ example.motd#Date")
		assert.Contains(t, out, "A calendar date.")
		assert.Contains(t, out, "Summary: 1 added, 3 modified")
		assert.NotContains(t, out, "Removed:")
	})

	t.Run("reversed", func(t *testing.T) {
		out, err := execute(t, "diff", extended, base)
		require.NoError(t, err)
		assert.Contains(t, out, "  - example.motd#Tags")
		assert.Contains(t, out, "Summary: 1 removed, 3 modified")
	})

	t.Run("name status", func(t *testing.T) {
		out, err := execute(t, "diff", base, extended, "--name-status")
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
		require.Len(t, lines, 4)
		assert.Contains(t, lines[0], "example.motd#Tags")
		assert.Contains(t, lines[0], "added")
		for _, line := range lines[1:] {
			assert.Contains(t, line, "modified")
		}
		assert.NotContains(t, out, "Summary:")
	})

	t.Run("name status without changes", func(t *testing.T) {
		out, err := execute(t, "diff", base, base, "--name-status")
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

func TestDiff_Errors(t *testing.T) {
	isolate(t)

	t.Run("needs two paths", func(t *testing.T) {
		_, err := execute(t, "diff", testutil.FixturePath(t, "motd.json"))
		assert.Error(t, err)
	})

	t.Run("conflicting side", func(t *testing.T) {
		dir := testutil.CopyFixture(t, "motd.json", "motd-conflict.json")
		_, err := execute(t, "diff", testutil.FixturePath(t, "motd.json"), dir)
		requireExitCode(t, err, oerrors.ExitConflict)
	})
}
