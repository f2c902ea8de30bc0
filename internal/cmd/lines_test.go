package cmd

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/testutil"
)

func TestLines(t *testing.T) {
	isolate(t)

	out, err := execute(t, "lines", testutil.FixturePath(t, "motd.json"))
	require.NoError(t, err)

	want := testutil.GoldenLines(t, "motd.lines")
	if diff := cmp.Diff(want, strings.Split(strings.TrimSuffix(out, "\n"), "\n")); diff != "" {
		t.Errorf("lines output mismatch (-want +got):\n%s", diff)
	}
}

func TestLines_CUESource(t *testing.T) {
	isolate(t)

	out, err := execute(t, "lines", "--strict", testutil.FixturePath(t, "motd.cue"))
	require.NoError(t, err)

	want := testutil.GoldenLines(t, "motd.lines")
	if diff := cmp.Diff(want, strings.Split(strings.TrimSuffix(out, "\n"), "\n")); diff != "" {
		t.Errorf("lines output mismatch (-want +got):\n%s", diff)
	}
}

func TestLines_Strict(t *testing.T) {
	isolate(t)

	_, err := execute(t, "lines", "--strict", testutil.FixturePath(t, "motd-extras.yaml"))
	requireExitCode(t, err, oerrors.ExitValidationError)
}
