package cmd

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/output"
	"github.com/shapemodel/cli/internal/testutil"
)

func TestResolve(t *testing.T) {
	isolate(t)
	motd := testutil.FixturePath(t, "motd.json")

	tests := []struct {
		name string
		ref  string
		want string
	}{
		{"model namespace", "Date", "example.motd#Date\n"},
		{"prelude", "String", "smithy.api#String\n"},
		{"absolute", "example.motd#GetMessage", "example.motd#GetMessage\n"},
		{"member", "GetMessageInput$date", "example.motd#GetMessageInput$date\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "resolve", tt.ref, motd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestResolve_MemberTarget(t *testing.T) {
	isolate(t)

	out, err := execute(t, "resolve", "GetMessageInput$date", testutil.FixturePath(t, "motd.json"), "-o", "json")
	require.NoError(t, err)

	var rows []output.ShapeRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "example.motd#Date", rows[0].Target)
}

func TestResolve_Errors(t *testing.T) {
	isolate(t)
	motd := testutil.FixturePath(t, "motd.json")

	t.Run("unknown relative name", func(t *testing.T) {
		_, err := execute(t, "resolve", "Nope", motd)
		requireExitCode(t, err, oerrors.ExitValidationError)
	})

	t.Run("malformed reference", func(t *testing.T) {
		_, err := execute(t, "resolve", "1bad", motd)
		requireExitCode(t, err, oerrors.ExitInvalidInput)
	})

	t.Run("unknown absolute is kept unless strict", func(t *testing.T) {
		out, err := execute(t, "resolve", "other.ns#Thing", motd)
		require.NoError(t, err)
		assert.Equal(t, "other.ns#Thing\n", out)

		_, err = execute(t, "resolve", "--strict", "other.ns#Thing", motd)
		requireExitCode(t, err, oerrors.ExitValidationError)
	})
}
