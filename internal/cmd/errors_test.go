package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapemodel/cli/internal/assembly"
	"github.com/shapemodel/cli/internal/core"
	oerrors "github.com/shapemodel/cli/internal/errors"
)

func TestReportError(t *testing.T) {
	assert.NoError(t, reportError("nothing", nil))

	t.Run("maps the category to an exit code", func(t *testing.T) {
		err := reportError("loading", oerrors.Wrap(oerrors.ErrNotFound, "model missing"))
		var exitErr *oerrors.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, oerrors.ExitNotFound, exitErr.Code)
		assert.True(t, exitErr.Printed)
	})

	t.Run("passes exit errors through", func(t *testing.T) {
		in := oerrors.NewExitError(errors.New("boom"), 7)
		assert.Same(t, in, reportError("anything", in))
	})

	t.Run("unknown errors are general", func(t *testing.T) {
		err := reportError("anything", errors.New("boom"))
		assert.Equal(t, oerrors.ExitGeneralError, oerrors.ExitCodeFromError(err))
	})
}

func TestConflictDetail(t *testing.T) {
	assert.Nil(t, conflictDetail(errors.New("plain")))

	merge := &core.MergeError{Entry: "shape example.motd#Date", Cause: core.ErrShapeConflict}
	err := &assembly.SourceError{Source: "model/motd.json", Err: merge}

	detail := conflictDetail(err)
	require.NotNil(t, detail)

	var de *oerrors.DetailError
	require.ErrorAs(t, detail, &de)
	assert.Equal(t, "model/motd.json", de.Location)
	assert.Equal(t, "shape example.motd#Date", de.Field)
	assert.ErrorIs(t, detail, oerrors.ErrConflict)
	assert.Equal(t, oerrors.ExitConflict, oerrors.ExitCodeFromError(detail))
}
