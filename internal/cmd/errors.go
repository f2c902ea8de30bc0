package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/shapemodel/cli/internal/assembly"
	"github.com/shapemodel/cli/internal/core"
	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/output"
)

// reportError prints err and returns an ExitError carrying the exit code for
// its category, marked as printed so main does not repeat it.
func reportError(msg string, err error) error {
	if err == nil {
		return nil
	}
	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		return err
	}

	printError(msg, err)
	return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
}

// printError renders detailed errors verbatim and everything else as a log
// line.
func printError(msg string, err error) {
	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		fmt.Fprint(os.Stderr, detail.Error())
		return
	}
	if conflict := conflictDetail(err); conflict != nil {
		fmt.Fprint(os.Stderr, conflict.Error())
		return
	}
	output.Error(msg, "error", err)
}

// conflictDetail describes a merge conflict with the source file and entry
// that caused it.
func conflictDetail(err error) error {
	var merge *core.MergeError
	if !errors.As(err, &merge) {
		return nil
	}
	location := ""
	var source *assembly.SourceError
	if errors.As(err, &source) {
		location = source.Source
	}
	return oerrors.NewConflictError(merge.Cause.Error(), location, merge.Entry, nil, err)
}
