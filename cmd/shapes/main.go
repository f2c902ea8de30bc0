// Package main is the entry point for the shapes CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/shapemodel/cli/internal/cmd"
	oerrors "github.com/shapemodel/cli/internal/errors"
)

func main() {
	os.Exit(run())
}

// run executes the command tree and returns the process exit code.
// Interrupts cancel the context, which stops assembly between sources.
func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cmd.NewRootCmd().ExecuteContext(ctx)
	if err == nil {
		return oerrors.ExitSuccess
	}

	var exitErr *oerrors.ExitError
	if errors.As(err, &exitErr) {
		if !exitErr.Printed {
			fmt.Fprintln(os.Stderr, err)
		}
		return exitErr.Code
	}

	// Flag and argument errors from cobra
	fmt.Fprintln(os.Stderr, err)
	return oerrors.ExitCodeFromError(err)
}
