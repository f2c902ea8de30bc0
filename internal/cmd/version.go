package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shapemodel/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show shapes CLI version information.

Displays:
  - shapes CLI version, commit, and build date
  - Go version
  - CUE SDK version (used to read .cue models)`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(cmd.OutOrStdout(), version.Get().String())
	return nil
}
