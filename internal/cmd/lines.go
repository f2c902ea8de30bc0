package cmd

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shapemodel/cli/internal/core"
)

// NewLinesCmd creates the lines command.
func NewLinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lines <path>...",
		Short: "Print a model as sorted canonical lines",
		Long: `Assemble a model and print one line per fact: shape kinds, member targets,
relationships and applied traits, sorted.

The output does not depend on source order, which makes it suitable for
golden files and line-based diff tools.

Examples:
  shapes lines ./model
  shapes lines motd.json motd-extras.yaml | grep '::trait::'`,
		Args: cobra.MinimumNArgs(1),
		RunE: runLines,
	}
}

func runLines(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return reportError("loading configuration", err)
	}

	model, err := assembleModel(cmd.Context(), cfg, args)
	if err != nil {
		return reportError("assembling model", err)
	}

	lines := core.Lines(model.Model)
	if len(lines) == 0 {
		return nil
	}
	if _, err := io.WriteString(cmd.OutOrStdout(), strings.Join(lines, "\n")+"\n"); err != nil {
		return reportError("writing output", err)
	}
	return nil
}
