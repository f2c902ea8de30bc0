package cmd

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shapemodel/cli/internal/diff"
	"github.com/shapemodel/cli/internal/output"
)

var diffNameStatus bool

// NewDiffCmd creates the diff command.
func NewDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare two models shape by shape",
		Long: `Assemble two models and report added, removed and modified shapes and
metadata entries. Modified entries show a structural diff of their JSON AST
form, so member order does not count as a change.

Arguments:
  old   Model file or directory before the change
  new   Model file or directory after the change

Examples:
  shapes diff ./model-v1 ./model-v2
  shapes diff motd.json ./model

  # One line per changed entry
  shapes diff ./model-v1 ./model-v2 --name-status`,
		Args: cobra.ExactArgs(2),
		RunE: runDiff,
	}

	cmd.Flags().BoolVar(&diffNameStatus, "name-status", false,
		"Print only the name and status of each changed entry")

	return cmd
}

func runDiff(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return reportError("loading configuration", err)
	}

	before, err := assembleModel(cmd.Context(), cfg, args[:1])
	if err != nil {
		return reportError("assembling "+args[0], err)
	}
	after, err := assembleModel(cmd.Context(), cfg, args[1:])
	if err != nil {
		return reportError("assembling "+args[1], err)
	}

	useColor := output.ColorEnabled()
	result, err := diff.Models(before.Model, after.Model, useColor)
	if err != nil {
		return reportError("comparing models", err)
	}
	output.Debug("models compared", "old", args[0], "new", args[1], "summary", result.Summary())

	modified := make([]output.ModifiedItem, 0, len(result.Modified))
	for _, m := range result.Modified {
		modified = append(modified, output.ModifiedItem{Name: m.Name, Diff: m.Diff})
	}

	var report string
	if diffNameStatus {
		report = output.RenderChangeLines(result.Added, result.Removed, modified)
	} else {
		styles := output.NoColorStyles()
		if useColor {
			styles = output.GetStyles()
		}
		report = output.RenderDiff(result.Added, result.Removed, modified, styles)
	}
	if report != "" && !strings.HasSuffix(report, "\n") {
		report += "\n"
	}
	if _, err := io.WriteString(cmd.OutOrStdout(), report); err != nil {
		return reportError("writing output", err)
	}
	return nil
}
