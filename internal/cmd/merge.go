package cmd

import (
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/shapemodel/cli/internal/format/jsonast"
	"github.com/shapemodel/cli/internal/output"
)

// NewMergeCmd creates the merge command.
func NewMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <path>...",
		Short: "Merge model files into one JSON AST document",
		Long: `Assemble every model file into a single model and print it as a JSON AST
document. With -o yaml the same document is printed as YAML.

Conflicting shape definitions, trait values or metadata stop the merge and
exit with code 4.

Examples:
  # Merge a directory into one file
  shapes merge ./model > model.json

  # Strict merge, failing on unresolved references
  shapes merge --strict a.json b.cue`,
		Args: cobra.MinimumNArgs(1),
		RunE: runMerge,
	}
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return reportError("loading configuration", err)
	}

	model, err := assembleModel(cmd.Context(), cfg, args)
	if err != nil {
		return reportError("assembling model", err)
	}

	data, err := jsonast.Write(model.Model)
	if err != nil {
		return reportError("encoding model", err)
	}
	if outputFormat(cfg) == output.FormatYAML {
		if data, err = yaml.JSONToYAML(data); err != nil {
			return reportError("encoding model", err)
		}
	}

	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return reportError("writing output", err)
	}
	return nil
}
