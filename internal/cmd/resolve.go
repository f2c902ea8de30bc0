package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shapemodel/cli/internal/output"
	"github.com/shapemodel/cli/internal/resolver"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <reference> <path>...",
		Short: "Resolve a shape reference against a model",
		Long: `Assemble a model and resolve a relative or absolute shape reference.

Relative references are looked up in the model namespace, then its use
imports, then the prelude. Without --strict an absolute reference to an
unknown shape is returned as given.

Examples:
  shapes resolve Date ./model
  shapes resolve GetMessageInput\$date ./model -o json
  shapes resolve String ./model`,
		Args: cobra.MinimumNArgs(2),
		RunE: runResolve,
	}
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return reportError("loading configuration", err)
	}

	model, err := assembleModel(cmd.Context(), cfg, args[1:])
	if err != nil {
		return reportError("assembling model", err)
	}

	id, err := resolver.New(model.Model).ResolveString(args[0], cfg.Strict)
	if err != nil {
		return reportError("resolving reference", err)
	}
	output.Debug("reference resolved", "reference", args[0], "id", id.String())

	row := shapeRow(model.Model, id)
	if err := output.WriteShapes(cmd.OutOrStdout(), outputFormat(cfg), []output.ShapeRow{row}); err != nil {
		return reportError("writing output", err)
	}
	return nil
}
