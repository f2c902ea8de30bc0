package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shapemodel/cli/internal/output"
)

// NewConfigShowCmd creates the config show command.
func NewConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective configuration",
		Long: `Show every configuration value with the source it came from.

Sources in precedence order: flag, env, config, default.

Examples:
  shapes config show
  SHAPES_STRICT=true shapes config show`,
		Args: cobra.NoArgs,
		RunE: runConfigShow,
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	if _, err := requireConfig(); err != nil {
		return reportError("loading configuration", err)
	}
	if configLoader == nil {
		return reportError("loading configuration", fmt.Errorf("configuration not loaded"))
	}

	t := output.NewTable("KEY", "VALUE", "SOURCE")
	for _, v := range configLoader.Resolved() {
		t.Row(v.Key, fmt.Sprint(v.Value), string(v.Source))
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	if configLoader.FileLoaded() {
		fmt.Fprintln(cmd.OutOrStdout(), "Config file: " + configLoader.Path())
	}
	return nil
}
