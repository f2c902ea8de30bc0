package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shapemodel/cli/internal/config"
	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the shapes CLI configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML
  3. Keys and value types match the config schema
  4. Values are usable (namespace syntax, output format, extensions)

The config path is resolved using precedence:
  --config flag > SHAPES_CONFIG env > ~/.shapes/config.yaml

Examples:
  # Validate default configuration
  shapes config vet

  # Validate custom config path
  shapes config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: runConfigVet,
	}
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	pathResult, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		return reportError("resolving config path", oerrors.Wrap(oerrors.ErrNotFound, "could not resolve config path"))
	}
	configPath := pathResult.ConfigPath

	output.Debug("validating config",
		"path", configPath,
		"source", pathResult.Source,
	)

	exists, err := config.ConfigFileExists(configPath)
	if err != nil {
		return reportError("checking config file", err)
	}
	if !exists {
		return reportError("config vet", oerrors.NewNotFoundError(
			"configuration file not found",
			configPath,
			"Run 'shapes config init' to create default configuration",
		))
	}

	validator, err := config.NewValidator()
	if err != nil {
		return reportError("loading config schema", err)
	}
	if err := validator.ValidateFile(configPath); err != nil {
		return reportError("config validation failed", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), output.FormatCheckmark("Configuration is valid: " + configPath))
	return nil
}
