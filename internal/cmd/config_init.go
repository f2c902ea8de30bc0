package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shapemodel/cli/internal/config"
	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/output"
)

var configInitForce bool

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Initialize the shapes CLI configuration.

Writes a config file with every default value to the resolved config path
(--config flag > SHAPES_CONFIG env > ~/.shapes/config.yaml).

Examples:
  # Initialize configuration
  shapes config init

  # Overwrite existing configuration
  shapes config init --force`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	pathResult, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		return reportError("resolving config path", oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory"))
	}
	configPath := pathResult.ConfigPath

	exists, err := config.ConfigFileExists(configPath)
	if err != nil {
		return reportError("checking config file", err)
	}
	if exists && !configInitForce {
		return reportError("config init", oerrors.NewValidationError(
			"configuration already exists", configPath, "",
			"Use --force to overwrite existing configuration."))
	}

	data, err := config.DefaultConfig().Marshal()
	if err != nil {
		return reportError("encoding config", err)
	}

	// Config directory and file are private to the user.
	if err := os.MkdirAll(filepath.Dir(configPath), 0o700); err != nil {
		return reportError("creating config directory", err)
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return reportError("writing config file", err)
	}

	output.Debug("config written", "path", configPath, "source", pathResult.Source)
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration initialized at " + configPath)
	fmt.Fprintln(cmd.OutOrStdout(), "Validate with: shapes config vet")
	return nil
}
