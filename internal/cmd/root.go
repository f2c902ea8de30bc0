// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shapemodel/cli/internal/config"
	"github.com/shapemodel/cli/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool
	namespaceFlag  string
	strictFlag     bool
	outputFlag     string
	extensionsFlag []string

	// Resolved configuration (loaded during PersistentPreRunE)
	shapesConfig *config.Config
	configLoader *config.Loader
	configErr    error
)

// NewRootCmd creates the root command for the shapes CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shapes",
		Short: "Shape model toolkit",
		Long: `shapes assembles Smithy-style shape models from JSON, YAML and CUE sources
and queries them with selectors.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: SHAPES_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")
	rootCmd.PersistentFlags().StringVarP(&namespaceFlag, "namespace", "n", "", "Namespace for models that declare none (env: SHAPES_NAMESPACE)")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict", false, "Fail on unresolved references (env: SHAPES_STRICT)")
	rootCmd.PersistentFlags().StringVarP(&outputFlag, "output", "o", "", "Output format: text, yaml, json, table, tree (env: SHAPES_OUTPUT)")
	rootCmd.PersistentFlags().StringSliceVar(&extensionsFlag, "extensions", nil, "Model file extensions read from directories (env: SHAPES_EXTENSIONS)")

	// Add subcommands
	rootCmd.AddCommand(NewSelectCmd())
	rootCmd.AddCommand(NewLinesCmd())
	rootCmd.AddCommand(NewMergeCmd())
	rootCmd.AddCommand(NewResolveCmd())
	rootCmd.AddCommand(NewDiffCmd())
	rootCmd.AddCommand(NewInspectCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals loads configuration and sets up logging. Load and
// validation failures are recorded rather than returned so that commands
// which do not read models (config init, version) still run.
func initializeGlobals(cmd *cobra.Command) error {
	// Verbose logging covers config resolution itself.
	output.SetupLogging(output.LogConfig{Verbose: verboseFlag})

	configLoader = nil
	shapesConfig, configErr = loadConfig(cmd)

	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if shapesConfig.Log.Timestamps != nil {
		logCfg.Timestamps = shapesConfig.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if configErr != nil {
		output.Debug("config load error", "error", configErr)
	}
	return nil
}

// loadConfig resolves and validates the configuration. It always returns a
// usable config, falling back to defaults when loading fails.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	pathResult, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		return config.DefaultConfig(), err
	}

	loader := config.NewLoader()
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return config.DefaultConfig(), err
	}
	cfg, err := loader.Load(pathResult.ConfigPath)
	if err != nil {
		return config.DefaultConfig(), err
	}
	configLoader = loader

	validator, err := config.NewValidator()
	if err != nil {
		return config.DefaultConfig(), err
	}
	if loader.FileLoaded() {
		if err := validator.ValidateFile(loader.Path()); err != nil {
			return config.DefaultConfig(), err
		}
	}
	if err := validator.Validate(cfg); err != nil {
		return config.DefaultConfig(), err
	}

	if verboseFlag {
		output.Debug("initializing CLI",
			"config", pathResult.ConfigPath,
			"config_source", pathResult.Source,
			"config_loaded", loader.FileLoaded(),
		)
		config.LogResolvedValues(loader.Resolved())
	}
	return cfg, nil
}

// requireConfig returns the loaded configuration, or the error that
// prevented loading it.
func requireConfig() (*config.Config, error) {
	if configErr != nil {
		return nil, configErr
	}
	if shapesConfig == nil {
		return config.DefaultConfig(), nil
	}
	return shapesConfig, nil
}
