// Package config provides configuration loading and management.
package config

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shapemodel/cli/internal/assembly"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty" yaml:"timestamps,omitempty" mapstructure:"timestamps"`
}

// Config represents the shapes CLI configuration.
// Loaded from ~/.shapes/config.yaml, validated against the embedded CUE schema.
type Config struct {
	// Namespace is given to assembled models whose sources declare none.
	// Env: SHAPES_NAMESPACE
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty" mapstructure:"namespace"`

	// Strict fails assembly when a reference does not resolve.
	// Env: SHAPES_STRICT, Default: false
	Strict bool `json:"strict,omitempty" yaml:"strict" mapstructure:"strict"`

	// Output is the default output format.
	// Env: SHAPES_OUTPUT, Default: text
	Output string `json:"output,omitempty" yaml:"output,omitempty" mapstructure:"output"`

	// Extensions lists the model file extensions read from directories.
	// Env: SHAPES_EXTENSIONS (comma separated)
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty" mapstructure:"extensions"`

	// Log contains logging-related settings.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty" mapstructure:"log"`
}

// DefaultConfig returns a Config with all default values populated.
// Used by `shapes config init` to generate the initial config file.
func DefaultConfig() *Config {
	timestamps := true
	return &Config{
		Output:     "text",
		Extensions: append([]string(nil), assembly.DefaultExtensions...),
		Log:        LogConfig{Timestamps: &timestamps},
	}
}

// Marshal renders c as a YAML config file.
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}
