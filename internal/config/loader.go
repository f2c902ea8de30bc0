package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/shapemodel/cli/internal/assembly"
	"github.com/shapemodel/cli/internal/identity"
)

// Environment variable prefix for shapes configuration.
const envPrefix = "SHAPES"

// EnvConfig names the environment variable holding the config file path.
const EnvConfig = envPrefix + "_CONFIG"

// Config keys, in the order they are resolved and logged.
const (
	KeyNamespace  = "namespace"
	KeyStrict     = "strict"
	KeyOutput     = "output"
	KeyExtensions = "extensions"
	KeyTimestamps = "log.timestamps"
)

var keys = []string{KeyNamespace, KeyStrict, KeyOutput, KeyExtensions, KeyTimestamps}

// flagNames maps config keys to the CLI flags that override them.
var flagNames = map[string]string{
	KeyNamespace:  "namespace",
	KeyStrict:     "strict",
	KeyOutput:     "output",
	KeyExtensions: "extensions",
	KeyTimestamps: "timestamps",
}

// EnvName returns the environment variable that overrides key,
// e.g. SHAPES_LOG_TIMESTAMPS for log.timestamps.
func EnvName(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Loader loads configuration with precedence flag > env > config file >
// default.
type Loader struct {
	v        *viper.Viper
	file     *viper.Viper
	flags    map[string]*pflag.Flag
	path     string
	fileRead bool
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key, EnvName(key))
	}

	d := DefaultConfig()
	v.SetDefault(KeyStrict, d.Strict)
	v.SetDefault(KeyOutput, d.Output)
	v.SetDefault(KeyExtensions, d.Extensions)
	v.SetDefault(KeyTimestamps, *d.Log.Timestamps)

	return &Loader{v: v, file: viper.New(), flags: make(map[string]*pflag.Flag)}
}

// BindFlags binds the config-backed flags present in fs. Flags only take
// effect when set on the command line.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for _, key := range keys {
		f := fs.Lookup(flagNames[key])
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", f.Name, err)
		}
		l.flags[key] = f
	}
	return nil
}

// Load loads configuration from the given file path. If configFile is
// empty, the default config file path is used. A missing file is not an
// error; defaults and environment variables still apply.
func (l *Loader) Load(configFile string) (*Config, error) {
	if configFile == "" {
		paths, err := DefaultPaths()
		if err != nil {
			return nil, fmt.Errorf("getting config file path: %w", err)
		}
		configFile = paths.ConfigFile
	}
	l.path = ExpandTilde(configFile)

	l.file.SetConfigFile(l.path)
	l.file.SetConfigType("yaml")
	if err := l.file.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file %s: %w", l.path, err)
		}
	} else {
		l.fileRead = true
		if err := l.v.MergeConfigMap(l.file.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging config file %s: %w", l.path, err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Extensions = splitList(cfg.Extensions)
	return &cfg, nil
}

// Path returns the expanded config file path used by the last Load.
func (l *Loader) Path() string {
	return l.path
}

// FileLoaded reports whether the last Load read a config file.
func (l *Loader) FileLoaded() bool {
	return l.fileRead
}

// ConfigFileExists checks if the config file exists.
func ConfigFileExists(configFile string) (bool, error) {
	_, err := os.Stat(ExpandTilde(configFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// splitList flattens comma-separated entries, which is how list values
// arrive from environment variables.
func splitList(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// AssemblyOptions converts the namespace, extension and strict settings
// for the assembler. An invalid namespace is an error.
func (c *Config) AssemblyOptions() (assembly.Options, error) {
	opts := assembly.Options{Strict: c.Strict, Extensions: c.Extensions}
	if c.Namespace != "" {
		ns, err := identity.NewNamespaceID(c.Namespace)
		if err != nil {
			return assembly.Options{}, err
		}
		opts.Namespace = ns
	}
	return opts, nil
}
