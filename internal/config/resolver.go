package config

import (
	"os"
	"sort"

	"github.com/shapemodel/cli/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records the effective value of one config key and the
// lower-precedence values it shadowed.
type ResolvedValue struct {
	Key      string
	Value    any
	Source   ConfigSource
	Shadowed map[ConfigSource]any
}

// Resolved reports the provenance of every config key after Load.
func (l *Loader) Resolved() []ResolvedValue {
	values := make([]ResolvedValue, 0, len(keys))
	for _, key := range keys {
		values = append(values, l.resolve(key))
	}
	return values
}

func (l *Loader) resolve(key string) ResolvedValue {
	// Candidates in precedence order.
	type candidate struct {
		source ConfigSource
		value  any
	}
	var found []candidate

	if f, ok := l.flags[key]; ok && f.Changed {
		found = append(found, candidate{SourceFlag, f.Value.String()})
	}
	if env := os.Getenv(EnvName(key)); env != "" {
		found = append(found, candidate{SourceEnv, env})
	}
	if l.fileRead && l.file.IsSet(key) {
		found = append(found, candidate{SourceConfig, l.file.Get(key)})
	}
	if def, ok := defaultValue(key); ok {
		found = append(found, candidate{SourceDefault, def})
	}

	rv := ResolvedValue{Key: key, Value: l.v.Get(key), Source: SourceDefault, Shadowed: make(map[ConfigSource]any)}
	for i, c := range found {
		if i == 0 {
			rv.Source = c.source
			continue
		}
		rv.Shadowed[c.source] = c.value
	}
	return rv
}

func defaultValue(key string) (any, bool) {
	d := DefaultConfig()
	switch key {
	case KeyStrict:
		return d.Strict, true
	case KeyOutput:
		return d.Output, true
	case KeyExtensions:
		return d.Extensions, true
	case KeyTimestamps:
		return *d.Log.Timestamps, true
	default:
		return nil, false
	}
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) SHAPES_CONFIG env, (3) ~/.shapes/config.yaml default
func ResolveConfigPath(flagValue string) (ResolveConfigPathResult, error) {
	result := ResolveConfigPathResult{
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv(EnvConfig)

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	switch {
	case flagValue != "":
		result.ConfigPath = flagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	case envValue != "":
		result.ConfigPath = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	default:
		result.ConfigPath = defaultPath
		result.Source = SourceDefault
	}
	result.ConfigPath = ExpandTilde(result.ConfigPath)

	return result, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)

		sources := make([]string, 0, len(v.Shadowed))
		for source := range v.Shadowed {
			sources = append(sources, string(source))
		}
		sort.Strings(sources)
		for _, source := range sources {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", v.Shadowed[ConfigSource(source)],
			)
		}
	}
}
