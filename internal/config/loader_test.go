package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("namespace", "", "")
	fs.Bool("strict", false, "")
	fs.String("output", "", "")
	fs.StringSlice("extensions", nil, "")
	fs.Bool("timestamps", true, "")
	return fs
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
	assert.NotNil(t, loader.v)
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "SHAPES_NAMESPACE", EnvName(KeyNamespace))
	assert.Equal(t, "SHAPES_LOG_TIMESTAMPS", EnvName(KeyTimestamps))
}

func TestLoaderLoad(t *testing.T) {
	t.Run("loads config from file", func(t *testing.T) {
		path := writeConfig(t, `
namespace: example.weather
strict: true
output: json
extensions: [.json, .cue]
log:
  timestamps: false
`)
		loader := NewLoader()
		cfg, err := loader.Load(path)
		require.NoError(t, err)

		assert.True(t, loader.FileLoaded())
		assert.Equal(t, path, loader.Path())
		assert.Equal(t, "example.weather", cfg.Namespace)
		assert.True(t, cfg.Strict)
		assert.Equal(t, "json", cfg.Output)
		assert.Equal(t, []string{".json", ".cue"}, cfg.Extensions)
		require.NotNil(t, cfg.Log.Timestamps)
		assert.False(t, *cfg.Log.Timestamps)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		loader := NewLoader()
		cfg, err := loader.Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
		require.NoError(t, err)

		assert.False(t, loader.FileLoaded())
		assert.Empty(t, cfg.Namespace)
		assert.Equal(t, "text", cfg.Output)
		assert.Equal(t, DefaultConfig().Extensions, cfg.Extensions)
		require.NotNil(t, cfg.Log.Timestamps)
		assert.True(t, *cfg.Log.Timestamps)
	})

	t.Run("env vars override file values", func(t *testing.T) {
		t.Setenv("SHAPES_NAMESPACE", "example.env")
		t.Setenv("SHAPES_STRICT", "true")
		t.Setenv("SHAPES_EXTENSIONS", ".yaml,.yml")
		path := writeConfig(t, "namespace: example.file\nstrict: false\n")

		cfg, err := NewLoader().Load(path)
		require.NoError(t, err)
		assert.Equal(t, "example.env", cfg.Namespace)
		assert.True(t, cfg.Strict)
		assert.Equal(t, []string{".yaml", ".yml"}, cfg.Extensions)
	})

	t.Run("flags override env", func(t *testing.T) {
		t.Setenv("SHAPES_OUTPUT", "yaml")
		fs := testFlags()
		require.NoError(t, fs.Parse([]string{"--output", "table"}))

		loader := NewLoader()
		require.NoError(t, loader.BindFlags(fs))
		cfg, err := loader.Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "table", cfg.Output)
	})

	t.Run("unset flags do not override", func(t *testing.T) {
		fs := testFlags()
		require.NoError(t, fs.Parse(nil))
		path := writeConfig(t, "output: yaml\n")

		loader := NewLoader()
		require.NoError(t, loader.BindFlags(fs))
		cfg, err := loader.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "yaml", cfg.Output)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfig(t, "output: [unclosed\n")
		_, err := NewLoader().Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading config file")
	})
}

func TestConfigFileExists(t *testing.T) {
	path := writeConfig(t, "")
	exists, err := ConfigFileExists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = ConfigFileExists(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.False(t, exists)
}
