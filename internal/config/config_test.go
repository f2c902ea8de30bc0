package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/shapemodel/cli/internal/assembly"
	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/identity"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Namespace)
	assert.False(t, cfg.Strict)
	assert.Equal(t, "text", cfg.Output)
	assert.Equal(t, assembly.DefaultExtensions, cfg.Extensions)
	require.NotNil(t, cfg.Log.Timestamps)
	assert.True(t, *cfg.Log.Timestamps)

	// The defaults slice is a copy.
	cfg.Extensions[0] = ".changed"
	assert.NotEqual(t, ".changed", assembly.DefaultExtensions[0])
}

func TestConfig_Marshal(t *testing.T) {
	data, err := DefaultConfig().Marshal()
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "strict: false")
	assert.Contains(t, out, "output: text")
	assert.Contains(t, out, "- .json")
	assert.Contains(t, out, "timestamps: true")
	assert.NotContains(t, out, "namespace")

	var back Config
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, *DefaultConfig(), back)
}

func TestConfig_AssemblyOptions(t *testing.T) {
	t.Run("copies settings", func(t *testing.T) {
		cfg := &Config{Namespace: "example.motd", Strict: true, Extensions: []string{".json"}}
		opts, err := cfg.AssemblyOptions()
		require.NoError(t, err)
		assert.Equal(t, assembly.Options{
			Namespace:  identity.NamespaceID("example.motd"),
			Strict:     true,
			Extensions: []string{".json"},
		}, opts)
	})

	t.Run("rejects invalid namespace", func(t *testing.T) {
		cfg := &Config{Namespace: "example..motd"}
		_, err := cfg.AssemblyOptions()
		assert.ErrorIs(t, err, identity.ErrInvalidNamespace)
		assert.ErrorIs(t, err, oerrors.ErrInvalidInput)
	})
}
