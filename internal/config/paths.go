package config

import (
	"os"
	"path/filepath"
)

// Paths contains standard filesystem paths for the shapes CLI.
type Paths struct {
	// ConfigFile is the path to the config file (~/.shapes/config.yaml).
	ConfigFile string

	// HomeDir is the shapes home directory (~/.shapes).
	HomeDir string
}

// DefaultPaths returns the default paths.
func DefaultPaths() (*Paths, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	home := filepath.Join(homeDir, ".shapes")
	return &Paths{
		ConfigFile: filepath.Join(home, "config.yaml"),
		HomeDir:    home,
	}, nil
}

// ExpandTilde expands a leading ~ or ~/ to the user's home directory.
// Other paths, including ~username, are returned unchanged.
func ExpandTilde(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' && path[1] != filepath.Separator {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if len(path) == 1 {
		return homeDir
	}
	return filepath.Join(homeDir, path[2:])
}
