// Package testutil provides test helpers shared by the shapes packages.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// FixturePath returns the absolute path to a shared model fixture under
// testdata/fixtures at the repository root.
func FixturePath(t *testing.T, parts ...string) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	// Walk up to find testdata/fixtures
	dir := wd
	for {
		fixturesPath := filepath.Join(dir, "testdata", "fixtures")
		if _, err := os.Stat(fixturesPath); err == nil {
			return filepath.Join(append([]string{fixturesPath}, parts...)...)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find testdata/fixtures directory from %s", wd)
		}
		dir = parent
	}
}

// ReadFixture returns the contents of a shared fixture.
func ReadFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(FixturePath(t, name))
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return data
}

// GoldenLines returns a golden fixture split into lines, without the
// trailing newline.
func GoldenLines(t *testing.T, name string) []string {
	t.Helper()
	return strings.Split(strings.TrimRight(string(ReadFixture(t, name)), "\n"), "\n")
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// CopyFixture copies fixture files into a fresh temporary directory and
// returns it.
func CopyFixture(t *testing.T, names ...string) string {
	t.Helper()
	dst := t.TempDir()
	for _, name := range names {
		WriteFile(t, dst, name, string(ReadFixture(t, name)))
	}
	return dst
}
