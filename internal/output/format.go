// Package output provides terminal output utilities for the shapes CLI.
package output

import "strings"

// OutputFormat specifies the output format.
type OutputFormat string

const (
	// FormatText outputs one entry per line.
	FormatText OutputFormat = "text"

	// FormatYAML outputs in YAML format.
	FormatYAML OutputFormat = "yaml"

	// FormatJSON outputs in JSON format.
	FormatJSON OutputFormat = "json"

	// FormatTable outputs in table format.
	FormatTable OutputFormat = "table"

	// FormatTree outputs shapes grouped by namespace and shape.
	FormatTree OutputFormat = "tree"
)

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// Valid checks if the output format is valid.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatText, FormatYAML, FormatJSON, FormatTable, FormatTree:
		return true
	default:
		return false
	}
}

// ParseOutputFormat parses a string into an OutputFormat. The second result
// is false when s names no known format.
func ParseOutputFormat(s string) (OutputFormat, bool) {
	switch strings.ToLower(s) {
	case "text", "txt":
		return FormatText, true
	case "yaml", "yml":
		return FormatYAML, true
	case "json":
		return FormatJSON, true
	case "table":
		return FormatTable, true
	case "tree":
		return FormatTree, true
	default:
		return OutputFormat(s), false
	}
}

// ValidFormats returns a slice of valid output format strings.
func ValidFormats() []string {
	return []string{"text", "yaml", "json", "table", "tree"}
}
