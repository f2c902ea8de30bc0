package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ShapeRow is one shape or member in query output.
type ShapeRow struct {
	ID     string `json:"id" yaml:"id"`
	Type   string `json:"type" yaml:"type"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// MetadataRow is one metadata entry rendered as text.
type MetadataRow struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// WriteShapes writes rows to w in the given format. Text output is one ID
// per line.
func WriteShapes(w io.Writer, format OutputFormat, rows []ShapeRow) error {
	switch format {
	case FormatText, "":
		var sb strings.Builder
		for _, r := range rows {
			sb.WriteString(r.ID)
			sb.WriteString("\n")
		}
		_, err := io.WriteString(w, sb.String())
		return err
	case FormatJSON:
		if rows == nil {
			rows = []ShapeRow{}
		}
		return writeJSON(w, rows)
	case FormatYAML:
		if rows == nil {
			rows = []ShapeRow{}
		}
		return writeYAML(w, rows)
	case FormatTable:
		_, err := io.WriteString(w, RenderShapeTable(rows)+"\n")
		return err
	case FormatTree:
		_, err := io.WriteString(w, RenderShapeTree(rows))
		return err
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
