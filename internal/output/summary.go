package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Summary describes an assembled model for `shapes inspect`.
type Summary struct {
	Namespace string         `json:"namespace" yaml:"namespace"`
	Version   string         `json:"version" yaml:"version"`
	Sources   []string       `json:"sources" yaml:"sources"`
	Shapes    int            `json:"shapes" yaml:"shapes"`
	Kinds     map[string]int `json:"kinds" yaml:"kinds"`
	Uses      []string       `json:"uses,omitempty" yaml:"uses,omitempty"`
	Metadata  []MetadataRow  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Warnings  []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// SummaryOptions controls summary output.
type SummaryOptions struct {
	// Format selects json, yaml, or the human-readable form for anything else.
	Format OutputFormat

	// Writer is the output destination.
	Writer io.Writer
}

// WriteSummary writes s in the requested format.
func WriteSummary(s *Summary, opts SummaryOptions) error {
	switch opts.Format {
	case FormatJSON:
		return writeJSON(opts.Writer, s)
	case FormatYAML:
		return writeYAML(opts.Writer, s)
	default:
		return writeSummaryHuman(s, opts.Writer)
	}
}

func writeSummaryHuman(s *Summary, w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("Model:\n")
	sb.WriteString(fmt.Sprintf("  Namespace: %s\n", StyleNoun.Render(s.Namespace)))
	sb.WriteString(fmt.Sprintf("  Version:   %s\n", s.Version))
	sb.WriteString(fmt.Sprintf("  Shapes:    %d\n", s.Shapes))
	if len(s.Uses) > 0 {
		sb.WriteString(fmt.Sprintf("  Uses:      %s\n", strings.Join(s.Uses, ", ")))
	}
	sb.WriteString("\n")

	if len(s.Sources) > 0 {
		sb.WriteString("Sources:\n")
		for _, src := range s.Sources {
			sb.WriteString("  " + src + "\n")
		}
		sb.WriteString("\n")
	}

	if len(s.Kinds) > 0 {
		kinds := make([]string, 0, len(s.Kinds))
		for k := range s.Kinds {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)

		sb.WriteString("Shapes by type:\n")
		for _, k := range kinds {
			sb.WriteString(fmt.Sprintf("  %-12s %d\n", k, s.Kinds[k]))
		}
		sb.WriteString("\n")
	}

	if len(s.Metadata) > 0 {
		sb.WriteString("Metadata:\n")
		sb.WriteString(RenderMetadataTable(s.Metadata))
		sb.WriteString("\n\n")
	}

	if len(s.Warnings) > 0 {
		sb.WriteString("Warnings:\n")
		for _, warning := range s.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", warning))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(FormatCheckmark(StyleSummary.Render(fmt.Sprintf("%d shapes from %d sources", s.Shapes, len(s.Sources)))))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
