package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/output"
	"github.com/shapemodel/cli/internal/resolver"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <path>...",
		Short: "Summarize an assembled model",
		Long: `Assemble a model and print its namespace, sources, shape counts by type,
use imports and metadata. Unresolved references are listed as warnings.

Examples:
  shapes inspect ./model
  shapes inspect ./model -o json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInspect,
	}
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return reportError("loading configuration", err)
	}

	model, err := assembleModel(cmd.Context(), cfg, args)
	if err != nil {
		return reportError("assembling model", err)
	}

	summary := summarize(model)
	if err := output.WriteSummary(summary, output.SummaryOptions{
		Format: outputFormat(cfg),
		Writer: cmd.OutOrStdout(),
	}); err != nil {
		return reportError("writing output", err)
	}
	return nil
}

func summarize(a *assembled) *output.Summary {
	m := a.Model
	s := &output.Summary{
		Namespace: string(m.Namespace()),
		Version:   m.Version(),
		Sources:   a.Sources,
		Shapes:    m.Len(),
		Kinds:     make(map[string]int),
	}
	for _, shape := range m.Shapes() {
		s.Kinds[shape.TypeName()]++
	}
	for _, use := range m.Uses() {
		s.Uses = append(s.Uses, use.String())
	}
	for _, key := range m.MetadataKeys() {
		v, _ := m.MetadataValue(key)
		s.Metadata = append(s.Metadata, output.MetadataRow{Key: key, Value: metadataText(v)})
	}
	for _, err := range resolver.New(m).Check(false) {
		s.Warnings = append(s.Warnings, err.Error())
	}
	return s
}

func metadataText(v core.Value) string {
	if s, ok := v.AsString(); ok {
		return s
	}
	return v.Describe()
}
