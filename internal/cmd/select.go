package cmd

import (
	"github.com/spf13/cobra"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/identity"
	"github.com/shapemodel/cli/internal/output"
	"github.com/shapemodel/cli/internal/prelude"
	"github.com/shapemodel/cli/internal/selector"
)

// NewSelectCmd creates the select command.
func NewSelectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "select <selector> <path>...",
		Short: "Query a model with a selector",
		Long: `Assemble a model and print the shapes and members a selector matches.

Arguments:
  selector   Selector expression, e.g. 'structure > member'
  path       Model file or directory (repeatable)

Examples:
  # List every operation
  shapes select operation ./model

  # Members targeting strings, as a table
  shapes select 'member > string' ./model -o table

  # Shapes with a documentation trait, grouped by namespace
  shapes select '[trait|documentation]' ./model -o tree`,
		Args: cobra.MinimumNArgs(2),
		RunE: runSelect,
	}
}

func runSelect(cmd *cobra.Command, args []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return reportError("loading configuration", err)
	}

	sel, err := selector.Parse(args[0])
	if err != nil {
		return reportError("parsing selector", err)
	}

	model, err := assembleModel(cmd.Context(), cfg, args[1:])
	if err != nil {
		return reportError("assembling model", err)
	}

	matched := selector.Evaluate(model.Model, sel)
	output.ModelLogger(string(model.Model.Namespace())).Debug("selector evaluated",
		"selector", sel.String(),
		"matches", matched.Len(),
	)

	if err := output.WriteShapes(cmd.OutOrStdout(), outputFormat(cfg), shapeRows(model.Model, matched)); err != nil {
		return reportError("writing output", err)
	}
	return nil
}

// shapeRows describes each projected entry. Entries that are not in the
// model are looked up in the prelude.
func shapeRows(m *core.Model, p selector.Projection) []output.ShapeRow {
	rows := make([]output.ShapeRow, 0, p.Len())
	for _, id := range p.IDs() {
		rows = append(rows, shapeRow(m, id))
	}
	return rows
}

func shapeRow(m *core.Model, id identity.ShapeID) output.ShapeRow {
	row := output.ShapeRow{ID: id.String()}
	if id.IsMember() {
		row.Type = "member"
		member, ok := m.Member(id)
		if !ok {
			member, ok = prelude.Model().Member(id)
		}
		if ok {
			row.Target = member.Target.String()
		}
		return row
	}

	shape, ok := m.Shape(id)
	if !ok {
		shape, ok = prelude.Model().Shape(id)
	}
	if ok {
		row.Type = shape.TypeName()
	}
	return row
}
