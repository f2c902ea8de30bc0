// Package cuesrc reads model documents written in CUE. The CUE source must
// evaluate to a concrete JSON AST document; definitions, hidden fields and
// comprehensions can be used to template shapes:
//
//	_ns: "example.motd"
//	_required: traits: "smithy.api#required": {}
//
//	shapes: "\(_ns)#GetMessageOutput": {
//		type: "structure"
//		members: message: _required & {target: "smithy.api#String"}
//	}
package cuesrc

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/format/jsonast"
)

//go:embed schema.cue
var schemaCUE []byte

// EvalError reports CUE source that does not evaluate to a valid document.
type EvalError struct {
	Source string

	// Details lists each CUE error with its path and source positions, in
	// the style of `cue vet`.
	Details string

	Cause error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("evaluating %s: %s", e.Source, e.Details)
}

func (e *EvalError) Unwrap() []error {
	return []error{jsonast.ErrDecode, e.Cause}
}

// Read evaluates CUE source named name and decodes the result as a JSON AST
// document.
func Read(name string, data []byte) (*core.Model, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compiling document schema: %w", err)
	}

	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return nil, newEvalError(name, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, newEvalError(name, err)
	}

	// Only regular fields are exported, so definitions and hidden fields
	// used for templating never reach the closed document schema.
	exported, err := v.MarshalJSON()
	if err != nil {
		return nil, newEvalError(name, err)
	}
	doc := schema.LookupPath(cue.ParsePath("#Document")).Unify(ctx.CompileBytes(exported, cue.Filename(name)))
	if err := doc.Validate(cue.Concrete(true)); err != nil {
		return nil, newEvalError(name, err)
	}

	out, err := doc.MarshalJSON()
	if err != nil {
		return nil, newEvalError(name, err)
	}
	return jsonast.Read(out)
}

func newEvalError(name string, err error) *EvalError {
	return &EvalError{Source: name, Details: formatDetails(err), Cause: err}
}

// formatDetails renders one line per CUE error, sorted and deduplicated:
//
//	shapes."ns#A".type: conflicting values "widget" and "blob" (and 21 more) (motd.cue:3:9)
func formatDetails(err error) string {
	errs := cueerrors.Errors(cueerrors.Sanitize(cueerrors.Promote(err, "")))
	if len(errs) == 0 {
		return err.Error()
	}

	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		var b strings.Builder
		if path := strings.Join(e.Path(), "."); path != "" {
			b.WriteString(path)
			b.WriteString(": ")
		}
		format, args := e.Msg()
		b.WriteString(fmt.Sprintf(format, args...))

		var positions []string
		for _, p := range cueerrors.Positions(e) {
			if pos := p.Position(); pos.IsValid() {
				positions = append(positions, fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column))
			}
		}
		if len(positions) > 0 {
			b.WriteString(" (" + strings.Join(positions, ", ") + ")")
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}
