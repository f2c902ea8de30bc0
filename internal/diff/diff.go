// Package diff compares two assembled models shape by shape.
package diff

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/gonvenience/ytbx"
	"github.com/homeport/dyff/pkg/dyff"
	"sigs.k8s.io/yaml"

	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/format/jsonast"
)

// Result lists the entries that differ between two models. Names are shape
// IDs, or `metadata "key"` for metadata entries, sorted.
type Result struct {
	Added    []string
	Removed  []string
	Modified []Modified
}

// Modified is an entry present in both models with different content.
type Modified struct {
	Name string

	// Diff is the rendered dyff report for the entry.
	Diff string
}

// IsEmpty reports whether the models are equivalent.
func (r *Result) IsEmpty() bool {
	return len(r.Added) == 0 && len(r.Removed) == 0 && len(r.Modified) == 0
}

// Summary returns a one-line count of changes.
func (r *Result) Summary() string {
	if r.IsEmpty() {
		return "No changes"
	}

	parts := make([]string, 0, 3)
	if len(r.Added) > 0 {
		parts = append(parts, fmt.Sprintf("%d added", len(r.Added)))
	}
	if len(r.Removed) > 0 {
		parts = append(parts, fmt.Sprintf("%d removed", len(r.Removed)))
	}
	if len(r.Modified) > 0 {
		parts = append(parts, fmt.Sprintf("%d modified", len(r.Modified)))
	}
	return strings.Join(parts, ", ")
}

// Models compares from against to. Shapes are compared through their JSON
// AST nodes, so member order and trait insertion order do not count as
// changes.
func Models(from, to *core.Model, useColor bool) (*Result, error) {
	before, err := entries(from)
	if err != nil {
		return nil, fmt.Errorf("encoding old model: %w", err)
	}
	after, err := entries(to)
	if err != nil {
		return nil, fmt.Errorf("encoding new model: %w", err)
	}

	result := &Result{}
	for _, name := range sortedKeys(after) {
		if _, ok := before[name]; !ok {
			result.Added = append(result.Added, name)
		}
	}
	for _, name := range sortedKeys(before) {
		next, ok := after[name]
		if !ok {
			result.Removed = append(result.Removed, name)
			continue
		}
		if bytes.Equal(before[name], next) {
			continue
		}
		report, err := compareNodes(name, before[name], next, useColor)
		if err != nil {
			return nil, fmt.Errorf("comparing %s: %w", name, err)
		}
		if report != "" {
			result.Modified = append(result.Modified, Modified{Name: name, Diff: report})
		}
	}
	return result, nil
}

// entries returns the JSON encoding of every shape and metadata entry of m.
func entries(m *core.Model) (map[string][]byte, error) {
	out, err := jsonast.ShapeNodes(m)
	if err != nil {
		return nil, err
	}
	for _, key := range m.MetadataKeys() {
		v, _ := m.MetadataValue(key)
		data, err := yaml.Marshal(map[string]any{"value": v.Interface()})
		if err != nil {
			return nil, fmt.Errorf("encoding metadata %q: %w", key, err)
		}
		out[fmt.Sprintf("metadata %q", key)] = data
	}
	return out, nil
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// compareNodes renders a dyff report between two encodings of the same
// entry. JSON input is valid YAML, but it is converted first so the report
// quotes block-style paths and values.
func compareNodes(name string, from, to []byte, useColor bool) (string, error) {
	fromYAML, err := yaml.JSONToYAML(from)
	if err != nil {
		return "", err
	}
	toYAML, err := yaml.JSONToYAML(to)
	if err != nil {
		return "", err
	}

	fromInput, err := parseYAMLInput(name, fromYAML)
	if err != nil {
		return "", fmt.Errorf("parsing old %s: %w", name, err)
	}
	toInput, err := parseYAMLInput(name, toYAML)
	if err != nil {
		return "", fmt.Errorf("parsing new %s: %w", name, err)
	}

	report, err := dyff.CompareInputFiles(fromInput, toInput)
	if err != nil {
		return "", err
	}
	if len(report.Diffs) == 0 {
		return "", nil
	}
	return renderReport(report, useColor)
}

func parseYAMLInput(location string, data []byte) (ytbx.InputFile, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ytbx.InputFile{Location: location}, nil
	}
	docs, err := ytbx.LoadYAMLDocuments(data)
	if err != nil {
		return ytbx.InputFile{}, err
	}
	return ytbx.InputFile{Location: location, Documents: docs}, nil
}

func renderReport(report dyff.Report, useColor bool) (string, error) {
	var buf bytes.Buffer
	w := &dyff.HumanReport{
		Report:            report,
		DoNotInspectCerts: true,
		NoTableStyle:      !useColor,
		OmitHeader:        true,
	}
	if err := w.WriteReport(io.Writer(&buf)); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}

	lines := strings.Split(buf.String(), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
