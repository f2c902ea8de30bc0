// Package assembly combines model documents from files and in-memory sources
// into a single validated model.
package assembly

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/shapemodel/cli/internal/core"
	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/format/cuesrc"
	"github.com/shapemodel/cli/internal/format/jsonast"
	"github.com/shapemodel/cli/internal/identity"
	"github.com/shapemodel/cli/internal/output"
	"github.com/shapemodel/cli/internal/resolver"
)

// Reader decodes one source into a model. name identifies the source in
// diagnostics.
type Reader func(name string, data []byte) (*core.Model, error)

// DefaultExtensions lists the extensions recognised by a new Assembler.
var DefaultExtensions = []string{".cue", ".json", ".yaml", ".yml"}

// SourceError attributes a read or merge failure to a single source.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// ValidationError collects the references that failed to resolve once every
// source was merged.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("model validation failed: %v", e.Errors[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "model validation failed with %d errors:", len(e.Errors))
	for _, err := range e.Errors {
		b.WriteString("\n  ")
		b.WriteString(err.Error())
	}
	return b.String()
}

func (e *ValidationError) Unwrap() []error {
	return append([]error{oerrors.ErrValidation}, e.Errors...)
}

// Options configures an Assembler.
type Options struct {
	// Namespace is given to the assembled model when no source declares
	// one, before references are checked.
	Namespace identity.NamespaceID

	// Strict fails assembly when any reference does not resolve.
	Strict bool

	// Extensions restricts which registered readers are used when walking
	// directories. Empty means every registered extension.
	Extensions []string
}

type source struct {
	name string
	ext  string
	path string
	data []byte
}

// Assembler collects sources and merges them on Assemble. It is not safe
// for concurrent use.
type Assembler struct {
	opts    Options
	readers map[string]Reader
	sources []source
}

// New returns an assembler with readers for JSON, YAML and CUE documents.
func New(opts Options) *Assembler {
	a := &Assembler{opts: opts, readers: make(map[string]Reader)}
	document := func(_ string, data []byte) (*core.Model, error) { return jsonast.Read(data) }
	a.RegisterReader(".json", document)
	a.RegisterReader(".yaml", document)
	a.RegisterReader(".yml", document)
	a.RegisterReader(".cue", cuesrc.Read)
	return a
}

// RegisterReader installs r for files ending in ext, replacing any reader
// already registered for it.
func (a *Assembler) RegisterReader(ext string, r Reader) {
	a.readers[normalizeExt(ext)] = r
}

// Extensions returns the extensions that AddPath picks up, sorted.
func (a *Assembler) Extensions() []string {
	var out []string
	for ext := range a.readers {
		if a.enabled(ext) {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

func (a *Assembler) enabled(ext string) bool {
	if len(a.opts.Extensions) == 0 {
		return true
	}
	return slices.ContainsFunc(a.opts.Extensions, func(e string) bool { return normalizeExt(e) == ext })
}

// AddPath adds a file, or every file with an enabled extension below a
// directory. Files are read by Assemble.
func (a *Assembler) AddPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return oerrors.NewNotFoundError(fmt.Sprintf("model path %q does not exist", path), path,
				"Pass a model file or a directory containing model files")
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if !info.IsDir() {
		ext := normalizeExt(filepath.Ext(path))
		if _, ok := a.readers[ext]; !ok {
			return &SourceError{Source: path, Err: oerrors.Wrap(oerrors.ErrInvalidInput,
				fmt.Sprintf("no reader for %q files", ext))}
		}
		a.sources = append(a.sources, source{name: path, ext: ext, path: path})
		return nil
	}

	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != path && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := normalizeExt(filepath.Ext(p))
		if _, ok := a.readers[ext]; ok && a.enabled(ext) {
			a.sources = append(a.sources, source{name: p, ext: ext, path: p})
		}
		return nil
	})
}

// AddBytes adds an in-memory source decoded by the reader for ext.
func (a *Assembler) AddBytes(name, ext string, data []byte) {
	a.sources = append(a.sources, source{name: name, ext: normalizeExt(ext), data: data})
}

// Len returns the number of sources added so far.
func (a *Assembler) Len() int {
	return len(a.sources)
}

// Sources returns the names of the added sources in merge order.
func (a *Assembler) Sources() []string {
	names := make([]string, 0, len(a.sources))
	for _, src := range a.sources {
		names = append(names, src.name)
	}
	sort.Strings(names)
	return names
}

// Assemble reads every source in name order and merges them into one model.
// The first read or merge failure stops assembly and is returned as a
// *SourceError. A model left without a namespace takes Options.Namespace.
// When strict, unresolved references fail with a
// *ValidationError; otherwise they are logged as warnings.
func (a *Assembler) Assemble(ctx context.Context) (*core.Model, error) {
	sources := slices.Clone(a.sources)
	slices.SortStableFunc(sources, func(x, y source) int { return strings.Compare(x.name, y.name) })

	merged := core.NewModel("", "")
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		m, err := a.read(src)
		if err != nil {
			return nil, &SourceError{Source: src.name, Err: err}
		}

		logger := output.ModelLogger(string(m.Namespace()))
		logger.Debug("merging source", "source", src.name, "shapes", m.Len())
		if err := merged.Merge(m); err != nil {
			return nil, &SourceError{Source: src.name, Err: err}
		}
	}

	if merged.Namespace() == "" && a.opts.Namespace != "" {
		merged.SetNamespace(a.opts.Namespace)
	}

	errs := resolver.New(merged).Check(a.opts.Strict)
	if len(errs) > 0 {
		if a.opts.Strict {
			return nil, &ValidationError{Errors: errs}
		}
		for _, err := range errs {
			output.Warn("unresolved reference", "err", err)
		}
	}

	output.Debug("assembled model",
		"sources", len(sources),
		"shapes", merged.Len(),
		"namespace", merged.Namespace(),
		"strict", a.opts.Strict,
	)
	return merged, nil
}

func (a *Assembler) read(src source) (*core.Model, error) {
	r, ok := a.readers[src.ext]
	if !ok {
		return nil, oerrors.Wrap(oerrors.ErrInvalidInput, fmt.Sprintf("no reader for %q files", src.ext))
	}
	data := src.data
	if src.path != "" {
		var err error
		if data, err = os.ReadFile(src.path); err != nil {
			return nil, err
		}
	}
	return r(src.name, data)
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
