package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"sigs.k8s.io/yaml"

	"github.com/shapemodel/cli/internal/assembly"
	oerrors "github.com/shapemodel/cli/internal/errors"
	"github.com/shapemodel/cli/internal/identity"
	"github.com/shapemodel/cli/internal/output"
)

//go:embed schema/config.cue
var configSchemaCUE []byte

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap classifies the error as a validation failure.
func (e *ValidationError) Unwrap() error {
	return oerrors.ErrValidation
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Unwrap classifies the errors as a validation failure.
func (e ValidationErrors) Unwrap() error {
	return oerrors.ErrValidation
}

// Validator validates configuration against the embedded CUE schema.
type Validator struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewValidator creates a new configuration validator.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(configSchemaCUE, cue.Filename("config.cue"))
	if schema.Err() != nil {
		return nil, fmt.Errorf("compiling schema: %w", schema.Err())
	}

	return &Validator{
		ctx:    ctx,
		schema: schema.LookupPath(cue.ParsePath("#Config")),
	}, nil
}

// Validate checks the field values of a loaded configuration.
func (v *Validator) Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Namespace != "" {
		if _, err := identity.NewNamespaceID(cfg.Namespace); err != nil {
			errs = append(errs, ValidationError{
				Field:   KeyNamespace,
				Message: "must be a dot-separated list of identifiers, e.g. example.weather",
			})
		}
	}

	if cfg.Output != "" {
		if _, ok := output.ParseOutputFormat(cfg.Output); !ok {
			errs = append(errs, ValidationError{
				Field:   KeyOutput,
				Message: fmt.Sprintf("must be one of %s", strings.Join(output.ValidFormats(), ", ")),
			})
		}
	}

	for _, ext := range cfg.Extensions {
		normalized := strings.ToLower(ext)
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if !slices.Contains(assembly.DefaultExtensions, normalized) {
			errs = append(errs, ValidationError{
				Field:   KeyExtensions,
				Message: fmt.Sprintf("no reader for %q; supported: %s", ext, strings.Join(assembly.DefaultExtensions, ", ")),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateBytes checks raw config file content against the schema. Unknown
// keys and wrongly typed values are reported with their path.
func (v *Validator) ValidateBytes(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	doc, err := yaml.YAMLToJSON(data)
	if err != nil {
		return ValidationErrors{{Field: "(file)", Message: fmt.Sprintf("invalid YAML: %v", err)}}
	}

	value := v.schema.Unify(v.ctx.CompileBytes(doc, cue.Filename("config.yaml")))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		var errs ValidationErrors
		for _, e := range cueerrors.Errors(err) {
			field := strings.Join(e.Path(), ".")
			if field == "" {
				field = "(root)"
			}
			format, args := e.Msg()
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
		}
		return errs
	}
	return nil
}

// ValidateFile validates a configuration file at the given path: first its
// shape against the schema, then its field values.
func (v *Validator) ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := v.ValidateBytes(data); err != nil {
		return err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("decoding config file: %w", err)
	}
	return v.Validate(&cfg)
}
