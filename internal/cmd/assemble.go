package cmd

import (
	"context"

	"github.com/shapemodel/cli/internal/assembly"
	"github.com/shapemodel/cli/internal/config"
	"github.com/shapemodel/cli/internal/core"
	"github.com/shapemodel/cli/internal/output"
)

// assembled is a model together with the sources it was read from.
type assembled struct {
	Model   *core.Model
	Sources []string
}

// assembleModel reads every path into one model using the configured
// namespace, strictness and extensions.
func assembleModel(ctx context.Context, cfg *config.Config, paths []string) (*assembled, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	opts, err := cfg.AssemblyOptions()
	if err != nil {
		return nil, err
	}
	a := assembly.New(opts)
	for _, path := range paths {
		if err := a.AddPath(path); err != nil {
			return nil, err
		}
	}
	output.Debug("assembling model", "paths", paths, "sources", a.Len(), "extensions", a.Extensions())

	m, err := a.Assemble(ctx)
	if err != nil {
		return nil, err
	}
	return &assembled{Model: m, Sources: a.Sources()}, nil
}

// outputFormat returns the configured output format, falling back to text.
func outputFormat(cfg *config.Config) output.OutputFormat {
	if f, ok := output.ParseOutputFormat(cfg.Output); ok {
		return f
	}
	return output.FormatText
}
