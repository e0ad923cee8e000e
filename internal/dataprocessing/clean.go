package dataprocessing

import (
	"context"
	"log/slog"

	"vaxclean/internal/infrastructure"
	"vaxclean/internal/pipeline"
)

// Cleaner runs the four cleaning stages over one input file
type Cleaner struct {
	opts      CleaningOptions
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
}

// NewCleaner creates a cleaner. A nil telemetry disables tracing and metrics.
func NewCleaner(opts CleaningOptions, telemetry *infrastructure.Telemetry, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	if telemetry == nil {
		telemetry = infrastructure.NoopTelemetry()
	}
	if opts.Metrics == nil {
		opts.Metrics = telemetry.Metrics
	}
	return &Cleaner{opts: opts, telemetry: telemetry, logger: logger}
}

// Clean loads path and runs every stage. On failure the partial state and
// result are returned with the error.
func (c *Cleaner) Clean(ctx context.Context, path string) (*pipeline.State, *pipeline.RunResult, error) {
	logger := infrastructure.WithComponent(c.logger, "dataprocessing")

	registry := pipeline.NewRegistry().MustRegister(NewStages(path, c.opts, logger)...)
	runner := pipeline.NewRunner(registry, c.telemetry, c.logger)

	state := pipeline.NewState(path)
	result, err := runner.Run(ctx, state)
	if err != nil {
		return state, result, err
	}

	NewSummarizer(logger).Log(ctx, state.Summary)
	return state, result, nil
}
