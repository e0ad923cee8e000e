package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"vaxclean/internal/infrastructure"
)

// RunResult describes a completed or failed run
type RunResult struct {
	TraceID  string
	Stages   []*StageState
	Duration time.Duration
}

// Runner executes the registered stages in order over one table
type Runner struct {
	registry  *Registry
	telemetry *infrastructure.Telemetry
	logger    *slog.Logger
}

// NewRunner creates a runner. A nil telemetry disables tracing and metrics.
func NewRunner(registry *Registry, telemetry *infrastructure.Telemetry, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if telemetry == nil {
		telemetry = infrastructure.NoopTelemetry()
	}
	return &Runner{
		registry:  registry,
		telemetry: telemetry,
		logger:    infrastructure.WithComponent(logger, "pipeline"),
	}
}

// Run executes every stage sequentially. It stops at the first failure and
// returns the partial result together with the error.
func (r *Runner) Run(ctx context.Context, state *State) (*RunResult, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	start := time.Now()

	result := &RunResult{TraceID: infrastructure.GetTraceID(ctx)}

	ctx, span := r.telemetry.Tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("pipeline.trace_id", result.TraceID),
			attribute.Int("pipeline.stages", r.registry.Count()),
		))
	defer span.End()

	r.logger.InfoContext(ctx, "Pipeline started",
		slog.Int("stages", r.registry.Count()),
		slog.Any("stage_ids", r.registry.ListIDs()))

	for _, stage := range r.registry.List() {
		ss := NewStageState(stage.ID(), stage.Name())
		result.Stages = append(result.Stages, ss)

		if err := ctx.Err(); err != nil {
			ss.Fail(err)
			return r.finish(ctx, span, result, start, NewStageError(stage.ID(), "cancelled", err))
		}

		if err := r.runStage(ctx, stage, state, ss); err != nil {
			return r.finish(ctx, span, result, start, err)
		}
	}

	return r.finish(ctx, span, result, start, nil)
}

func (r *Runner) runStage(ctx context.Context, stage Stage, state *State, ss *StageState) error {
	ctx, span := r.telemetry.Tracer.Start(ctx, "stage."+stage.ID(),
		trace.WithAttributes(attribute.String("stage.id", stage.ID())))
	defer span.End()

	rowsIn := 0
	if state != nil && state.Table != nil {
		rowsIn = state.Table.Len()
	}
	ss.Start(rowsIn)

	stageAttr := metric.WithAttributes(attribute.String("stage", stage.ID()))

	err := stage.Validate(state)
	if err == nil {
		err = stage.Execute(ctx, state)
	}
	if err != nil {
		var stageErr *StageError
		if !errors.As(err, &stageErr) {
			err = NewStageError(stage.ID(), "execution failed", err)
		}
		ss.Fail(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.telemetry.Metrics.StageErrors.Add(ctx, 1, stageAttr)
		r.logger.ErrorContext(ctx, "Stage failed",
			slog.String("stage", stage.ID()),
			slog.String("status", string(ss.GetStatus())),
			slog.String("error", err.Error()))
		return err
	}

	rowsOut := state.Table.Len()
	ss.Complete(rowsOut)
	span.SetAttributes(
		attribute.Int("stage.rows_in", rowsIn),
		attribute.Int("stage.rows_out", rowsOut))
	r.telemetry.Metrics.StageDuration.Record(ctx, ss.Duration().Seconds(), stageAttr)
	r.telemetry.Metrics.RowsProcessed.Add(ctx, int64(rowsOut), stageAttr)

	r.logger.InfoContext(ctx, "Stage completed",
		slog.String("stage", stage.ID()),
		slog.String("name", stage.Name()),
		slog.String("status", string(ss.GetStatus())),
		slog.Int("rows_in", rowsIn),
		slog.Int("rows_out", rowsOut),
		slog.Duration("duration", ss.Duration()))

	return nil
}

func (r *Runner) finish(ctx context.Context, span trace.Span, result *RunResult, start time.Time, err error) (*RunResult, error) {
	result.Duration = time.Since(start)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	r.logger.InfoContext(ctx, "Pipeline completed",
		slog.Duration("duration", result.Duration))
	return result, nil
}
