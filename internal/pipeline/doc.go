// Package pipeline runs the cleaning stages over a vaccination table.
//
// Stages are registered in a Registry in the order they must run. A Runner
// executes them one after another on a shared State, tracking a StageState
// per stage and emitting a trace span and metrics for each:
//
//	registry := pipeline.NewRegistry().MustRegister(load, categorize, missing, derive)
//	result, err := pipeline.NewRunner(registry, telemetry, logger).Run(ctx, state)
//
// A failing stage stops the run; the returned error is a *StageError that
// wraps the stage's own error.
package pipeline
