package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"vaxclean/internal/pipeline"
	"vaxclean/pkg/contracts/domain"
)

// LoadStage reads the input CSV into the pipeline state
type LoadStage struct {
	pipeline.BaseStage
	path   string
	loader *Loader
	opts   CleaningOptions
}

// NewLoadStage creates the load stage for path
func NewLoadStage(path string, opts CleaningOptions, logger *slog.Logger) *LoadStage {
	return &LoadStage{
		BaseStage: pipeline.NewBaseStage(StageIDLoad, "Load dataset"),
		path:      path,
		loader:    NewLoader(logger),
		opts:      opts,
	}
}

// Validate only needs a state; the table is produced here
func (s *LoadStage) Validate(state *pipeline.State) error {
	if state == nil {
		return pipeline.NewStageError(s.ID(), "no pipeline state", nil)
	}
	return nil
}

// Execute loads the table and records its shape
func (s *LoadStage) Execute(ctx context.Context, state *pipeline.State) error {
	table, err := s.loader.Load(ctx, s.path)
	if err != nil {
		return err
	}
	state.Table = table

	if state.Summary == nil {
		state.Summary = domain.NewCleaningSummary(table.Source)
	}
	summary := state.Summary
	summary.Source = table.Source
	summary.Columns = table.FileColumns
	summary.RowsLoaded = table.Len()
	summary.RowsRetained = table.Len()
	summary.MinDate, summary.MaxDate = table.DateRange()

	if s.opts.Report != nil {
		fmt.Fprintf(s.opts.Report, "Dataset loaded: %d rows, %d columns\n", summary.RowsLoaded, summary.Columns)
		fmt.Fprintf(s.opts.Report, "Time range: %s to %s\n",
			summary.MinDate.Format("2006-01-02"), summary.MaxDate.Format("2006-01-02"))
	}
	return nil
}

// CategorizeStage assigns age buckets and drops aggregate rows
type CategorizeStage struct {
	pipeline.BaseStage
	categorizer *Categorizer
	opts        CleaningOptions
}

// NewCategorizeStage creates the categorize stage
func NewCategorizeStage(opts CleaningOptions, logger *slog.Logger) *CategorizeStage {
	return &CategorizeStage{
		BaseStage:   pipeline.NewBaseStage(StageIDCategorize, "Categorize age groups"),
		categorizer: NewCategorizer(opts.StrictAgeGroups, logger),
		opts:        opts,
	}
}

// Execute runs the categorizer over the table
func (s *CategorizeStage) Execute(ctx context.Context, state *pipeline.State) error {
	summary := state.Summary
	all, empty, unknown := summary.RowsDroppedAll, summary.RowsDroppedEmpty, summary.RowsDroppedUnknown

	s.categorizer.Apply(ctx, state.Table, summary)

	s.opts.Metrics.RecordDropped(ctx, DropReasonAllAges, summary.RowsDroppedAll-all)
	s.opts.Metrics.RecordDropped(ctx, DropReasonEmptyLabel, summary.RowsDroppedEmpty-empty)
	s.opts.Metrics.RecordDropped(ctx, DropReasonUnknownLabel, summary.RowsDroppedUnknown-unknown)
	return nil
}

// MissingValueStage nulls zero populations and flags missing rates
type MissingValueStage struct {
	pipeline.BaseStage
	opts CleaningOptions
}

// NewMissingValueStage creates the missing-value stage
func NewMissingValueStage(opts CleaningOptions) *MissingValueStage {
	return &MissingValueStage{
		BaseStage: pipeline.NewBaseStage(StageIDMissing, "Handle missing values"),
		opts:      opts,
	}
}

// Execute handles missing values and updates the summary
func (s *MissingValueStage) Execute(ctx context.Context, state *pipeline.State) error {
	res := HandleMissingValues(state.Table)

	for _, c := range domain.Cohorts {
		state.Summary.PopulationNulled[c] = res.PopulationNulled[c]
		state.Summary.RateMissing[c] = res.RateMissing[c]
		s.opts.Metrics.RecordNulled(ctx, domain.PopulationColumn(c), res.PopulationNulled[c])
	}
	return nil
}

// DeriveStage computes the derived columns
type DeriveStage struct {
	pipeline.BaseStage
	opts CleaningOptions
}

// NewDeriveStage creates the derive stage
func NewDeriveStage(opts CleaningOptions) *DeriveStage {
	return &DeriveStage{
		BaseStage: pipeline.NewBaseStage(StageIDDerive, "Derive metrics"),
		opts:      opts,
	}
}

// Validate also rejects inverted period thresholds
func (s *DeriveStage) Validate(state *pipeline.State) error {
	if err := s.BaseStage.Validate(state); err != nil {
		return err
	}
	if !s.opts.Thresholds.Early.Before(s.opts.Thresholds.Mid) {
		return pipeline.NewStageError(s.ID(), "early period cutoff must be before mid cutoff", nil)
	}
	return nil
}

// Execute derives the metrics and tallies rows per period
func (s *DeriveStage) Execute(ctx context.Context, state *pipeline.State) error {
	DeriveMetrics(state.Table, s.opts.Thresholds)

	clear(state.Summary.RowsPerPeriod)
	for _, r := range state.Table.Records {
		state.Summary.RowsPerPeriod[r.Period]++
	}
	return nil
}

// NewStages returns the cleaning stages in execution order
func NewStages(path string, opts CleaningOptions, logger *slog.Logger) []pipeline.Stage {
	return []pipeline.Stage{
		NewLoadStage(path, opts, logger),
		NewCategorizeStage(opts, logger),
		NewMissingValueStage(opts),
		NewDeriveStage(opts),
	}
}
