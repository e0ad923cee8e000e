package dataprocessing

import (
	"io"

	"vaxclean/internal/config"
	"vaxclean/internal/infrastructure"
)

// Stage IDs in execution order
const (
	StageIDLoad       = "load"
	StageIDCategorize = "categorize"
	StageIDMissing    = "missing"
	StageIDDerive     = "derive"
)

// Drop reasons reported to metrics
const (
	DropReasonAllAges      = "all_ages"
	DropReasonEmptyLabel   = "empty_label"
	DropReasonUnknownLabel = "unknown_label"
)

// CleaningOptions configures the cleaning stages
type CleaningOptions struct {
	// StrictAgeGroups drops rows whose label has no bucket mapping
	StrictAgeGroups bool

	// Thresholds split week-ending dates into vaccination periods
	Thresholds PeriodThresholds

	// Report receives the human-readable load report; nil disables it
	Report io.Writer

	// Metrics receives drop and null counts; nil disables them
	Metrics *infrastructure.PipelineMetrics
}

// DefaultOptions returns default cleaning options
func DefaultOptions() CleaningOptions {
	return CleaningOptions{
		Thresholds: DefaultPeriodThresholds(),
	}
}

// OptionsFromConfig builds cleaning options from configuration
func OptionsFromConfig(cfg config.CleaningConfig) (CleaningOptions, error) {
	opts := DefaultOptions()
	opts.StrictAgeGroups = cfg.StrictAgeGroups

	early, mid, err := cfg.Cutoffs()
	if err != nil {
		return opts, err
	}
	opts.Thresholds = PeriodThresholds{Early: early, Mid: mid}
	return opts, nil
}
