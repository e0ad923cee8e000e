package dataprocessing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"vaxclean/internal/errors"
	"vaxclean/pkg/contracts/domain"
)

// Summarizer reports a CleaningSummary to logs, text and JSON
type Summarizer struct {
	logger     *slog.Logger
	dateFormat string
}

// NewSummarizer creates a summarizer
func NewSummarizer(logger *slog.Logger) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger, dateFormat: "2006-01-02"}
}

// Log writes the summary as one structured log entry
func (s *Summarizer) Log(ctx context.Context, summary *domain.CleaningSummary) {
	attrs := []any{
		slog.String("source", summary.Source),
		slog.Int("rows_loaded", summary.RowsLoaded),
		slog.Int("rows_retained", summary.RowsRetained),
		slog.Int("rows_dropped_all", summary.RowsDroppedAll),
		slog.Int("rows_dropped_empty", summary.RowsDroppedEmpty),
		slog.Int("rows_unknown_label", summary.RowsUnknownLabel),
		slog.Any("unknown_labels", summary.UnknownLabels),
		slog.Group("population_nulled", cohortAttrs(summary.PopulationNulled)...),
		slog.Group("rate_missing", cohortAttrs(summary.RateMissing)...),
		slog.Any("rows_per_bucket", summary.RowsPerBucket),
		slog.Any("rows_per_period", summary.RowsPerPeriod),
	}
	if summary.RowsLoaded > 0 {
		attrs = append(attrs,
			slog.String("min_date", summary.MinDate.Format(s.dateFormat)),
			slog.String("max_date", summary.MaxDate.Format(s.dateFormat)))
	}

	level := slog.LevelInfo
	if summary.RowsUnknownLabel > 0 {
		level = slog.LevelWarn
	}
	s.logger.Log(ctx, level, "Cleaning summary", attrs...)
}

func cohortAttrs(counts [3]int) []any {
	attrs := make([]any, 0, len(counts))
	for _, c := range domain.Cohorts {
		attrs = append(attrs, slog.Int(strings.ToLower(c.String()), counts[c]))
	}
	return attrs
}

// WriteReport writes a human-readable summary
func (s *Summarizer) WriteReport(w io.Writer, summary *domain.CleaningSummary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Rows loaded:   %d\n", summary.RowsLoaded)
	fmt.Fprintf(&b, "Rows retained: %d\n", summary.RowsRetained)
	fmt.Fprintf(&b, "Rows dropped:  %d (all ages: %d, empty label: %d, unknown label: %d)\n",
		summary.RowsDropped(), summary.RowsDroppedAll, summary.RowsDroppedEmpty, summary.RowsDroppedUnknown)

	if len(summary.UnknownLabels) > 0 {
		action := "dropped"
		if summary.UnknownLabelsPassed {
			action = "passed through"
		}
		fmt.Fprintf(&b, "Unknown age groups (%s, %d rows): %s\n",
			action, summary.RowsUnknownLabel, strings.Join(summary.UnknownLabels, ", "))
	}

	for _, c := range domain.Cohorts {
		fmt.Fprintf(&b, "%-13s zero population nulled: %d, missing rate: %d\n",
			c.String(), summary.PopulationNulled[c], summary.RateMissing[c])
	}

	if len(summary.RowsPerBucket) > 0 {
		b.WriteString("Rows per age group:\n")
		for _, k := range domain.SortedKeys(summary.RowsPerBucket) {
			fmt.Fprintf(&b, "  %-12s %d\n", k, summary.RowsPerBucket[k])
		}
	}
	if len(summary.RowsPerPeriod) > 0 {
		b.WriteString("Rows per vaccination period:\n")
		for _, k := range domain.SortedKeys(summary.RowsPerPeriod) {
			fmt.Fprintf(&b, "  %-18s %d\n", k, summary.RowsPerPeriod[k])
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes the summary to path as indented JSON
func (s *Summarizer) WriteJSON(ctx context.Context, path string, summary *domain.CleaningSummary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create summary directory", err).WithContext("path", path)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return errors.NewStorageError("failed to encode summary", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.NewStorageError("failed to write summary", err).WithContext("path", path)
	}

	s.logger.InfoContext(ctx, "Summary written", slog.String("path", path))
	return nil
}
