package domain

import (
	"sort"
	"time"

	"vaxclean/pkg/contracts"
)

// CleaningSummary accumulates what the cleaning pipeline did to a dataset.
// Stages fill in the fields they own.
type CleaningSummary struct {
	Source     string `json:"source"`
	DataFormat string `json:"data_format"`
	Columns    int    `json:"columns"`

	RowsLoaded   int `json:"rows_loaded"`
	RowsRetained int `json:"rows_retained"`

	// Rows with the aggregate "All" label
	RowsDroppedAll int `json:"rows_dropped_all"`
	// Rows with an empty label
	RowsDroppedEmpty int `json:"rows_dropped_empty"`
	// Rows with an unknown label removed in strict mode
	RowsDroppedUnknown int `json:"rows_dropped_unknown"`
	// Rows whose label has no known bucket, and whether they were dropped
	RowsUnknownLabel    int      `json:"rows_unknown_label"`
	UnknownLabels       []string `json:"unknown_labels,omitempty"`
	UnknownLabelsPassed bool     `json:"unknown_labels_passed"`

	PopulationNulled [3]int `json:"population_nulled"`
	RateMissing      [3]int `json:"rate_missing"`

	RowsPerBucket map[string]int `json:"rows_per_bucket"`
	RowsPerPeriod map[string]int `json:"rows_per_period"`

	MinDate time.Time `json:"min_date"`
	MaxDate time.Time `json:"max_date"`
}

// NewCleaningSummary creates an empty summary for a source file
func NewCleaningSummary(source string) *CleaningSummary {
	return &CleaningSummary{
		Source:        source,
		DataFormat:    contracts.DataFormatVersion,
		RowsPerBucket: make(map[string]int),
		RowsPerPeriod: make(map[string]int),
	}
}

// AddUnknownLabel records one row carrying an unrecognized label. It reports
// whether the label had not been seen before.
func (s *CleaningSummary) AddUnknownLabel(label string) bool {
	s.RowsUnknownLabel++
	i := sort.SearchStrings(s.UnknownLabels, label)
	if i < len(s.UnknownLabels) && s.UnknownLabels[i] == label {
		return false
	}
	s.UnknownLabels = append(s.UnknownLabels, "")
	copy(s.UnknownLabels[i+1:], s.UnknownLabels[i:])
	s.UnknownLabels[i] = label
	return true
}

// RowsDropped returns the number of rows removed by categorization
func (s *CleaningSummary) RowsDropped() int {
	return s.RowsLoaded - s.RowsRetained
}

// SortedKeys returns map keys in lexical order, for stable reporting
func SortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
