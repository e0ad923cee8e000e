package domain

import (
	"time"
)

// ColumnKind classifies an input column.
type ColumnKind int

const (
	KindExtra ColumnKind = iota
	KindWeekEnd
	KindAgeGroup
	KindPopulation
	KindRate
	KindOutcome
)

// Column describes one input column in its original position.
type Column struct {
	Name   string     `json:"name"`
	Kind   ColumnKind `json:"kind"`
	Cohort Cohort     `json:"cohort"`
	// Index into VaccinationRecord.Extra for KindExtra columns.
	ExtraIndex int `json:"extra_index"`
}

// Schema records which columns were present in the input and in what order.
type Schema struct {
	Columns []Column `json:"columns"`

	HasPopulation [3]bool `json:"has_population"`
	HasRate       [3]bool `json:"has_rate"`
	HasOutcome    [3]bool `json:"has_outcome"`

	// Set once the derive stage has run.
	HasTotalOutcomes bool `json:"has_total_outcomes"`
	HasRiskReduction bool `json:"has_risk_reduction"`
}

// HasAllOutcomes reports whether all three outcome columns are present.
func (s *Schema) HasAllOutcomes() bool {
	return s.HasOutcome[Unvaccinated] && s.HasOutcome[Vaccinated] && s.HasOutcome[Boosted]
}

// VaccinationTable is the in-memory dataset threaded through the pipeline.
type VaccinationTable struct {
	Source string `json:"source"`
	// FileColumns is the number of columns in the source file header,
	// including any derived columns the loader skipped.
	FileColumns int                  `json:"file_columns"`
	Schema      Schema               `json:"schema"`
	Records     []*VaccinationRecord `json:"records"`
}

// DateRange returns the earliest and latest week-ending dates. Both are zero
// for an empty table.
func (t *VaccinationTable) DateRange() (minDate, maxDate time.Time) {
	for i, r := range t.Records {
		if i == 0 || r.WeekEnd.Before(minDate) {
			minDate = r.WeekEnd
		}
		if i == 0 || r.WeekEnd.After(maxDate) {
			maxDate = r.WeekEnd
		}
	}
	return minDate, maxDate
}

// Len returns the number of records.
func (t *VaccinationTable) Len() int {
	return len(t.Records)
}
