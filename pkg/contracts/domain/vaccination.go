package domain

import (
	"time"
)

// Cohort identifies one of the three vaccination-status groups reported
// for every week and age group.
type Cohort int

const (
	Unvaccinated Cohort = iota
	Vaccinated
	Boosted
)

// Cohorts lists every cohort in column order.
var Cohorts = [...]Cohort{Unvaccinated, Vaccinated, Boosted}

// String returns the cohort name as it appears in column headers.
func (c Cohort) String() string {
	switch c {
	case Unvaccinated:
		return "Unvaccinated"
	case Vaccinated:
		return "Vaccinated"
	case Boosted:
		return "Boosted"
	default:
		return "Unknown"
	}
}

// Triple holds one nullable measurement per cohort. A nil entry is a
// missing value.
type Triple [3]*float64

// Get returns the value for a cohort.
func (t Triple) Get(c Cohort) *float64 {
	return t[c]
}

// Set stores a value for a cohort.
func (t *Triple) Set(c Cohort, v *float64) {
	t[c] = v
}

// Float returns a pointer to a copy of v. It is the usual way to build
// non-null cells.
func Float(v float64) *float64 {
	return &v
}

// VaccinationRecord represents one (week, age group) observation of the
// vaccination outcomes dataset, together with the columns the cleaning
// pipeline derives from it.
type VaccinationRecord struct {
	WeekEnd  time.Time `json:"week_end"`
	AgeGroup string    `json:"age_group"`

	Population Triple `json:"population"`
	Rate       Triple `json:"rate"`
	Outcome    Triple `json:"outcome"`

	// Extra holds the raw values of input columns that are not interpreted,
	// indexed by Column.ExtraIndex.
	Extra []string `json:"extra,omitempty"`

	// Derived columns
	AgeGroupNew   string   `json:"age_group_new"`
	RateMissing   [3]bool  `json:"rate_missing"`
	TotalOutcomes *float64 `json:"total_outcomes,omitempty"`
	RiskReduction *float64 `json:"vaccinated_risk_reduction,omitempty"`
	Year          int      `json:"year"`
	Month         int      `json:"month"`
	WeekNumber    int      `json:"week_number"`
	Period        string   `json:"vaccination_period"`
}
