package domain

// Input column names
const (
	ColumnWeekEnd  = "Week End"
	ColumnAgeGroup = "Age Group"
)

// Derived column names
const (
	ColumnAgeGroupNew       = "Age_Group_New"
	ColumnTotalOutcomes     = "Total_Outcomes"
	ColumnRiskReduction     = "Vaccinated_Risk_Reduction"
	ColumnYear              = "Year"
	ColumnMonth             = "Month"
	ColumnWeekNumber        = "Week_Number"
	ColumnVaccinationPeriod = "Vaccination_Period"

	missingSuffix = "_missing"
)

// PopulationColumn returns the header of the population column for a cohort,
// e.g. "Population Vaccinated".
func PopulationColumn(c Cohort) string {
	return "Population " + c.String()
}

// RateColumn returns the header of the rate column for a cohort,
// e.g. "Vaccinated Rate".
func RateColumn(c Cohort) string {
	return c.String() + " Rate"
}

// OutcomeColumn returns the header of the outcome column for a cohort.
func OutcomeColumn(c Cohort) string {
	return "Outcome " + c.String()
}

// RateMissingColumn returns the header of the null indicator for a rate column.
func RateMissingColumn(c Cohort) string {
	return RateColumn(c) + missingSuffix
}

// IsDerivedColumn reports whether name is a column produced by the cleaning
// pipeline rather than read from the raw dataset.
func IsDerivedColumn(name string) bool {
	switch name {
	case ColumnAgeGroupNew, ColumnTotalOutcomes, ColumnRiskReduction,
		ColumnYear, ColumnMonth, ColumnWeekNumber, ColumnVaccinationPeriod:
		return true
	}
	for _, c := range Cohorts {
		if name == RateMissingColumn(c) {
			return true
		}
	}
	return false
}
