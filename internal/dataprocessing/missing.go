package dataprocessing

import (
	"vaxclean/pkg/contracts/domain"
)

// MissingValueResult counts what HandleMissingValues changed, per cohort
type MissingValueResult struct {
	PopulationNulled [3]int
	RateMissing      [3]int
}

// HandleMissingValues replaces zero populations with null and flags
// missing rates. Columns absent from the schema are left alone. Rate
// nulls are kept as they are.
func HandleMissingValues(table *domain.VaccinationTable) MissingValueResult {
	var res MissingValueResult

	for _, record := range table.Records {
		for _, c := range domain.Cohorts {
			if table.Schema.HasPopulation[c] {
				if v := record.Population.Get(c); v != nil && *v == 0 {
					record.Population.Set(c, nil)
					res.PopulationNulled[c]++
				}
			}
			if table.Schema.HasRate[c] {
				missing := record.Rate.Get(c) == nil
				record.RateMissing[c] = missing
				if missing {
					res.RateMissing[c]++
				}
			}
		}
	}

	return res
}
