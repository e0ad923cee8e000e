// Package dataprocessing cleans the weekly COVID-19 vaccination outcomes
// dataset. It loads the raw CSV, standardizes age groups, handles missing
// values and derives the analysis columns.
//
// # Architecture
//
// The package provides four stages run in order by a pipeline.Runner:
//
// 1. Load: reads the CSV and parses week-ending dates and numeric cells
// 2. Categorize: maps age-group labels to coarse buckets and drops "All" rows
// 3. Missing: replaces zero populations with null and flags missing rates
// 4. Derive: computes totals, risk reduction and calendar columns
//
// Each stage is also available as a plain function (CategorizeAgeGroup,
// HandleMissingValues, DeriveMetrics) for use outside the pipeline.
//
// # Usage
//
//	cleaner := dataprocessing.NewCleaner(dataprocessing.DefaultOptions(), telemetry, logger)
//	state, result, err := cleaner.Clean(ctx, "data/raw/COVID19_Vaccination_Outcomes.csv")
//	if err != nil {
//	    return err
//	}
//	// state.Table holds the cleaned records, state.Summary what changed
//
// # Data Flow
//
//	CSV → Loader → VaccinationTable → Categorizer → MissingValues → DeriveMetrics → exporter
//
// # Error Handling
//
// Loading errors are AppErrors from internal/errors:
//
//   - NOT_FOUND when the input file does not exist
//   - SCHEMA when Week End or Age Group is missing
//   - PARSING for malformed CSV, dates or numbers, with line and column context
//
// # Idempotence
//
// Derived columns are ignored on load, so cleaning an already cleaned file
// produces the same values.
package dataprocessing
