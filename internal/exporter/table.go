package exporter

import (
	"vaxclean/pkg/contracts/domain"
)

// outputColumn produces one cell of an output row
type outputColumn struct {
	name  string
	value func(r *domain.VaccinationRecord) any
}

// TableHeader returns the output header: the input columns in their
// original order followed by the derived columns
func TableHeader(table *domain.VaccinationTable) []string {
	cols := outputColumns(&table.Schema)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.name
	}
	return header
}

// TableRows returns the CSV rows of table, without header
func TableRows(table *domain.VaccinationTable) [][]string {
	cols := outputColumns(&table.Schema)
	rows := make([][]string, 0, table.Len())
	for _, r := range table.Records {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = formatCell(c.value(r))
		}
		rows = append(rows, row)
	}
	return rows
}

// tableValues returns typed cell values, with nil for nulls
func tableValues(table *domain.VaccinationTable) [][]any {
	cols := outputColumns(&table.Schema)
	rows := make([][]any, 0, table.Len())
	for _, r := range table.Records {
		row := make([]any, len(cols))
		for i, c := range cols {
			v := c.value(r)
			if f, ok := v.(*float64); ok {
				if f == nil {
					v = nil
				} else {
					v = *f
				}
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return rows
}

func formatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *float64:
		return formatNullable(x)
	case int:
		return formatInt(x)
	case bool:
		return formatBool(x)
	default:
		return ""
	}
}

func outputColumns(schema *domain.Schema) []outputColumn {
	cols := make([]outputColumn, 0, len(schema.Columns)+10)

	for _, col := range schema.Columns {
		cols = append(cols, inputColumn(col))
	}

	cols = append(cols, outputColumn{domain.ColumnAgeGroupNew, func(r *domain.VaccinationRecord) any {
		return r.AgeGroupNew
	}})

	for _, c := range domain.Cohorts {
		if !schema.HasRate[c] {
			continue
		}
		cohort := c
		cols = append(cols, outputColumn{domain.RateMissingColumn(cohort), func(r *domain.VaccinationRecord) any {
			return r.RateMissing[cohort]
		}})
	}

	if schema.HasTotalOutcomes {
		cols = append(cols, outputColumn{domain.ColumnTotalOutcomes, func(r *domain.VaccinationRecord) any {
			return r.TotalOutcomes
		}})
	}
	if schema.HasRiskReduction {
		cols = append(cols, outputColumn{domain.ColumnRiskReduction, func(r *domain.VaccinationRecord) any {
			return r.RiskReduction
		}})
	}

	cols = append(cols,
		outputColumn{domain.ColumnYear, func(r *domain.VaccinationRecord) any { return r.Year }},
		outputColumn{domain.ColumnMonth, func(r *domain.VaccinationRecord) any { return r.Month }},
		outputColumn{domain.ColumnWeekNumber, func(r *domain.VaccinationRecord) any { return r.WeekNumber }},
		outputColumn{domain.ColumnVaccinationPeriod, func(r *domain.VaccinationRecord) any { return r.Period }},
	)

	return cols
}

func inputColumn(col domain.Column) outputColumn {
	c := col
	var value func(r *domain.VaccinationRecord) any

	switch c.Kind {
	case domain.KindWeekEnd:
		value = func(r *domain.VaccinationRecord) any { return formatDate(r.WeekEnd) }
	case domain.KindAgeGroup:
		value = func(r *domain.VaccinationRecord) any { return r.AgeGroup }
	case domain.KindPopulation:
		value = func(r *domain.VaccinationRecord) any { return r.Population.Get(c.Cohort) }
	case domain.KindRate:
		value = func(r *domain.VaccinationRecord) any { return r.Rate.Get(c.Cohort) }
	case domain.KindOutcome:
		value = func(r *domain.VaccinationRecord) any { return r.Outcome.Get(c.Cohort) }
	default:
		value = func(r *domain.VaccinationRecord) any {
			if c.ExtraIndex < len(r.Extra) {
				return r.Extra[c.ExtraIndex]
			}
			return ""
		}
	}

	return outputColumn{name: c.Name, value: value}
}
