package dataprocessing

import (
	"time"

	"vaxclean/pkg/contracts/domain"
)

// Vaccination periods
const (
	PeriodEarly = "Early Vaccination"
	PeriodMid   = "Mid Vaccination"
	PeriodLate  = "Late Vaccination"
)

// PeriodThresholds are the cutoffs between vaccination periods. A date
// before Early is early, before Mid is mid, anything later is late.
type PeriodThresholds struct {
	Early time.Time
	Mid   time.Time
}

// DefaultPeriodThresholds returns the 2021-12-01 and 2022-06-01 cutoffs
func DefaultPeriodThresholds() PeriodThresholds {
	return PeriodThresholds{
		Early: time.Date(2021, time.December, 1, 0, 0, 0, 0, time.UTC),
		Mid:   time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC),
	}
}

// CalendarDate drops the time of day and zone offset of t, keeping the
// date as written. Week-ending dates are compared and exported as dates.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Period classifies a week-ending date by its calendar date
func (p PeriodThresholds) Period(date time.Time) string {
	date = CalendarDate(date)
	switch {
	case date.Before(p.Early):
		return PeriodEarly
	case date.Before(p.Mid):
		return PeriodMid
	default:
		return PeriodLate
	}
}

// TotalOutcomes sums the outcome values, treating nulls as zero
func TotalOutcomes(outcomes domain.Triple) float64 {
	var total float64
	for _, v := range outcomes {
		if v != nil {
			total += *v
		}
	}
	return total
}

// RiskReduction returns the percentage reduction of the vaccinated rate
// relative to the unvaccinated rate. It is null when either rate is null
// or the unvaccinated rate is not positive.
func RiskReduction(unvaccinated, vaccinated *float64) *float64 {
	if unvaccinated == nil || vaccinated == nil || *unvaccinated <= 0 {
		return nil
	}
	v := (*unvaccinated - *vaccinated) / *unvaccinated * 100
	return &v
}

// DeriveMetrics fills the derived columns of every record. Running it twice
// gives the same result.
func DeriveMetrics(table *domain.VaccinationTable, thresholds PeriodThresholds) {
	schema := &table.Schema
	schema.HasTotalOutcomes = schema.HasAllOutcomes()
	schema.HasRiskReduction = schema.HasRate[domain.Unvaccinated] && schema.HasRate[domain.Vaccinated]

	for _, record := range table.Records {
		if schema.HasTotalOutcomes {
			record.TotalOutcomes = domain.Float(TotalOutcomes(record.Outcome))
		} else {
			record.TotalOutcomes = nil
		}

		if schema.HasRiskReduction {
			record.RiskReduction = RiskReduction(
				record.Rate.Get(domain.Unvaccinated),
				record.Rate.Get(domain.Vaccinated))
		} else {
			record.RiskReduction = nil
		}

		record.Year = record.WeekEnd.Year()
		record.Month = int(record.WeekEnd.Month())
		_, record.WeekNumber = record.WeekEnd.ISOWeek()
		record.Period = thresholds.Period(record.WeekEnd)
	}
}
