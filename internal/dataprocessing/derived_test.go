package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxclean/pkg/contracts/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestTotalOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		outcomes domain.Triple
		want     float64
	}{
		{name: "one null", outcomes: domain.Triple{domain.Float(1), domain.Float(2), nil}, want: 3},
		{name: "all present", outcomes: domain.Triple{domain.Float(4), domain.Float(30), domain.Float(10)}, want: 44},
		{name: "all null", outcomes: domain.Triple{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalOutcomes(tt.outcomes))
		})
	}
}

func TestRiskReduction(t *testing.T) {
	tests := []struct {
		name         string
		unvaccinated *float64
		vaccinated   *float64
		want         *float64
	}{
		{name: "typical", unvaccinated: domain.Float(10), vaccinated: domain.Float(2), want: domain.Float(80)},
		{name: "vaccinated higher", unvaccinated: domain.Float(4), vaccinated: domain.Float(5), want: domain.Float(-25)},
		{name: "zero unvaccinated", unvaccinated: domain.Float(0), vaccinated: domain.Float(2), want: nil},
		{name: "negative unvaccinated", unvaccinated: domain.Float(-1), vaccinated: domain.Float(2), want: nil},
		{name: "null unvaccinated", unvaccinated: nil, vaccinated: domain.Float(2), want: nil},
		{name: "null vaccinated", unvaccinated: domain.Float(10), vaccinated: nil, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RiskReduction(tt.unvaccinated, tt.vaccinated)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.InDelta(t, *tt.want, *got, 1e-9)
		})
	}
}

func TestPeriodThresholds_Period(t *testing.T) {
	p := DefaultPeriodThresholds()

	tests := []struct {
		date time.Time
		want string
	}{
		{date: date(2021, time.November, 15), want: PeriodEarly},
		{date: date(2021, time.November, 30), want: PeriodEarly},
		{date: date(2021, time.December, 1), want: PeriodMid},
		{date: date(2022, time.January, 1), want: PeriodMid},
		{date: date(2022, time.May, 31), want: PeriodMid},
		{date: date(2022, time.June, 1), want: PeriodLate},
		{date: date(2022, time.July, 1), want: PeriodLate},
	}

	for _, tt := range tests {
		t.Run(tt.date.Format("2006-01-02"), func(t *testing.T) {
			assert.Equal(t, tt.want, p.Period(tt.date))
		})
	}
}

func TestPeriodThresholds_Period_UsesCalendarDate(t *testing.T) {
	p := DefaultPeriodThresholds()

	// 2021-11-30T21:00Z as an instant, but dated 2021-12-01
	east := time.Date(2021, time.December, 1, 2, 0, 0, 0, time.FixedZone("UTC+5", 5*60*60))
	assert.Equal(t, PeriodMid, p.Period(east))

	// 2021-12-01T07:00Z as an instant, but dated 2021-11-30
	west := time.Date(2021, time.November, 30, 23, 0, 0, 0, time.FixedZone("UTC-8", -8*60*60))
	assert.Equal(t, PeriodEarly, p.Period(west))
}

func TestDeriveMetrics(t *testing.T) {
	table := &domain.VaccinationTable{
		Schema: fullSchema(),
		Records: []*domain.VaccinationRecord{
			{
				WeekEnd: date(2021, time.November, 13),
				Rate:    domain.Triple{domain.Float(10), domain.Float(2), nil},
				Outcome: domain.Triple{domain.Float(1), domain.Float(2), nil},
			},
			{
				WeekEnd: date(2022, time.January, 1),
				Rate:    domain.Triple{domain.Float(0), domain.Float(2), nil},
				Outcome: domain.Triple{},
			},
		},
	}

	DeriveMetrics(table, DefaultPeriodThresholds())

	assert.True(t, table.Schema.HasTotalOutcomes)
	assert.True(t, table.Schema.HasRiskReduction)

	first := table.Records[0]
	require.NotNil(t, first.TotalOutcomes)
	assert.Equal(t, 3.0, *first.TotalOutcomes)
	require.NotNil(t, first.RiskReduction)
	assert.InDelta(t, 80.0, *first.RiskReduction, 1e-9)
	assert.Equal(t, 2021, first.Year)
	assert.Equal(t, 11, first.Month)
	assert.Equal(t, 45, first.WeekNumber)
	assert.Equal(t, PeriodEarly, first.Period)

	second := table.Records[1]
	assert.Equal(t, 0.0, *second.TotalOutcomes)
	assert.Nil(t, second.RiskReduction)
	assert.Equal(t, 2022, second.Year)
	assert.Equal(t, 1, second.Month)
	// ISO week of 2022-01-01 belongs to 2021
	assert.Equal(t, 52, second.WeekNumber)
	assert.Equal(t, PeriodMid, second.Period)
}

func TestDeriveMetrics_MissingColumns(t *testing.T) {
	table := &domain.VaccinationTable{
		Schema: domain.Schema{
			HasRate:    [3]bool{true, false, false},
			HasOutcome: [3]bool{true, true, false},
		},
		Records: []*domain.VaccinationRecord{
			{
				WeekEnd:       date(2022, time.July, 2),
				Rate:          domain.Triple{domain.Float(10), nil, nil},
				Outcome:       domain.Triple{domain.Float(1), domain.Float(1), nil},
				TotalOutcomes: domain.Float(99),
			},
		},
	}

	DeriveMetrics(table, DefaultPeriodThresholds())

	assert.False(t, table.Schema.HasTotalOutcomes)
	assert.False(t, table.Schema.HasRiskReduction)
	assert.Nil(t, table.Records[0].TotalOutcomes)
	assert.Nil(t, table.Records[0].RiskReduction)
	assert.Equal(t, 26, table.Records[0].WeekNumber)
	assert.Equal(t, PeriodLate, table.Records[0].Period)
}

func TestDeriveMetrics_Idempotent(t *testing.T) {
	table := &domain.VaccinationTable{
		Schema: fullSchema(),
		Records: []*domain.VaccinationRecord{
			{
				WeekEnd: date(2022, time.March, 5),
				Rate:    domain.Triple{domain.Float(3), domain.Float(1), domain.Float(1)},
				Outcome: domain.Triple{domain.Float(7), nil, domain.Float(2)},
			},
		},
	}

	DeriveMetrics(table, DefaultPeriodThresholds())
	once := *table.Records[0]
	DeriveMetrics(table, DefaultPeriodThresholds())

	assert.Equal(t, once, *table.Records[0])
}

func TestDeriveMetrics_CustomThresholds(t *testing.T) {
	table := &domain.VaccinationTable{
		Records: []*domain.VaccinationRecord{{WeekEnd: date(2022, time.January, 1)}},
	}
	thresholds := PeriodThresholds{Early: date(2022, time.February, 1), Mid: date(2022, time.March, 1)}

	DeriveMetrics(table, thresholds)
	assert.Equal(t, PeriodEarly, table.Records[0].Period)
}
