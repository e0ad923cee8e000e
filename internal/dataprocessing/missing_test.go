package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaxclean/pkg/contracts/domain"
)

func fullSchema() domain.Schema {
	return domain.Schema{
		HasPopulation: [3]bool{true, true, true},
		HasRate:       [3]bool{true, true, true},
		HasOutcome:    [3]bool{true, true, true},
	}
}

func TestHandleMissingValues(t *testing.T) {
	table := &domain.VaccinationTable{
		Schema: fullSchema(),
		Records: []*domain.VaccinationRecord{
			{
				Population: domain.Triple{domain.Float(0), domain.Float(150), nil},
				Rate:       domain.Triple{domain.Float(0), nil, domain.Float(3)},
			},
			{
				Population: domain.Triple{domain.Float(1000), domain.Float(0), domain.Float(0)},
				Rate:       domain.Triple{nil, nil, domain.Float(1)},
			},
		},
	}

	res := HandleMissingValues(table)

	first, second := table.Records[0], table.Records[1]
	assert.Nil(t, first.Population.Get(domain.Unvaccinated))
	require.NotNil(t, first.Population.Get(domain.Vaccinated))
	assert.Equal(t, 150.0, *first.Population.Get(domain.Vaccinated))
	assert.Nil(t, first.Population.Get(domain.Boosted))
	assert.Equal(t, 1000.0, *second.Population.Get(domain.Unvaccinated))
	assert.Nil(t, second.Population.Get(domain.Vaccinated))
	assert.Nil(t, second.Population.Get(domain.Boosted))

	// a zero rate is a value, not a missing one
	assert.Equal(t, [3]bool{false, true, false}, first.RateMissing)
	assert.Equal(t, 0.0, *first.Rate.Get(domain.Unvaccinated))
	assert.Equal(t, [3]bool{true, true, false}, second.RateMissing)
	assert.Nil(t, second.Rate.Get(domain.Unvaccinated))

	assert.Equal(t, [3]int{1, 1, 1}, res.PopulationNulled)
	assert.Equal(t, [3]int{1, 2, 0}, res.RateMissing)
}

func TestHandleMissingValues_AbsentColumnsUntouched(t *testing.T) {
	table := &domain.VaccinationTable{
		Schema: domain.Schema{HasPopulation: [3]bool{true, false, false}, HasRate: [3]bool{false, true, false}},
		Records: []*domain.VaccinationRecord{
			{Population: domain.Triple{domain.Float(0), domain.Float(0), nil}},
		},
	}

	res := HandleMissingValues(table)

	rec := table.Records[0]
	assert.Nil(t, rec.Population.Get(domain.Unvaccinated))
	assert.NotNil(t, rec.Population.Get(domain.Vaccinated))
	assert.Equal(t, [3]bool{false, true, false}, rec.RateMissing)
	assert.Equal(t, [3]int{1, 0, 0}, res.PopulationNulled)
}

func TestHandleMissingValues_Idempotent(t *testing.T) {
	table := &domain.VaccinationTable{
		Schema: fullSchema(),
		Records: []*domain.VaccinationRecord{
			{Population: domain.Triple{domain.Float(0), domain.Float(5), nil}, Rate: domain.Triple{nil, domain.Float(1), nil}},
		},
	}

	HandleMissingValues(table)
	before := *table.Records[0]
	res := HandleMissingValues(table)

	assert.Equal(t, before, *table.Records[0])
	assert.Equal(t, [3]int{}, res.PopulationNulled)
}
