package viewstate

import (
	"context"
	"testing"

	"rentalwheels/models"
	"rentalwheels/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func homeCatalog() []models.Car {
	return []models.Car{
		{ID: "c1", Make: "Toyota", Year: 2021, FuelType: "Petrol", IsAvailable: true, Recommended: true},
		{ID: "c2", Make: "BMW", Year: 2023, FuelType: "Diesel", IsAvailable: true},
		{ID: "c3", Make: "Tesla", Year: 2023, FuelType: "Electric", IsAvailable: true, Recommended: true},
	}
}

func TestHomeLoadCombinesSources(t *testing.T) {
	repo := &fakeCarRepo{
		cars:       homeCatalog(),
		categories: []models.Category{{ID: "cat1", Name: "SUV"}},
		deals:      []models.Deal{{ID: "d1", CarID: "c2"}},
	}
	engine := NewHomeEngine(repo)
	t.Cleanup(engine.Close)

	engine.Load(context.Background())
	require.Eventually(t, func() bool {
		return engine.State().Phase == models.PhaseSuccess
	}, waitFor, tick)

	state := engine.State()
	require.NotNil(t, state.Data)
	assert.Len(t, state.Data.Categories, 1)
	assert.Len(t, state.Data.Deals, 1)
	assert.Len(t, state.Data.RecommendedCars, 2)
	assert.Len(t, state.Data.CarsByFuelType["Electric"], 1)
	assert.Len(t, state.Data.CarsByYear["2023"], 2)
}

func TestHomeDealsFailureDoesNotBlankScreen(t *testing.T) {
	repo := &fakeCarRepo{
		cars:     homeCatalog(),
		dealsErr: &utils.SourceUnavailableError{Source: "deals"},
	}
	engine := NewHomeEngine(repo)
	t.Cleanup(engine.Close)

	engine.Load(context.Background())
	require.Eventually(t, func() bool {
		return engine.State().Phase == models.PhaseSuccess
	}, waitFor, tick)

	assert.Empty(t, engine.State().Data.Deals)
	assert.Len(t, engine.State().Data.RecommendedCars, 2)
}

func TestHomeCatalogFailureEntersErrorPhase(t *testing.T) {
	repo := &fakeCarRepo{carsErr: &utils.SourceUnavailableError{Source: "cars"}}
	engine := NewHomeEngine(repo)
	t.Cleanup(engine.Close)

	engine.Load(context.Background())
	require.Eventually(t, func() bool {
		return engine.State().Phase == models.PhaseError
	}, waitFor, tick)
	assert.Nil(t, engine.State().Data)
}
