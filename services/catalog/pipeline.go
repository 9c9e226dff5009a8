// Package catalog implements the pure filter-and-sort pipeline over the
// vehicle catalog. Apply is deterministic and side-effect free; callers own
// validation of filter ranges (an inverted range simply yields no matches).
package catalog

import (
	"sort"
	"strings"

	"rentalwheels/models"
)

// Apply runs the pipeline in fixed order: text filter, attribute filter,
// stable sort. The result is always a subset of cars; an empty catalog
// yields an empty result, never an error.
func Apply(cars []models.Car, query string, filters models.BrowseFilters) []models.Car {
	matched := make([]models.Car, 0, len(cars))

	query = strings.TrimSpace(query)
	for _, car := range cars {
		if query != "" && !matchesQuery(car, query) {
			continue
		}
		if !matchesFilters(car, filters) {
			continue
		}
		matched = append(matched, car)
	}

	sortCars(matched, filters.SortBy)
	return matched
}

// matchesQuery reports whether the car's make, model, category or location
// contains the query, case-insensitively. Substring match, not tokenized.
func matchesQuery(car models.Car, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(car.Make), q) ||
		strings.Contains(strings.ToLower(car.Model), q) ||
		strings.Contains(strings.ToLower(car.Category), q) ||
		strings.Contains(strings.ToLower(car.Location), q)
}

// matchesFilters applies the attribute constraints. Unavailable cars are
// always excluded regardless of filter state.
func matchesFilters(car models.Car, f models.BrowseFilters) bool {
	if !car.IsAvailable {
		return false
	}
	if car.DailyRate < f.MinPrice || car.DailyRate > f.MaxPrice {
		return false
	}
	if car.Year < f.MinYear || car.Year > f.MaxYear {
		return false
	}
	if f.SelectedCategory != models.FilterAllSentinel && car.Category != f.SelectedCategory {
		return false
	}
	if f.SelectedFuelType != models.FilterAllSentinel && car.FuelType != f.SelectedFuelType {
		return false
	}
	if f.SelectedTransmission != models.FilterAllSentinel && car.Transmission != f.SelectedTransmission {
		return false
	}
	return true
}

// sortCars orders cars in place by exactly one sort option. The sort is
// stable: ties preserve prior relative order.
func sortCars(cars []models.Car, by models.SortOption) {
	switch by {
	case models.SortPriceLowToHigh:
		sort.SliceStable(cars, func(i, j int) bool { return cars[i].DailyRate < cars[j].DailyRate })
	case models.SortPriceHighToLow:
		sort.SliceStable(cars, func(i, j int) bool { return cars[i].DailyRate > cars[j].DailyRate })
	case models.SortYearNewest:
		sort.SliceStable(cars, func(i, j int) bool { return cars[i].Year > cars[j].Year })
	case models.SortYearOldest:
		sort.SliceStable(cars, func(i, j int) bool { return cars[i].Year < cars[j].Year })
	case models.SortBrandAToZ:
		sort.SliceStable(cars, func(i, j int) bool { return cars[i].Brand() < cars[j].Brand() })
	case models.SortBrandZToA:
		sort.SliceStable(cars, func(i, j int) bool { return cars[i].Brand() > cars[j].Brand() })
	case models.SortMostPopular:
		sort.SliceStable(cars, func(i, j int) bool { return cars[i].ReviewCount > cars[j].ReviewCount })
	}
}
