package catalog

import "rentalwheels/models"

// Facets are the selectable filter values derived from the loaded catalog.
// Each list starts with the "All" sentinel.
type Facets struct {
	Categories    []string
	FuelTypes     []string
	Transmissions []string
}

// ExtractFacets collects the distinct categories, fuel types and
// transmissions present in the catalog, in first-seen order. When the
// backend's category collection is available its names take precedence over
// the values observed on cars.
func ExtractFacets(cars []models.Car, categories []models.Category) Facets {
	f := Facets{
		Categories:    []string{models.FilterAllSentinel},
		FuelTypes:     []string{models.FilterAllSentinel},
		Transmissions: []string{models.FilterAllSentinel},
	}

	if len(categories) > 0 {
		seen := map[string]bool{}
		for _, c := range categories {
			if c.Name != "" && !seen[c.Name] {
				seen[c.Name] = true
				f.Categories = append(f.Categories, c.Name)
			}
		}
	} else {
		f.Categories = append(f.Categories, distinct(cars, func(c models.Car) string { return c.Category })...)
	}

	f.FuelTypes = append(f.FuelTypes, distinct(cars, func(c models.Car) string { return c.FuelType })...)
	f.Transmissions = append(f.Transmissions, distinct(cars, func(c models.Car) string { return c.Transmission })...)
	return f
}

func distinct(cars []models.Car, key func(models.Car) string) []string {
	seen := map[string]bool{}
	var out []string
	for _, car := range cars {
		v := key(car)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
