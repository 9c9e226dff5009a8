package models

// FilterAllSentinel is the selection value that disables a categorical
// constraint.
const FilterAllSentinel = "All"

// SortOption enumerates the supported catalog orderings.
type SortOption string

const (
	SortPriceLowToHigh SortOption = "PRICE_LOW_TO_HIGH"
	SortPriceHighToLow SortOption = "PRICE_HIGH_TO_LOW"
	SortYearNewest     SortOption = "YEAR_NEWEST"
	SortYearOldest     SortOption = "YEAR_OLDEST"
	SortBrandAToZ      SortOption = "BRAND_A_TO_Z"
	SortBrandZToA      SortOption = "BRAND_Z_TO_A"
	SortMostPopular    SortOption = "MOST_POPULAR"
)

// ParseSortOption maps a raw sort string to a SortOption, defaulting to
// price ascending.
func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortPriceLowToHigh, SortPriceHighToLow, SortYearNewest, SortYearOldest,
		SortBrandAToZ, SortBrandZToA, SortMostPopular:
		return SortOption(s)
	default:
		return SortPriceLowToHigh
	}
}

// BrowseFilters is the complete filter selection for the catalog pipeline.
// It is pure data, replaced wholesale on every update and never partially
// mutated in place.
type BrowseFilters struct {
	SelectedCategory     string     `json:"selectedCategory"`
	SelectedFuelType     string     `json:"selectedFuelType"`
	SelectedTransmission string     `json:"selectedTransmission"`
	MinPrice             float64    `json:"minPrice"`
	MaxPrice             float64    `json:"maxPrice"`
	MinYear              int        `json:"minYear"`
	MaxYear              int        `json:"maxYear"`
	WithDriver           bool       `json:"withDriver"`
	SortBy               SortOption `json:"sortBy"`
}

// DefaultBrowseFilters returns the unconstrained filter selection.
func DefaultBrowseFilters() BrowseFilters {
	return BrowseFilters{
		SelectedCategory:     FilterAllSentinel,
		SelectedFuelType:     FilterAllSentinel,
		SelectedTransmission: FilterAllSentinel,
		MinPrice:             0,
		MaxPrice:             10000,
		MinYear:              2010,
		MaxYear:              2030,
		SortBy:               SortPriceLowToHigh,
	}
}

// FilterRecordVersion is the current persisted filter shape version.
const FilterRecordVersion = 1

// FilterRecord is the closed, versioned shape persisted for browse filters.
// Older installs stored filters as a loose string map; the preference store
// migrates that shape forward on load.
type FilterRecord struct {
	Version int           `json:"version"`
	Filters BrowseFilters `json:"filters"`
}
