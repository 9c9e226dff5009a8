package preferences

import (
	"encoding/json"

	"rentalwheels/models"
)

// decodeFilterRecord parses persisted filter bytes. Current installs store a
// versioned FilterRecord; older ones stored a loose string-keyed map. An
// unrecognized or corrupt payload degrades to the default filters rather
// than failing deserialization silently downstream.
func decodeFilterRecord(raw []byte) models.FilterRecord {
	var record models.FilterRecord
	if err := json.Unmarshal(raw, &record); err == nil && record.Version >= models.FilterRecordVersion {
		return record
	}

	if migrated, ok := migrateLegacyFilterMap(raw); ok {
		return migrated
	}

	return models.FilterRecord{
		Version: models.FilterRecordVersion,
		Filters: models.DefaultBrowseFilters(),
	}
}

// migrateLegacyFilterMap converts the pre-versioning loose map shape into the
// closed record. Unknown keys are dropped; missing keys keep their defaults.
func migrateLegacyFilterMap(raw []byte) (models.FilterRecord, bool) {
	var legacy map[string]interface{}
	if err := json.Unmarshal(raw, &legacy); err != nil || len(legacy) == 0 {
		return models.FilterRecord{}, false
	}

	filters := models.DefaultBrowseFilters()
	if v, ok := legacy["selectedCategory"].(string); ok && v != "" {
		filters.SelectedCategory = v
	}
	if v, ok := legacy["selectedFuelType"].(string); ok && v != "" {
		filters.SelectedFuelType = v
	}
	if v, ok := legacy["selectedTransmission"].(string); ok && v != "" {
		filters.SelectedTransmission = v
	}
	if v, ok := legacy["minPrice"].(float64); ok {
		filters.MinPrice = v
	}
	if v, ok := legacy["maxPrice"].(float64); ok {
		filters.MaxPrice = v
	}
	if v, ok := legacy["minYear"].(float64); ok {
		filters.MinYear = int(v)
	}
	if v, ok := legacy["maxYear"].(float64); ok {
		filters.MaxYear = int(v)
	}
	if v, ok := legacy["withDriver"].(bool); ok {
		filters.WithDriver = v
	}
	if v, ok := legacy["sortBy"].(string); ok {
		filters.SortBy = models.ParseSortOption(v)
	}

	return models.FilterRecord{Version: models.FilterRecordVersion, Filters: filters}, true
}
