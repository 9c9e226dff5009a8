package bookings

import (
	"strings"

	"rentalwheels/models"
)

// Search keeps bookings whose car make or model, reference number, or pickup
// or return location contains the query case-insensitively. A blank query
// returns the input unchanged.
func Search(bs []models.Booking, query string) []models.Booking {
	query = strings.TrimSpace(query)
	if query == "" {
		return bs
	}
	q := strings.ToLower(query)

	matched := make([]models.Booking, 0, len(bs))
	for _, b := range bs {
		if containsFold(b.Car.Make, q) ||
			containsFold(b.Car.Model, q) ||
			containsFold(b.ReferenceNumber, q) ||
			containsFold(b.PickupLocation, q) ||
			containsFold(b.ReturnLocation, q) {
			matched = append(matched, b)
		}
	}
	return matched
}

func containsFold(s, lowered string) bool {
	return strings.Contains(strings.ToLower(s), lowered)
}
