// Package bookings implements the pure booking categorizer and the derived
// analytics over a user's booking history.
package bookings

import (
	"sort"
	"time"

	"rentalwheels/models"
)

// Categorized is the four-way partition of a booking list at a fixed instant.
// A booking lands in at most one bucket.
type Categorized struct {
	Upcoming  []models.Booking
	Active    []models.Booking
	Past      []models.Booking
	Cancelled []models.Booking

	// TotalSpent sums totalCost across the Past bucket.
	TotalSpent float64
	// FavoriteCarIDs holds car ids that appear in two or more bookings.
	FavoriteCarIDs []string
}

// Categorize partitions bookings into Upcoming, Active, Past and Cancelled
// buckets in one pass. Bucket priority when multiple conditions could match:
// Cancelled, then Active, then Upcoming, then Past.
//
// A confirmed booking whose window has begun counts as Active even when the
// backend has not yet flipped its status. A booking whose window has closed
// (end at or before now) counts as Past regardless of a stale status; the
// active-window upper bound is strict, so end == now is Past, never Active.
func Categorize(bs []models.Booking, now time.Time) Categorized {
	var out Categorized
	perCar := make(map[string]int)

	for _, b := range bs {
		perCar[b.CarID]++

		switch {
		case b.Status == models.BookingCancelled:
			out.Cancelled = append(out.Cancelled, b)
		case isActive(b, now):
			out.Active = append(out.Active, b)
		case b.Status == models.BookingConfirmed && b.StartDate.After(now):
			out.Upcoming = append(out.Upcoming, b)
		case b.Status == models.BookingCompleted || !b.EndDate.After(now):
			out.Past = append(out.Past, b)
			out.TotalSpent += b.TotalCost
		default:
			// Well-formed status/time pairs always land above; anything left
			// (e.g. a pending booking with a future window) is treated as
			// upcoming so it is never dropped from the view.
			out.Upcoming = append(out.Upcoming, b)
		}
	}

	for carID, count := range perCar {
		if count >= 2 {
			out.FavoriteCarIDs = append(out.FavoriteCarIDs, carID)
		}
	}
	sort.Strings(out.FavoriteCarIDs)
	return out
}

func isActive(b models.Booking, now time.Time) bool {
	if b.Status == models.BookingActive {
		return true
	}
	return b.Status == models.BookingConfirmed &&
		!b.StartDate.After(now) &&
		b.EndDate.After(now)
}

// Select returns the bucket matching the filter, or all bookings for
// FilterAll.
func (c Categorized) Select(all []models.Booking, filter models.BookingFilter) []models.Booking {
	switch filter {
	case models.FilterUpcoming:
		return c.Upcoming
	case models.FilterActive:
		return c.Active
	case models.FilterPast:
		return c.Past
	case models.FilterCancelled:
		return c.Cancelled
	default:
		return all
	}
}
