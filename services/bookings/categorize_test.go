package bookings

import (
	"testing"
	"time"

	"rentalwheels/models"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func booking(id, carID string, status models.BookingStatus, start, end time.Time, cost float64) models.Booking {
	return models.Booking{
		ID:        id,
		CarID:     carID,
		Status:    status,
		StartDate: start,
		EndDate:   end,
		TotalCost: cost,
	}
}

func TestCategorizePartitionsEveryBooking(t *testing.T) {
	bs := []models.Booking{
		booking("b1", "car-a", models.BookingConfirmed, now.Add(48*time.Hour), now.Add(96*time.Hour), 100),
		booking("b2", "car-b", models.BookingActive, now.Add(-24*time.Hour), now.Add(24*time.Hour), 200),
		booking("b3", "car-a", models.BookingCompleted, now.Add(-96*time.Hour), now.Add(-48*time.Hour), 300),
		booking("b4", "car-c", models.BookingCancelled, now.Add(48*time.Hour), now.Add(96*time.Hour), 400),
		booking("b5", "car-d", models.BookingPending, now.Add(48*time.Hour), now.Add(96*time.Hour), 500),
	}

	cat := Categorize(bs, now)

	assert.Len(t, cat.Active, 1)
	assert.Len(t, cat.Past, 1)
	assert.Len(t, cat.Cancelled, 1)
	// The pending booking with a future window falls through to Upcoming.
	assert.Len(t, cat.Upcoming, 2)

	total := len(cat.Upcoming) + len(cat.Active) + len(cat.Past) + len(cat.Cancelled)
	assert.Equal(t, len(bs), total, "every booking lands in exactly one bucket")
}

func TestCategorizeConfirmedWithStartedWindowIsActive(t *testing.T) {
	bs := []models.Booking{
		booking("b1", "car-a", models.BookingConfirmed, now.Add(-time.Hour), now.Add(time.Hour), 100),
	}

	cat := Categorize(bs, now)

	assert.Len(t, cat.Active, 1)
	assert.Empty(t, cat.Upcoming)
}

func TestCategorizeWindowUpperBoundIsStrict(t *testing.T) {
	// end == now is Past, never Active.
	bs := []models.Booking{
		booking("b1", "car-a", models.BookingConfirmed, now.Add(-48*time.Hour), now, 100),
	}

	cat := Categorize(bs, now)

	assert.Empty(t, cat.Active)
	assert.Len(t, cat.Past, 1)
}

func TestCategorizeCancelledWinsOverWindow(t *testing.T) {
	// A cancelled booking whose window has started stays Cancelled.
	bs := []models.Booking{
		booking("b1", "car-a", models.BookingCancelled, now.Add(-time.Hour), now.Add(time.Hour), 100),
	}

	cat := Categorize(bs, now)

	assert.Len(t, cat.Cancelled, 1)
	assert.Empty(t, cat.Active)
}

func TestCategorizeTotalSpentSumsPastBucketOnly(t *testing.T) {
	bs := []models.Booking{
		booking("b1", "car-a", models.BookingCompleted, now.Add(-96*time.Hour), now.Add(-48*time.Hour), 120),
		booking("b2", "car-b", models.BookingConfirmed, now.Add(-72*time.Hour), now.Add(-24*time.Hour), 80),
		booking("b3", "car-c", models.BookingActive, now.Add(-time.Hour), now.Add(time.Hour), 999),
		booking("b4", "car-d", models.BookingCancelled, now.Add(-96*time.Hour), now.Add(-48*time.Hour), 999),
	}

	cat := Categorize(bs, now)

	assert.Equal(t, 200.0, cat.TotalSpent)
}

func TestCategorizeFavoriteCarIDs(t *testing.T) {
	bs := []models.Booking{
		booking("b1", "car-b", models.BookingCompleted, now.Add(-96*time.Hour), now.Add(-48*time.Hour), 100),
		booking("b2", "car-b", models.BookingConfirmed, now.Add(48*time.Hour), now.Add(96*time.Hour), 100),
		booking("b3", "car-a", models.BookingCancelled, now.Add(-96*time.Hour), now.Add(-48*time.Hour), 100),
		booking("b4", "car-a", models.BookingActive, now.Add(-time.Hour), now.Add(time.Hour), 100),
		booking("b5", "car-c", models.BookingCompleted, now.Add(-96*time.Hour), now.Add(-48*time.Hour), 100),
	}

	cat := Categorize(bs, now)

	assert.Equal(t, []string{"car-a", "car-b"}, cat.FavoriteCarIDs)
}

func TestCategorizeEmptyInput(t *testing.T) {
	cat := Categorize(nil, now)

	assert.Empty(t, cat.Upcoming)
	assert.Empty(t, cat.Active)
	assert.Empty(t, cat.Past)
	assert.Empty(t, cat.Cancelled)
	assert.Zero(t, cat.TotalSpent)
	assert.Empty(t, cat.FavoriteCarIDs)
}

func TestSelectBuckets(t *testing.T) {
	all := []models.Booking{
		booking("b1", "car-a", models.BookingConfirmed, now.Add(48*time.Hour), now.Add(96*time.Hour), 100),
		booking("b2", "car-b", models.BookingCancelled, now.Add(48*time.Hour), now.Add(96*time.Hour), 100),
	}
	cat := Categorize(all, now)

	assert.Equal(t, all, cat.Select(all, models.FilterAll))
	assert.Equal(t, "b1", cat.Select(all, models.FilterUpcoming)[0].ID)
	assert.Equal(t, "b2", cat.Select(all, models.FilterCancelled)[0].ID)
	assert.Empty(t, cat.Select(all, models.FilterActive))
}

func TestSearchMatchesCarAndLocations(t *testing.T) {
	bs := []models.Booking{
		{ID: "b1", Car: models.Car{Make: "Toyota", Model: "Corolla"}, ReferenceNumber: "RW1A2B3C4D", PickupLocation: "Airport"},
		{ID: "b2", Car: models.Car{Make: "BMW", Model: "X5"}, ReturnLocation: "Downtown"},
	}

	assert.Len(t, Search(bs, "toyota"), 1)
	assert.Len(t, Search(bs, "1a2b"), 1)
	assert.Len(t, Search(bs, "downtown"), 1)
	assert.Len(t, Search(bs, "airport"), 1)
	assert.Empty(t, Search(bs, "ferrari"))
	assert.Equal(t, bs, Search(bs, "  "))
}
