package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentalwheels/models"
	"rentalwheels/utils"

	"github.com/stretchr/testify/assert"
)

// fakeSubmitter fails any car id present in failing and records every
// submitted booking.
type fakeSubmitter struct {
	failing   map[string]error
	submitted []models.Booking
	nextID    int
}

func (f *fakeSubmitter) Create(ctx context.Context, booking *models.Booking) (string, error) {
	if err, ok := f.failing[booking.CarID]; ok {
		return "", err
	}
	f.nextID++
	f.submitted = append(f.submitted, *booking)
	return booking.CarID + "-booking", nil
}

func cartLines() []models.CartItem {
	start := time.Date(2026, 8, 16, 12, 0, 0, 0, time.UTC)
	return []models.CartItem{
		{Car: models.Car{ID: "car-1", DailyRate: 100}, StartDate: start, EndDate: start.Add(48 * time.Hour), Quantity: 1},
		{Car: models.Car{ID: "car-2", DailyRate: 150}, StartDate: start, EndDate: start.Add(24 * time.Hour), Quantity: 1},
		{Car: models.Car{ID: "car-3", DailyRate: 80}, StartDate: start, EndDate: start.Add(24 * time.Hour), Quantity: 2},
	}
}

func TestProcessAllSucceed(t *testing.T) {
	submitter := &fakeSubmitter{}

	remaining, results, err := Process(context.Background(), submitter, cartLines(), "user-1", "Airport")

	assert.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Len(t, results, 3)
	assert.Len(t, submitter.submitted, 3)
	for _, r := range results {
		assert.NoError(t, r.Err)
		assert.NotEmpty(t, r.BookingID)
	}
}

func TestProcessPartialFailureKeepsFailedLines(t *testing.T) {
	submitter := &fakeSubmitter{
		failing: map[string]error{"car-2": errors.New("no availability")},
	}

	remaining, results, err := Process(context.Background(), submitter, cartLines(), "user-1", "Airport")

	// Every line was attempted despite the middle one failing.
	assert.Len(t, results, 3)
	assert.Len(t, submitter.submitted, 2)

	// Only the failed line stays in the cart.
	assert.Len(t, remaining, 1)
	assert.Equal(t, "car-2", remaining[0].Car.ID)

	var partial *utils.PartialSubmissionError
	assert.ErrorAs(t, err, &partial)
	assert.Len(t, partial.Results, 3)
	assert.Error(t, partial.Results[1].Err)
}

func TestProcessBuildsPendingBookings(t *testing.T) {
	submitter := &fakeSubmitter{}
	lines := cartLines()
	lines[0].PickupLocation = "Harbor"

	_, _, err := Process(context.Background(), submitter, lines, "user-1", "Airport")
	assert.NoError(t, err)

	first := submitter.submitted[0]
	assert.Equal(t, "user-1", first.UserID)
	assert.Equal(t, models.BookingPending, first.Status)
	assert.Equal(t, "Harbor", first.PickupLocation)
	assert.Equal(t, 200.0, first.TotalCost)

	// Lines without a pickup fall back to the caller-supplied default.
	assert.Equal(t, "Airport", submitter.submitted[1].PickupLocation)
}

func TestProcessEmptyCart(t *testing.T) {
	remaining, results, err := Process(context.Background(), &fakeSubmitter{}, nil, "user-1", "")

	assert.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Empty(t, results)
}
