package cart

import (
	"context"

	"rentalwheels/models"
	"rentalwheels/utils"
)

// Submitter is the booking-submission collaborator.
type Submitter interface {
	Create(ctx context.Context, booking *models.Booking) (string, error)
}

// Process converts every cart line into a pending booking through the
// submitter. Every line is attempted; the per-line outcomes are returned
// together with the lines that must stay in the cart. Only lines whose
// submission succeeded are cleared, so a partial failure never loses a
// failed line and never re-submits a succeeded one. When at least one line
// fails the error is a PartialSubmissionError carrying all outcomes.
func Process(ctx context.Context, submitter Submitter, items []models.CartItem, userID, defaultPickup string) ([]models.CartItem, []utils.SubmissionResult, error) {
	if len(items) == 0 {
		return nil, nil, nil
	}

	results := make([]utils.SubmissionResult, 0, len(items))
	var remaining []models.CartItem
	failed := false

	for _, item := range items {
		booking := bookingFromLine(item, userID, defaultPickup)
		id, err := submitter.Create(ctx, &booking)
		result := utils.SubmissionResult{CarID: item.Car.ID, BookingID: id}
		if err != nil {
			result.Err = err
			result.ErrDetail = err.Error()
			remaining = append(remaining, item)
			failed = true
		}
		results = append(results, result)
	}

	if failed {
		return remaining, results, &utils.PartialSubmissionError{Results: results}
	}
	return nil, results, nil
}

func bookingFromLine(item models.CartItem, userID, defaultPickup string) models.Booking {
	pickup := item.PickupLocation
	if pickup == "" {
		pickup = defaultPickup
	}
	return models.Booking{
		UserID:         userID,
		CarID:          item.Car.ID,
		Car:            item.Car,
		Status:         models.BookingPending,
		StartDate:      item.StartDate,
		EndDate:        item.EndDate,
		PickupLocation: pickup,
		ReturnLocation: pickup,
		TotalCost:      item.TotalCost(),
		WithDriver:     item.WithDriver,
	}
}
