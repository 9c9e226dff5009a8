package bookingRepo

import (
	"context"
	"time"

	"rentalwheels/database/repository/stream"
	"rentalwheels/models"
)

// BookingRepository is the typed source adapter over the "bookings"
// collection. Mutating calls report success or failure to the caller; the
// engine never assumes a silent write succeeded.
type BookingRepository interface {
	// GetUserBookings returns every booking owned by userID, newest first.
	GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	// GetByID returns the booking or a NotFoundError when the id is absent.
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// Create submits a booking and returns the backend-assigned id.
	Create(ctx context.Context, booking *models.Booking) (string, error)
	Cancel(ctx context.Context, id string) error
	// Extend moves the end of the rental window. A zero newEnd defaults to
	// twenty-four hours from now.
	Extend(ctx context.Context, id string, newEnd time.Time) error
	Modify(ctx context.Context, id string, start, end time.Time) error
	// Watch emits an event whenever one of the user's bookings changes.
	Watch(ctx context.Context, userID string) (stream.Subscription, error)
}
