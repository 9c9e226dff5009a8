package carRepo

import (
	"context"

	"rentalwheels/database/repository/stream"
	"rentalwheels/models"
)

// CarRepository is the typed source adapter over the "cars", "categories"
// and "deals" collections. All calls are bounded by the caller's context;
// Watch exposes the backend's push stream as a cancellable subscription.
type CarRepository interface {
	// GetCars returns one catalog page ordered by car id. A non-empty lastID
	// resumes after the last seen id (cursor pagination).
	GetCars(ctx context.Context, limit int64, lastID string) ([]models.Car, error)
	GetCategories(ctx context.Context) ([]models.Category, error)
	GetDeals(ctx context.Context) ([]models.Deal, error)
	GetRecommendedCars(ctx context.Context, limit int64) ([]models.Car, error)
	// GetCarByID returns the car or a NotFoundError when the id is absent.
	GetCarByID(ctx context.Context, id string) (*models.Car, error)
	// Watch emits an event whenever the catalog changes server-side.
	Watch(ctx context.Context) (stream.Subscription, error)
}
