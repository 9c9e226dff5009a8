package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rentalwheels/database"
	"rentalwheels/database/repository/stream"
	"rentalwheels/models"
	"rentalwheels/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookings *mongo.Collection
	actions  *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	repo := &MongoBookingRepo{
		bookings: database.Collection("bookings"),
		actions:  database.Collection("user_actions"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("booking repo: failed to create indexes: %v", err)
	}
	return repo
}

// wrapErr maps low-level store failures onto the engine error taxonomy.
func wrapErr(source string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &utils.TimeoutError{Source: source}
	}
	return &utils.SourceUnavailableError{Source: source, Err: err}
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}

	_, err := r.bookings.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}

// GetUserBookings retrieves every booking owned by userID, newest first.
func (r *MongoBookingRepo) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.bookings.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrapErr("bookings", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, wrapErr("bookings", err)
	}
	return bookings, nil
}

// GetByID retrieves a single booking by its id.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.bookings.FindOne(ctx, bson.M{"id": id}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &utils.NotFoundError{Kind: "booking", ID: id}
		}
		return nil, wrapErr("bookings", err)
	}
	return &booking, nil
}

// Watch opens a push stream over changes to the user's bookings.
func (r *MongoBookingRepo) Watch(ctx context.Context, userID string) (stream.Subscription, error) {
	sub, err := stream.Watch(ctx, r.bookings, stream.MatchUserDocuments(userID), stream.WithFullDocument())
	if err != nil {
		return nil, wrapErr("bookings", err)
	}
	return sub, nil
}
