package carRepo

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

// MongoCarRepo implements CarRepository using MongoDB.
type MongoCarRepo struct {
	cars       *mongo.Collection
	categories *mongo.Collection
	deals      *mongo.Collection
}

// NewMongoCarRepo creates a new instance of CarRepository using MongoDB.
func NewMongoCarRepo() CarRepository {
	repo := &MongoCarRepo{
		cars:       database.Collection("cars"),
		categories: database.Collection("categories"),
		deals:      database.Collection("deals"),
	}
	if err := repo.ensureIndexes(); err != nil {
		utils.GetLogger().Sugar().Warnf("car repo: failed to create indexes: %v", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// wrapErr maps low-level store failures onto the engine error taxonomy.
func wrapErr(source string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &utils.TimeoutError{Source: source}
	}
	return &utils.SourceUnavailableError{Source: source, Err: err}
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoCarRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "fuel_type", Value: 1}}},
		{Keys: bson.D{{Key: "recommended", Value: 1}}},
	}

	_, err := r.cars.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create car indexes: %w", err)
	}
	return nil
}

// GetCars retrieves a catalog page ordered by id, resuming after lastID when
// one is supplied.
func (r *MongoCarRepo) GetCars(ctx context.Context, limit int64, lastID string) ([]models.Car, error) {
	filter := bson.M{}
	if lastID != "" {
		filter["id"] = bson.M{"$gt": lastID}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "id", Value: 1}}).
		SetLimit(limit)

	cursor, err := r.cars.Find(ctx, filter, opts)
	if err != nil {
		return nil, wrapErr("cars", err)
	}
	defer cursor.Close(ctx)

	var cars []models.Car
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, wrapErr("cars", err)
	}
	return cars, nil
}

// GetCategories retrieves every vehicle category.
func (r *MongoCarRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.categories.Find(ctx, bson.M{})
	if err != nil {
		return nil, wrapErr("categories", err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, wrapErr("categories", err)
	}
	return categories, nil
}

// GetDeals retrieves the current promotional deals, highest discount first.
func (r *MongoCarRepo) GetDeals(ctx context.Context) ([]models.Deal, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "discount_percentage", Value: -1}}).
		SetLimit(5)

	cursor, err := r.deals.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, wrapErr("deals", err)
	}
	defer cursor.Close(ctx)

	var deals []models.Deal
	if err := cursor.All(ctx, &deals); err != nil {
		return nil, wrapErr("deals", err)
	}
	return deals, nil
}

// GetRecommendedCars retrieves up to limit cars flagged as recommended.
func (r *MongoCarRepo) GetRecommendedCars(ctx context.Context, limit int64) ([]models.Car, error) {
	opts := options.Find().SetLimit(limit)

	cursor, err := r.cars.Find(ctx, bson.M{"recommended": true}, opts)
	if err != nil {
		return nil, wrapErr("cars", err)
	}
	defer cursor.Close(ctx)

	var cars []models.Car
	if err := cursor.All(ctx, &cars); err != nil {
		return nil, wrapErr("cars", err)
	}
	return cars, nil
}

// GetCarByID retrieves a single car by its opaque id.
func (r *MongoCarRepo) GetCarByID(ctx context.Context, id string) (*models.Car, error) {
	var car models.Car
	if err := r.cars.FindOne(ctx, bson.M{"id": id}).Decode(&car); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &utils.NotFoundError{Kind: "car", ID: id}
		}
		return nil, wrapErr("cars", err)
	}
	return &car, nil
}

// Watch opens a push stream over catalog changes.
func (r *MongoCarRepo) Watch(ctx context.Context) (stream.Subscription, error) {
	sub, err := stream.Watch(ctx, r.cars, mongo.Pipeline{})
	if err != nil {
		return nil, wrapErr("cars", err)
	}
	return sub, nil
}
