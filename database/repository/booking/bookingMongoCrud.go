// File: database/repository/booking/bookingMongoCrud.go
package bookingRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rentalwheels/models"
	"rentalwheels/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new booking document and returns its assigned id.
// The booking window must satisfy end > start.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) (string, error) {
	if !booking.EndDate.After(booking.StartDate) {
		return "", fmt.Errorf("booking window invalid: end %v is not after start %v",
			booking.EndDate, booking.StartDate)
	}

	now := time.Now()
	booking.ID = uuid.New().String()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.ReferenceNumber == "" {
		booking.ReferenceNumber = newReferenceNumber()
	}
	if booking.Status == "" {
		booking.Status = models.BookingPending
	}

	if _, err := r.bookings.InsertOne(ctx, booking); err != nil {
		return "", wrapErr("bookings", err)
	}

	r.recordUserAction(ctx, booking.UserID, "created_booking", booking.CarID)
	return booking.ID, nil
}

// Cancel marks a booking cancelled.
func (r *MongoBookingRepo) Cancel(ctx context.Context, id string) error {
	update := bson.M{"$set": bson.M{
		"status":     models.BookingCancelled,
		"updated_at": time.Now(),
	}}

	result, err := r.bookings.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return wrapErr("bookings", err)
	}
	if result.MatchedCount == 0 {
		return &utils.NotFoundError{Kind: "booking", ID: id}
	}

	r.recordUserActionByBooking(ctx, id, "cancelled_booking")
	return nil
}

// Extend moves the booking's end date. A zero newEnd defaults to
// twenty-four hours from now.
func (r *MongoBookingRepo) Extend(ctx context.Context, id string, newEnd time.Time) error {
	if newEnd.IsZero() {
		newEnd = time.Now().Add(24 * time.Hour)
	}

	update := bson.M{"$set": bson.M{
		"end_date":   newEnd,
		"status":     models.BookingModified,
		"updated_at": time.Now(),
	}}

	result, err := r.bookings.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return wrapErr("bookings", err)
	}
	if result.MatchedCount == 0 {
		return &utils.NotFoundError{Kind: "booking", ID: id}
	}

	r.recordUserActionByBooking(ctx, id, "extended_booking")
	return nil
}

// Modify replaces the booking's rental window.
func (r *MongoBookingRepo) Modify(ctx context.Context, id string, start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("booking window invalid: end %v is not after start %v", end, start)
	}

	update := bson.M{"$set": bson.M{
		"start_date": start,
		"end_date":   end,
		"status":     models.BookingModified,
		"updated_at": time.Now(),
	}}

	result, err := r.bookings.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return wrapErr("bookings", err)
	}
	if result.MatchedCount == 0 {
		return &utils.NotFoundError{Kind: "booking", ID: id}
	}

	r.recordUserActionByBooking(ctx, id, "modified_booking")
	return nil
}

// recordUserAction appends a user action document. Failures are logged, not
// propagated; action tracking never blocks a booking operation.
func (r *MongoBookingRepo) recordUserAction(ctx context.Context, userID, action, targetID string) {
	doc := bson.M{
		"user_id":   userID,
		"action":    action,
		"target_id": targetID,
		"timestamp": time.Now(),
	}
	if _, err := r.actions.InsertOne(ctx, doc); err != nil {
		utils.GetLogger().Sugar().Warnf("booking repo: failed to record action %s: %v", action, err)
	}
}

func (r *MongoBookingRepo) recordUserActionByBooking(ctx context.Context, bookingID, action string) {
	var booking models.Booking
	if err := r.bookings.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		return
	}
	r.recordUserAction(ctx, booking.UserID, action, bookingID)
}

// newReferenceNumber builds a short human-readable booking reference.
func newReferenceNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "RW" + id[:8]
}
