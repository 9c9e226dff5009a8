package models

import "time"

// BookingStatus enumerates the lifecycle states of a booking. Transitions are
// driven only by explicit user actions (cancel, extend, modify) or backend
// confirmation; the engine never flips a status client-side except by refetch.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingActive    BookingStatus = "ACTIVE"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingModified  BookingStatus = "MODIFIED"
	BookingExpired   BookingStatus = "EXPIRED"
)

// ParseBookingStatus maps a raw status string to a BookingStatus, defaulting
// to Pending for unknown or missing values.
func ParseBookingStatus(s string) BookingStatus {
	switch BookingStatus(s) {
	case BookingPending, BookingConfirmed, BookingActive, BookingCompleted,
		BookingCancelled, BookingModified, BookingExpired:
		return BookingStatus(s)
	default:
		return BookingPending
	}
}

// PaymentStatus enumerates payment states for a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPartial  PaymentStatus = "PARTIAL"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// ParsePaymentStatus maps a raw status string to a PaymentStatus, defaulting
// to Pending for unknown values.
func ParsePaymentStatus(s string) PaymentStatus {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentFailed, PaymentRefunded:
		return PaymentStatus(s)
	default:
		return PaymentPending
	}
}

// DriverInfo describes the optional chauffeur attached to a with-driver booking.
type DriverInfo struct {
	ID          string  `bson:"id" json:"id"`
	Name        string  `bson:"name" json:"name"`
	PhoneNumber string  `bson:"phone_number" json:"phoneNumber"`
	Rating      float64 `bson:"rating" json:"rating"`
	ImageURL    string  `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Experience  string  `bson:"experience,omitempty" json:"experience,omitempty"`
}

// Booking represents a booking record from the "bookings" collection.
// Invariant: EndDate is strictly after StartDate. The ID is empty until the
// backend assigns one on creation.
type Booking struct {
	ID              string        `bson:"id" json:"id"`
	UserID          string        `bson:"user_id" json:"userId"`
	CarID           string        `bson:"car_id" json:"carId"`
	Car             Car           `bson:"car" json:"car"`
	Status          BookingStatus `bson:"status" json:"status"`
	StartDate       time.Time     `bson:"start_date" json:"startDate"`
	EndDate         time.Time     `bson:"end_date" json:"endDate"`
	PickupLocation  string        `bson:"pickup_location" json:"pickupLocation"`
	ReturnLocation  string        `bson:"return_location" json:"returnLocation"`
	TotalCost       float64       `bson:"total_cost" json:"totalCost"`
	PaymentStatus   PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	WithDriver      bool          `bson:"with_driver" json:"withDriver"`
	DriverInfo      *DriverInfo   `bson:"driver_info,omitempty" json:"driverInfo,omitempty"`
	SpecialRequests string        `bson:"special_requests,omitempty" json:"specialRequests,omitempty"`
	ReferenceNumber string        `bson:"reference_number" json:"referenceNumber"`
	CreatedAt       time.Time     `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updated_at" json:"updatedAt"`
}

// BookingFilter selects which categorized bucket a bookings view shows.
type BookingFilter string

const (
	FilterAll       BookingFilter = "ALL"
	FilterUpcoming  BookingFilter = "UPCOMING"
	FilterActive    BookingFilter = "ACTIVE"
	FilterPast      BookingFilter = "PAST"
	FilterCancelled BookingFilter = "CANCELLED"
)

// BookingAnalytics aggregates spend and usage insights over completed bookings.
type BookingAnalytics struct {
	TotalBookings          int                `json:"totalBookings"`
	TotalSpent             float64            `json:"totalSpent"`
	AverageRentalDuration  int                `json:"averageRentalDuration"` // days
	MostRentedCarBrand     string             `json:"mostRentedCarBrand"`
	PreferredPickupLocation string            `json:"preferredPickupLocation"`
	MonthlySpending        map[string]float64 `json:"monthlySpending"`
	FavoriteFeatures       []string           `json:"favoriteFeatures"`
}
