package models

import "time"

// DriverDailySurcharge is the flat per-day fee added to a cart line booked
// with a driver.
const DriverDailySurcharge = 25.0

// CartItem is a staged, unconfirmed booking held only in memory. Identity is
// the car id: one cart line per vehicle, duplicates merge by quantity.
type CartItem struct {
	Car            Car       `json:"car"`
	StartDate      time.Time `json:"startDate"`
	EndDate        time.Time `json:"endDate"`
	PickupLocation string    `json:"pickupLocation,omitempty"`
	WithDriver     bool      `json:"withDriver"`
	Quantity       int       `json:"quantity"`
}

// DurationDays is the whole-day rental length of this line, never below one.
// Computed from the line's own window, not a global default.
func (ci CartItem) DurationDays() int {
	days := int(ci.EndDate.Sub(ci.StartDate).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// TotalCost derives the line cost: daily rate times day count times quantity,
// plus the driver surcharge when the line is booked with a driver.
func (ci CartItem) TotalCost() float64 {
	days := ci.DurationDays()
	rate := ci.Car.DailyRate
	if ci.WithDriver {
		rate += DriverDailySurcharge
	}
	return rate * float64(days) * float64(ci.Quantity)
}
