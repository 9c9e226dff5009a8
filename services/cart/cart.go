// Package cart implements the rental cart: a bounded staging area of
// unconfirmed bookings keyed by car id.
package cart

import (
	"time"

	"rentalwheels/models"
)

// Add merges car into the cart. An existing line for the same car id gains
// one quantity; a new car gets a fresh line with the default rental window
// of tomorrow through the day after.
func Add(items []models.CartItem, car models.Car, now time.Time) []models.CartItem {
	out := append([]models.CartItem(nil), items...)
	for i, item := range out {
		if item.Car.ID == car.ID {
			out[i].Quantity++
			return out
		}
	}
	return append(out, models.CartItem{
		Car:       car,
		StartDate: now.Add(24 * time.Hour),
		EndDate:   now.Add(48 * time.Hour),
		Quantity:  1,
	})
}

// Remove drops the line for carID, if present.
func Remove(items []models.CartItem, carID string) []models.CartItem {
	out := make([]models.CartItem, 0, len(items))
	for _, item := range items {
		if item.Car.ID != carID {
			out = append(out, item)
		}
	}
	return out
}

// UpdateItem replaces the line for carID wholesale. The updated line keeps
// the cart's identity rule: its car id wins over any id in the payload.
func UpdateItem(items []models.CartItem, carID string, updated models.CartItem) []models.CartItem {
	out := append([]models.CartItem(nil), items...)
	for i, item := range out {
		if item.Car.ID == carID {
			updated.Car.ID = carID
			if updated.Quantity < 1 {
				updated.Quantity = 1
			}
			out[i] = updated
			break
		}
	}
	return out
}

// Total sums every line's derived cost. Each line uses its own rental
// window, not a shared default.
func Total(items []models.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.TotalCost()
	}
	return total
}
