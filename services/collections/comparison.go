package collections

import (
	"sync"

	"rentalwheels/models"
)

// DefaultMaxComparisons is the comparison set capacity when none is
// configured.
const DefaultMaxComparisons = 3

// Comparison is the bounded side-by-side comparison set of car snapshots.
// Removal is always allowed; adding past capacity is a silent no-op, so
// callers should consult CanAddCar before offering the action.
type Comparison struct {
	mu   sync.RWMutex
	cars []models.Car
	max  int
}

// NewComparison builds an empty comparison set with the given capacity.
// Non-positive capacities fall back to the default.
func NewComparison(maxComparisons int) *Comparison {
	if maxComparisons <= 0 {
		maxComparisons = DefaultMaxComparisons
	}
	return &Comparison{max: maxComparisons}
}

// Toggle flips membership of the car, by id. A selected car is removed; a
// new car is added only while below capacity. Returns the resulting
// membership state.
func (c *Comparison) Toggle(car models.Car) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, existing := range c.cars {
		if existing.ID == car.ID {
			c.cars = append(c.cars[:i], c.cars[i+1:]...)
			return false
		}
	}
	if len(c.cars) >= c.max {
		return false
	}
	c.cars = append(c.cars, car)
	return true
}

// Remove drops the car with the given id, if selected.
func (c *Comparison) Remove(carID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, existing := range c.cars {
		if existing.ID == carID {
			c.cars = append(c.cars[:i], c.cars[i+1:]...)
			return
		}
	}
}

// Clear empties the comparison set.
func (c *Comparison) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cars = nil
}

// Contains reports whether the car id is selected.
func (c *Comparison) Contains(carID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, existing := range c.cars {
		if existing.ID == carID {
			return true
		}
	}
	return false
}

// CanAddMore reports whether the set is below capacity.
func (c *Comparison) CanAddMore() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cars) < c.max
}

// CanAddCar reports whether a toggle of carID would add it: the set must be
// below capacity and must not already contain the id.
func (c *Comparison) CanAddCar(carID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.cars) >= c.max {
		return false
	}
	for _, existing := range c.cars {
		if existing.ID == carID {
			return false
		}
	}
	return true
}

// Cars returns a copy of the selected snapshots in selection order.
func (c *Comparison) Cars() []models.Car {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]models.Car(nil), c.cars...)
}
