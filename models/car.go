package models

// Car represents a rental vehicle document from the "cars" collection.
// Instances are immutable once fetched; the engine holds read-only copies
// and replaces them wholesale on refetch.
type Car struct {
	ID           string   `bson:"id" json:"id"`
	Make         string   `bson:"make" json:"make"`
	Model        string   `bson:"model" json:"model"`
	Category     string   `bson:"category" json:"category"`
	Year         int      `bson:"year" json:"year"`
	DailyRate    float64  `bson:"daily_rate" json:"dailyRate"`
	FuelType     string   `bson:"fuel_type" json:"fuelType"`
	Transmission string   `bson:"transmission" json:"transmission"`
	Mileage      int      `bson:"mileage" json:"mileage"`
	Features     []string `bson:"features,omitempty" json:"features,omitempty"`
	Description  string   `bson:"description,omitempty" json:"description,omitempty"`
	ImageURL     string   `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Location     string   `bson:"location,omitempty" json:"location,omitempty"`

	IsElectric         bool `bson:"is_electric" json:"isElectric"`
	HasGPS             bool `bson:"has_gps" json:"hasGPS"`
	HasAirConditioning bool `bson:"has_air_conditioning" json:"hasAirConditioning"`
	HasBluetooth       bool `bson:"has_bluetooth" json:"hasBluetooth"`

	SeatingCapacity int     `bson:"seating_capacity" json:"seatingCapacity"`
	IsAvailable     bool    `bson:"is_available" json:"isAvailable"`
	Rating          float64 `bson:"rating" json:"rating"`
	ReviewCount     int     `bson:"review_count" json:"reviewCount"`
	Recommended     bool    `bson:"recommended" json:"recommended"`
}

// Brand is the lexical sort key used by the brand sort options.
func (c Car) Brand() string {
	return c.Make + " " + c.Model
}

// Category represents a vehicle category document.
type Category struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	ImageURL string `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
}

// Deal represents a promotional offer attached to a car.
type Deal struct {
	ID                 string  `bson:"id" json:"id"`
	CarID              string  `bson:"car_id" json:"carId"`
	Title              string  `bson:"title" json:"title"`
	Description        string  `bson:"description,omitempty" json:"description,omitempty"`
	DiscountPercentage int     `bson:"discount_percentage" json:"discountPercentage"`
	DiscountedRate     float64 `bson:"discounted_rate" json:"discountedRate"`
	OriginalRate       float64 `bson:"original_rate" json:"originalRate"`
	ValidFrom          string  `bson:"valid_from,omitempty" json:"validFrom,omitempty"`
	ValidTo            string  `bson:"valid_to,omitempty" json:"validTo,omitempty"`
	ImageURL           string  `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
}
