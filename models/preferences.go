package models

import "time"

// BookingPreferences holds the user's default booking choices.
type BookingPreferences struct {
	PreferredPickupLocation string                  `json:"preferredPickupLocation"`
	PreferredCarType        string                  `json:"preferredCarType"`
	PreferredFuelType       string                  `json:"preferredFuelType"`
	WithDriverByDefault     bool                    `json:"withDriverByDefault"`
	Notifications           NotificationPreferences `json:"notifications"`
}

// NotificationPreferences toggles the notification categories a user receives.
type NotificationPreferences struct {
	BookingReminders   bool `json:"bookingReminders"`
	PromotionalOffers  bool `json:"promotionalOffers"`
	NewCarAlerts       bool `json:"newCarAlerts"`
	PriceDropAlerts    bool `json:"priceDropAlerts"`
}

// DefaultBookingPreferences returns the preferences applied before a user
// has saved any.
func DefaultBookingPreferences() BookingPreferences {
	return BookingPreferences{
		Notifications: NotificationPreferences{
			BookingReminders:  true,
			PromotionalOffers: true,
		},
	}
}

// UserAction is one tracked interaction, kept in a bounded most-recent-first
// log for insights.
type UserAction struct {
	Action    string            `json:"action"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
