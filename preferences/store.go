package preferences

import (
	"context"

	"rentalwheels/models"
)

const (
	// MaxSearchHistory bounds the persisted search history, most recent first.
	MaxSearchHistory = 10
	// MaxTrackedActions bounds the persisted user action log, most recent first.
	MaxTrackedActions = 100
)

// Store is the persisted key-value preference store, explicitly injected into
// the engines. Lifecycle: construct, read/write during the session, Flush on
// teardown. Implementations must be safe for concurrent use.
type Store interface {
	FavoriteCarIDs(ctx context.Context) ([]string, error)
	SetFavoriteCarIDs(ctx context.Context, ids []string) error

	FavoriteBookingIDs(ctx context.Context) ([]string, error)
	SetFavoriteBookingIDs(ctx context.Context, ids []string) error

	// SearchHistory returns the most-recent-first query history.
	SearchHistory(ctx context.Context) ([]string, error)
	// AddSearchQuery prepends a query, de-duplicating and trimming to
	// MaxSearchHistory. Blank queries are ignored.
	AddSearchQuery(ctx context.Context, query string) error
	ClearSearchHistory(ctx context.Context) error

	// TrackUserAction appends to the bounded most-recent-first action log.
	TrackUserAction(ctx context.Context, name string, metadata map[string]string) error
	UserActions(ctx context.Context) ([]models.UserAction, error)

	BookingPreferences(ctx context.Context) (models.BookingPreferences, error)
	SetBookingPreferences(ctx context.Context, prefs models.BookingPreferences) error

	// FilterRecord returns the persisted browse filters, migrating any legacy
	// loose-map shape forward to the current versioned record.
	FilterRecord(ctx context.Context) (models.FilterRecord, error)
	SetFilterRecord(ctx context.Context, record models.FilterRecord) error

	ClearAll(ctx context.Context) error
	// Flush persists any buffered writes. Called once on teardown.
	Flush(ctx context.Context) error
}
