// Package handlers exposes the view state engines over HTTP. Each handler
// resolves the caller's per-user session, applies the command and returns the
// freshly published snapshot.
package handlers

import (
	"context"
	"fmt"
	"sync"

	bookingRepo "rentalwheels/database/repository/booking"
	carRepo "rentalwheels/database/repository/car"
	"rentalwheels/preferences"
	"rentalwheels/services/collections"
	"rentalwheels/services/viewstate"

	"github.com/go-redis/redis/v8"
)

// UserSession bundles the per-user engines and their shared preference store.
type UserSession struct {
	Store      preferences.Store
	Favorites  *collections.Favorites
	Comparison *collections.Comparison
	Browse     *viewstate.BrowseEngine
	Bookings   *viewstate.BookingsEngine
}

// SessionManager creates and caches one UserSession per user id. Engines are
// started lazily on the first request and live until Shutdown.
type SessionManager struct {
	cars        carRepo.CarRepository
	bookings    bookingRepo.BookingRepository
	prefsClient *redis.Client
	maxCompare  int

	mu       sync.Mutex
	sessions map[string]*UserSession
}

// NewSessionManager wires a session manager over the shared repositories.
func NewSessionManager(cars carRepo.CarRepository, bookings bookingRepo.BookingRepository, prefsClient *redis.Client, maxCompare int) *SessionManager {
	return &SessionManager{
		cars:        cars,
		bookings:    bookings,
		prefsClient: prefsClient,
		maxCompare:  maxCompare,
		sessions:    make(map[string]*UserSession),
	}
}

// Get returns the user's session, creating and loading it on first use.
func (m *SessionManager) Get(ctx context.Context, userID string) (*UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[userID]; ok {
		return session, nil
	}

	store := preferences.NewRedisStore(m.prefsClient, userID)
	favorites, err := collections.NewFavorites(ctx, store)
	if err != nil {
		return nil, fmt.Errorf("failed to restore favorites for user %s: %w", userID, err)
	}
	comparison := collections.NewComparison(m.maxCompare)

	browse, err := viewstate.NewBrowseEngine(ctx, m.cars, store, favorites, comparison)
	if err != nil {
		return nil, fmt.Errorf("failed to start browse engine for user %s: %w", userID, err)
	}
	bookings := viewstate.NewBookingsEngine(userID, m.bookings, m.cars, store)

	// Engines outlive the request that created them; load them against the
	// background context so a request cancellation does not kill the session.
	browse.Load(context.Background())
	bookings.Load(context.Background())

	session := &UserSession{
		Store:      store,
		Favorites:  favorites,
		Comparison: comparison,
		Browse:     browse,
		Bookings:   bookings,
	}
	m.sessions[userID] = session
	return session, nil
}

// Shutdown closes every live session's engines and flushes their stores.
func (m *SessionManager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID, session := range m.sessions {
		session.Browse.Close()
		session.Bookings.Close()
		// Flush is best effort; the store persists on every write anyway.
		_ = session.Store.Flush(ctx)
		delete(m.sessions, userID)
	}
}
