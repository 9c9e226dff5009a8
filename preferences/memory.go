package preferences

import (
	"context"
	"strings"
	"sync"
	"time"

	"rentalwheels/models"
)

// MemoryStore implements Store entirely in memory. It backs tests and
// sessions where no Redis is reachable; contents are lost on process exit.
type MemoryStore struct {
	mu sync.RWMutex

	favoriteCarIDs     []string
	favoriteBookingIDs []string
	searchHistory      []string
	userActions        []models.UserAction
	bookingPrefs       *models.BookingPreferences
	filterRecord       *models.FilterRecord
}

// NewMemoryStore creates an empty in-memory preference store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) FavoriteCarIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.favoriteCarIDs...), nil
}

func (s *MemoryStore) SetFavoriteCarIDs(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favoriteCarIDs = append([]string(nil), ids...)
	return nil
}

func (s *MemoryStore) FavoriteBookingIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.favoriteBookingIDs...), nil
}

func (s *MemoryStore) SetFavoriteBookingIDs(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favoriteBookingIDs = append([]string(nil), ids...)
	return nil
}

func (s *MemoryStore) SearchHistory(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.searchHistory...), nil
}

func (s *MemoryStore) AddSearchQuery(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchHistory = pushHistory(s.searchHistory, query, MaxSearchHistory)
	return nil
}

func (s *MemoryStore) ClearSearchHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchHistory = nil
	return nil
}

func (s *MemoryStore) TrackUserAction(ctx context.Context, name string, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	action := models.UserAction{Action: name, Timestamp: time.Now(), Metadata: metadata}
	s.userActions = append([]models.UserAction{action}, s.userActions...)
	if len(s.userActions) > MaxTrackedActions {
		s.userActions = s.userActions[:MaxTrackedActions]
	}
	return nil
}

func (s *MemoryStore) UserActions(ctx context.Context) ([]models.UserAction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.UserAction(nil), s.userActions...), nil
}

func (s *MemoryStore) BookingPreferences(ctx context.Context) (models.BookingPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bookingPrefs == nil {
		return models.DefaultBookingPreferences(), nil
	}
	return *s.bookingPrefs, nil
}

func (s *MemoryStore) SetBookingPreferences(ctx context.Context, prefs models.BookingPreferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookingPrefs = &prefs
	return nil
}

func (s *MemoryStore) FilterRecord(ctx context.Context) (models.FilterRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.filterRecord == nil {
		return models.FilterRecord{
			Version: models.FilterRecordVersion,
			Filters: models.DefaultBrowseFilters(),
		}, nil
	}
	return *s.filterRecord, nil
}

func (s *MemoryStore) SetFilterRecord(ctx context.Context, record models.FilterRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record.Version = models.FilterRecordVersion
	s.filterRecord = &record
	return nil
}

func (s *MemoryStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.favoriteCarIDs = nil
	s.favoriteBookingIDs = nil
	s.searchHistory = nil
	s.userActions = nil
	s.bookingPrefs = nil
	s.filterRecord = nil
	return nil
}

func (s *MemoryStore) Flush(ctx context.Context) error { return nil }
