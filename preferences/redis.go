// File: preferences/redis.go
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentalwheels/models"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "prefs:"

const (
	keyFavoriteCarIDs     = "favorite_car_ids"
	keyFavoriteBookingIDs = "favorite_booking_ids"
	keySearchHistory      = "search_history"
	keyUserActions        = "user_actions"
	keyBookingPrefs       = "booking_preferences"
	keyFilters            = "recent_filters"
)

// RedisStore implements Store on the Redis preference database. Every value
// is JSON-encoded under a key namespaced by user id.
type RedisStore struct {
	client *redis.Client
	userID string
}

// NewRedisStore creates a Store for one user backed by the given Redis client.
func NewRedisStore(client *redis.Client, userID string) Store {
	return &RedisStore{client: client, userID: userID}
}

func (s *RedisStore) key(name string) string {
	return keyPrefix + s.userID + ":" + name
}

func (s *RedisStore) getJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("preferences: failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		// Corrupt entries fall back to the zero value instead of poisoning
		// every subsequent read.
		return false, nil
	}
	return true, nil
}

func (s *RedisStore) setJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("preferences: failed to encode %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("preferences: failed to write %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) FavoriteCarIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if _, err := s.getJSON(ctx, s.key(keyFavoriteCarIDs), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *RedisStore) SetFavoriteCarIDs(ctx context.Context, ids []string) error {
	return s.setJSON(ctx, s.key(keyFavoriteCarIDs), ids)
}

func (s *RedisStore) FavoriteBookingIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if _, err := s.getJSON(ctx, s.key(keyFavoriteBookingIDs), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *RedisStore) SetFavoriteBookingIDs(ctx context.Context, ids []string) error {
	return s.setJSON(ctx, s.key(keyFavoriteBookingIDs), ids)
}

func (s *RedisStore) SearchHistory(ctx context.Context) ([]string, error) {
	var history []string
	if _, err := s.getJSON(ctx, s.key(keySearchHistory), &history); err != nil {
		return nil, err
	}
	return history, nil
}

func (s *RedisStore) AddSearchQuery(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	history, err := s.SearchHistory(ctx)
	if err != nil {
		return err
	}
	return s.setJSON(ctx, s.key(keySearchHistory), pushHistory(history, query, MaxSearchHistory))
}

func (s *RedisStore) ClearSearchHistory(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key(keySearchHistory)).Err(); err != nil {
		return fmt.Errorf("preferences: failed to clear search history: %w", err)
	}
	return nil
}

func (s *RedisStore) TrackUserAction(ctx context.Context, name string, metadata map[string]string) error {
	actions, err := s.UserActions(ctx)
	if err != nil {
		return err
	}
	action := models.UserAction{Action: name, Timestamp: time.Now(), Metadata: metadata}
	actions = append([]models.UserAction{action}, actions...)
	if len(actions) > MaxTrackedActions {
		actions = actions[:MaxTrackedActions]
	}
	return s.setJSON(ctx, s.key(keyUserActions), actions)
}

func (s *RedisStore) UserActions(ctx context.Context) ([]models.UserAction, error) {
	var actions []models.UserAction
	if _, err := s.getJSON(ctx, s.key(keyUserActions), &actions); err != nil {
		return nil, err
	}
	return actions, nil
}

func (s *RedisStore) BookingPreferences(ctx context.Context) (models.BookingPreferences, error) {
	prefs := models.DefaultBookingPreferences()
	if _, err := s.getJSON(ctx, s.key(keyBookingPrefs), &prefs); err != nil {
		return models.DefaultBookingPreferences(), err
	}
	return prefs, nil
}

func (s *RedisStore) SetBookingPreferences(ctx context.Context, prefs models.BookingPreferences) error {
	return s.setJSON(ctx, s.key(keyBookingPrefs), prefs)
}

func (s *RedisStore) FilterRecord(ctx context.Context) (models.FilterRecord, error) {
	raw, err := s.client.Get(ctx, s.key(keyFilters)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.FilterRecord{
			Version: models.FilterRecordVersion,
			Filters: models.DefaultBrowseFilters(),
		}, nil
	}
	if err != nil {
		return models.FilterRecord{}, fmt.Errorf("preferences: failed to read filters: %w", err)
	}
	return decodeFilterRecord(raw), nil
}

func (s *RedisStore) SetFilterRecord(ctx context.Context, record models.FilterRecord) error {
	record.Version = models.FilterRecordVersion
	return s.setJSON(ctx, s.key(keyFilters), record)
}

func (s *RedisStore) ClearAll(ctx context.Context) error {
	keys := []string{
		s.key(keyFavoriteCarIDs), s.key(keyFavoriteBookingIDs), s.key(keySearchHistory),
		s.key(keyUserActions), s.key(keyBookingPrefs), s.key(keyFilters),
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("preferences: failed to clear store: %w", err)
	}
	return nil
}

// Flush is a no-op for Redis: every write is persisted immediately.
func (s *RedisStore) Flush(ctx context.Context) error { return nil }

// pushHistory prepends entry to history, dropping duplicates and trimming to
// the cap.
func pushHistory(history []string, entry string, limit int) []string {
	out := make([]string, 0, len(history)+1)
	out = append(out, entry)
	for _, h := range history {
		if h != entry {
			out = append(out, h)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
