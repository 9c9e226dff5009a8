// Package collections holds the client-side bounded collections: the
// unbounded favorites set and the capacity-limited comparison set.
package collections

import (
	"context"
	"sort"
	"sync"

	"rentalwheels/preferences"
)

// Favorites is an unbounded set of car ids with idempotent toggle semantics.
// Membership changes are written through to the injected preference store.
type Favorites struct {
	mu    sync.RWMutex
	ids   map[string]bool
	store preferences.Store
}

// NewFavorites builds the favorites set, seeding membership from the
// preference store.
func NewFavorites(ctx context.Context, store preferences.Store) (*Favorites, error) {
	f := &Favorites{ids: make(map[string]bool), store: store}
	saved, err := store.FavoriteCarIDs(ctx)
	if err != nil {
		return nil, err
	}
	for _, id := range saved {
		f.ids[id] = true
	}
	return f, nil
}

// Toggle flips membership of carID and reports the new membership state.
// Toggling twice restores the original set. The store write happens under
// the lock so concurrent toggles cannot persist snapshots out of order.
func (f *Favorites) Toggle(ctx context.Context, carID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ids[carID] {
		delete(f.ids, carID)
	} else {
		f.ids[carID] = true
	}
	member := f.ids[carID]

	if err := f.store.SetFavoriteCarIDs(ctx, f.sortedLocked()); err != nil {
		return member, err
	}
	return member, nil
}

// Contains reports membership of carID.
func (f *Favorites) Contains(carID string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.ids[carID]
}

// IDs returns the sorted membership snapshot.
func (f *Favorites) IDs() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.sortedLocked()
}

func (f *Favorites) sortedLocked() []string {
	out := make([]string, 0, len(f.ids))
	for id := range f.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
