package collections

import (
	"context"
	"sync"
	"testing"

	"rentalwheels/models"
	"rentalwheels/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoritesToggleIsIdempotentPair(t *testing.T) {
	ctx := context.Background()
	favs, err := NewFavorites(ctx, preferences.NewMemoryStore())
	require.NoError(t, err)

	member, err := favs.Toggle(ctx, "car-1")
	require.NoError(t, err)
	assert.True(t, member)
	assert.True(t, favs.Contains("car-1"))

	member, err = favs.Toggle(ctx, "car-1")
	require.NoError(t, err)
	assert.False(t, member)
	assert.False(t, favs.Contains("car-1"))
	assert.Empty(t, favs.IDs())
}

func TestFavoritesWriteThroughAndRestore(t *testing.T) {
	ctx := context.Background()
	store := preferences.NewMemoryStore()

	favs, err := NewFavorites(ctx, store)
	require.NoError(t, err)
	_, err = favs.Toggle(ctx, "car-2")
	require.NoError(t, err)
	_, err = favs.Toggle(ctx, "car-1")
	require.NoError(t, err)

	// A new instance over the same store sees the persisted membership.
	restored, err := NewFavorites(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"car-1", "car-2"}, restored.IDs())
}

func TestFavoritesConcurrentTogglesPersistEveryMember(t *testing.T) {
	ctx := context.Background()
	store := preferences.NewMemoryStore()
	favs, err := NewFavorites(ctx, store)
	require.NoError(t, err)

	ids := []string{"car-1", "car-2", "car-3", "car-4", "car-5", "car-6"}
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := favs.Toggle(ctx, id)
			assert.NoError(t, err)
		}(id)
	}
	wg.Wait()

	// The last persisted snapshot must match the in-memory set; no toggle
	// may be lost to an out-of-order store write.
	saved, err := store.FavoriteCarIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, favs.IDs(), saved)
	assert.Len(t, saved, len(ids))
}

func car(id string) models.Car {
	return models.Car{ID: id, Make: "Make-" + id}
}

func TestComparisonToggleAddAndRemove(t *testing.T) {
	cmp := NewComparison(3)

	assert.True(t, cmp.Toggle(car("A")))
	assert.True(t, cmp.Contains("A"))

	// Toggling a selected car removes it.
	assert.False(t, cmp.Toggle(car("A")))
	assert.False(t, cmp.Contains("A"))
}

func TestComparisonCapacityIsSilentNoOp(t *testing.T) {
	cmp := NewComparison(3)
	cmp.Toggle(car("A"))
	cmp.Toggle(car("B"))
	cmp.Toggle(car("C"))

	assert.False(t, cmp.CanAddMore())
	assert.False(t, cmp.Toggle(car("D")))
	assert.Len(t, cmp.Cars(), 3)
	assert.False(t, cmp.Contains("D"))
}

func TestComparisonRemoveAtCapacityReopens(t *testing.T) {
	cmp := NewComparison(3)
	cmp.Toggle(car("A"))
	cmp.Toggle(car("B"))
	cmp.Toggle(car("C"))

	// Removal is always allowed, even at capacity.
	cmp.Toggle(car("B"))
	assert.Len(t, cmp.Cars(), 2)
	assert.True(t, cmp.CanAddMore())

	assert.True(t, cmp.Toggle(car("D")))
	assert.Equal(t, []string{"A", "C", "D"}, comparisonIDs(cmp))
}

func TestComparisonCanAddCar(t *testing.T) {
	cmp := NewComparison(2)
	cmp.Toggle(car("A"))
	cmp.Toggle(car("B"))

	// CanAddCar is an add predicate only. At capacity it reports false even
	// for a selected car, whose toggle would remove rather than add it.
	assert.False(t, cmp.CanAddCar("A"))
	assert.False(t, cmp.CanAddCar("C"))

	// Removing a car reopens a slot for any unselected id.
	cmp.Toggle(car("A"))
	assert.True(t, cmp.CanAddCar("A"))
	assert.True(t, cmp.CanAddCar("C"))
}

func TestComparisonClear(t *testing.T) {
	cmp := NewComparison(3)
	cmp.Toggle(car("A"))
	cmp.Toggle(car("B"))

	cmp.Clear()

	assert.Empty(t, cmp.Cars())
	assert.True(t, cmp.CanAddMore())
}

func TestComparisonDefaultCapacity(t *testing.T) {
	cmp := NewComparison(0)
	cmp.Toggle(car("A"))
	cmp.Toggle(car("B"))
	cmp.Toggle(car("C"))

	assert.False(t, cmp.Toggle(car("D")))
	assert.Len(t, cmp.Cars(), DefaultMaxComparisons)
}

func comparisonIDs(cmp *Comparison) []string {
	var out []string
	for _, c := range cmp.Cars() {
		out = append(out, c.ID)
	}
	return out
}
