package viewstate

import (
	"context"
	"testing"
	"time"

	"rentalwheels/database/repository/stream"
	"rentalwheels/models"
	"rentalwheels/preferences"
	"rentalwheels/services/collections"
	"rentalwheels/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second
const tick = 10 * time.Millisecond

func testCatalog() []models.Car {
	return []models.Car{
		{ID: "c1", Make: "Toyota", Model: "Corolla", Category: "Economy", Year: 2021, DailyRate: 50, FuelType: "Petrol", Transmission: "Manual", IsAvailable: true},
		{ID: "c2", Make: "BMW", Model: "X5", Category: "SUV", Year: 2023, DailyRate: 150, FuelType: "Diesel", Transmission: "Automatic", IsAvailable: true},
		{ID: "c3", Make: "Tesla", Model: "Model 3", Category: "Luxury", Year: 2024, DailyRate: 300, FuelType: "Electric", Transmission: "Automatic", IsAvailable: true},
	}
}

func newTestBrowse(t *testing.T, repo *fakeCarRepo) (*BrowseEngine, preferences.Store) {
	t.Helper()
	ctx := context.Background()
	store := preferences.NewMemoryStore()
	favorites, err := collections.NewFavorites(ctx, store)
	require.NoError(t, err)

	engine, err := NewBrowseEngine(ctx, repo, store, favorites, collections.NewComparison(3))
	require.NoError(t, err)
	t.Cleanup(engine.Close)
	return engine, store
}

func waitSuccess(t *testing.T, engine *BrowseEngine) models.BrowseState {
	t.Helper()
	require.Eventually(t, func() bool {
		return engine.State().Phase == models.PhaseSuccess
	}, waitFor, tick)
	return engine.State()
}

func TestBrowseFirstLoadSuccess(t *testing.T) {
	repo := &fakeCarRepo{cars: testCatalog()}
	engine, _ := newTestBrowse(t, repo)

	assert.Equal(t, models.PhaseLoading, engine.State().Phase)
	engine.Load(context.Background())

	state := waitSuccess(t, engine)
	require.NotNil(t, state.Data)
	assert.Len(t, state.Data.AllCars, 3)
	assert.Len(t, state.Data.FilteredCars, 3)
	assert.Equal(t, 3, state.Data.TotalVehicles)
	assert.Contains(t, state.Data.AvailableFuelTypes, "Electric")
	assert.Empty(t, state.ErrMessage)
}

func TestBrowseFirstLoadFailureEntersErrorPhase(t *testing.T) {
	repo := &fakeCarRepo{carsErr: &utils.SourceUnavailableError{Source: "cars"}}
	engine, _ := newTestBrowse(t, repo)

	engine.Load(context.Background())

	require.Eventually(t, func() bool {
		return engine.State().Phase == models.PhaseError
	}, waitFor, tick)
	state := engine.State()
	assert.Nil(t, state.Data)
	assert.NotEmpty(t, state.ErrMessage)
}

func TestBrowseFailureAfterSuccessKeepsLastGoodData(t *testing.T) {
	repo := &fakeCarRepo{cars: testCatalog()}
	engine, _ := newTestBrowse(t, repo)

	engine.Load(context.Background())
	waitSuccess(t, engine)

	repo.setErr(&utils.SourceUnavailableError{Source: "cars"})
	engine.Refresh(context.Background())

	require.Eventually(t, func() bool {
		return engine.State().Notice != ""
	}, waitFor, tick)
	state := engine.State()
	assert.Equal(t, models.PhaseSuccess, state.Phase)
	require.NotNil(t, state.Data)
	assert.Len(t, state.Data.AllCars, 3)

	// The next successful refresh clears the notice.
	repo.setErr(nil)
	engine.Refresh(context.Background())
	require.Eventually(t, func() bool {
		return engine.State().Notice == ""
	}, waitFor, tick)
}

func TestBrowseSupersededLoadIsDiscarded(t *testing.T) {
	repo := &fakeCarRepo{cars: testCatalog()}
	engine, _ := newTestBrowse(t, repo)

	// The first fetch stalls; a second load supersedes it with fresh data.
	release := repo.gateCallN(1)
	engine.Load(context.Background())

	repo.setCars(testCatalog()[:1])
	engine.Load(context.Background())

	state := waitSuccess(t, engine)
	require.NotNil(t, state.Data)
	assert.Len(t, state.Data.AllCars, 1)

	// Releasing the stale fetch must not overwrite the newer result.
	repo.setCars(testCatalog())
	release()
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, engine.State().Data.AllCars, 1)
}

func TestBrowseRefreshOutlivesCallerContext(t *testing.T) {
	repo := &fakeCarRepo{cars: testCatalog()}
	engine, _ := newTestBrowse(t, repo)
	engine.Load(context.Background())
	waitSuccess(t, engine)

	// The caller's context ends while the refetch is still in flight, the
	// way an HTTP handler's request context does once it responds. The
	// refetch must complete anyway.
	release := repo.gateCallN(2)
	reqCtx, cancel := context.WithCancel(context.Background())
	engine.Refresh(reqCtx)
	cancel()

	repo.setCars(testCatalog()[:2])
	release()

	require.Eventually(t, func() bool {
		state := engine.State()
		return state.Data != nil && len(state.Data.AllCars) == 2 && !state.Data.IsRefreshing
	}, waitFor, tick)
	assert.Empty(t, engine.State().Notice)
}

func TestBrowseWatchOpenDoesNotStallCommands(t *testing.T) {
	sub := newFakeSub()
	repo := &fakeCarRepo{cars: testCatalog(), sub: sub}
	releaseWatch := repo.gateWatch()
	engine, _ := newTestBrowse(t, repo)

	// The watch open hangs; the first load must still publish and commands
	// must still be applied.
	engine.Load(context.Background())
	waitSuccess(t, engine)

	engine.SetSearchQuery(context.Background(), "tesla")
	assert.Len(t, engine.State().Data.FilteredCars, 1)

	// Once the stream comes up, events reach the engine as usual.
	releaseWatch()
	repo.setCars(testCatalog()[:2])
	sub.emit(stream.Event{Collection: "cars", Operation: "update"})
	require.Eventually(t, func() bool {
		state := engine.State()
		return state.Data != nil && len(state.Data.AllCars) == 2
	}, waitFor, tick)
}

func TestBrowseSearchAndFiltersRecompute(t *testing.T) {
	repo := &fakeCarRepo{cars: testCatalog()}
	engine, store := newTestBrowse(t, repo)
	engine.Load(context.Background())
	waitSuccess(t, engine)

	engine.SetSearchQuery(context.Background(), "tesla")
	state := engine.State()
	require.NotNil(t, state.Data)
	assert.Len(t, state.Data.FilteredCars, 1)
	assert.Equal(t, "c3", state.Data.FilteredCars[0].ID)

	history, err := store.SearchHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"tesla"}, history)

	engine.SetSearchQuery(context.Background(), "")
	filters := models.DefaultBrowseFilters()
	filters.SelectedCategory = "SUV"
	engine.SetFilters(context.Background(), filters)

	state = engine.State()
	assert.Len(t, state.Data.FilteredCars, 1)
	assert.Equal(t, "c2", state.Data.FilteredCars[0].ID)

	engine.ClearFilters(context.Background())
	assert.Len(t, engine.State().Data.FilteredCars, 3)
}

func TestBrowseFiltersPersistAcrossEngines(t *testing.T) {
	repo := &fakeCarRepo{cars: testCatalog()}
	ctx := context.Background()
	store := preferences.NewMemoryStore()
	favorites, err := collections.NewFavorites(ctx, store)
	require.NoError(t, err)

	engine, err := NewBrowseEngine(ctx, repo, store, favorites, collections.NewComparison(3))
	require.NoError(t, err)
	filters := models.DefaultBrowseFilters()
	filters.SelectedFuelType = "Electric"
	engine.SetFilters(ctx, filters)
	engine.Close()

	favorites2, err := collections.NewFavorites(ctx, store)
	require.NoError(t, err)
	restored, err := NewBrowseEngine(ctx, repo, store, favorites2, collections.NewComparison(3))
	require.NoError(t, err)
	defer restored.Close()

	restored.Load(ctx)
	require.Eventually(t, func() bool {
		return restored.State().Phase == models.PhaseSuccess
	}, waitFor, tick)
	assert.Equal(t, "Electric", restored.State().Data.Filters.SelectedFuelType)
}

func TestBrowseFavoritesAndComparisonInSnapshot(t *testing.T) {
	repo := &fakeCarRepo{cars: testCatalog()}
	engine, _ := newTestBrowse(t, repo)
	engine.Load(context.Background())
	waitSuccess(t, engine)

	member, err := engine.ToggleFavorite(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, member)
	assert.Equal(t, []string{"c1"}, engine.State().Data.FavoriteCarIDs)

	engine.ToggleComparison("c1")
	engine.ToggleComparison("c2")
	engine.ToggleComparison("c3")
	state := engine.State()
	assert.Len(t, state.Data.ComparisonCars, 3)
	assert.False(t, state.Data.CanAddComparison)

	engine.RemoveComparison("c2")
	state = engine.State()
	assert.Len(t, state.Data.ComparisonCars, 2)
	assert.True(t, state.Data.CanAddComparison)
}

func TestBrowseLoadMoreAppendsNextPage(t *testing.T) {
	// Two-car catalog with a page size larger than the catalog keeps this
	// simple: load everything, then a load-more returns nothing new.
	repo := &fakeCarRepo{cars: testCatalog()}
	engine, _ := newTestBrowse(t, repo)
	engine.Load(context.Background())
	waitSuccess(t, engine)

	engine.LoadMore(context.Background())
	require.Eventually(t, func() bool {
		return !engine.State().Data.IsLoadingMore
	}, waitFor, tick)
	assert.Len(t, engine.State().Data.AllCars, 3)
}

func TestBrowseWatchEventTriggersRefetch(t *testing.T) {
	sub := newFakeSub()
	repo := &fakeCarRepo{cars: testCatalog(), sub: sub}
	engine, _ := newTestBrowse(t, repo)
	engine.Load(context.Background())
	waitSuccess(t, engine)

	repo.setCars(testCatalog()[:2])
	sub.emit(stream.Event{Collection: "cars", Operation: "update"})

	require.Eventually(t, func() bool {
		state := engine.State()
		return state.Data != nil && len(state.Data.AllCars) == 2
	}, waitFor, tick)
}

func TestBrowseSubscribeDeliversSnapshots(t *testing.T) {
	repo := &fakeCarRepo{cars: testCatalog()}
	engine, _ := newTestBrowse(t, repo)

	ch, cancel := engine.Subscribe()
	defer cancel()

	first := <-ch
	assert.Equal(t, models.PhaseLoading, first.Phase)

	engine.Load(context.Background())
	require.Eventually(t, func() bool {
		select {
		case state := <-ch:
			return state.Phase == models.PhaseSuccess
		default:
			return false
		}
	}, waitFor, tick)
}
