// Package viewstate implements the per-screen combiner engines. Each engine
// owns its derived state through a single command-loop goroutine: commands
// and source results are applied in order, and every logical change
// republishes one fully-recomputed immutable snapshot.
package viewstate

import (
	"context"
	"sync"

	"rentalwheels/config"
	carRepo "rentalwheels/database/repository/car"
	"rentalwheels/database/repository/stream"
	"rentalwheels/models"
	"rentalwheels/preferences"
	"rentalwheels/services/catalog"
	"rentalwheels/services/collections"
	"rentalwheels/utils"

	"go.uber.org/zap"
)

// BrowseEngine combines the catalog source with search, filter, favorites
// and comparison state into the browse screen's view state.
type BrowseEngine struct {
	repo       carRepo.CarRepository
	prefs      preferences.Store
	favorites  *collections.Favorites
	comparison *collections.Comparison
	logger     *zap.Logger

	pageSize int64

	commands chan func()
	done     chan struct{}
	stopOnce sync.Once

	// Fields below are owned by the command loop goroutine.
	allCars      []models.Car
	categories   []models.Category
	query        string
	filters      models.BrowseFilters
	loadingMore  bool
	refreshing   bool
	loaded       bool
	generation   uint64
	catalogSub   stream.Subscription
	watchPending bool

	mu        sync.RWMutex
	published models.BrowseState
	subs      map[int]chan models.BrowseState
	nextSubID int
}

// NewBrowseEngine wires a browse engine. Persisted filters are restored from
// the preference store; call Load to start the first fetch.
func NewBrowseEngine(ctx context.Context, repo carRepo.CarRepository, prefs preferences.Store, favorites *collections.Favorites, comparison *collections.Comparison) (*BrowseEngine, error) {
	record, err := prefs.FilterRecord(ctx)
	if err != nil {
		return nil, err
	}

	e := &BrowseEngine{
		repo:       repo,
		prefs:      prefs,
		favorites:  favorites,
		comparison: comparison,
		logger:     utils.GetLogger().Named("browse"),
		pageSize:   int64(config.AppConfig.CatalogPageSize),
		commands:   make(chan func(), 16),
		done:       make(chan struct{}),
		filters:    record.Filters,
		published:  models.BrowseState{Phase: models.PhaseLoading},
		subs:       make(map[int]chan models.BrowseState),
	}
	if e.pageSize <= 0 {
		e.pageSize = 20
	}

	go e.run()
	return e, nil
}

// run is the single writer for all derived browse state.
func (e *BrowseEngine) run() {
	for {
		select {
		case cmd := <-e.commands:
			cmd()
		case <-e.done:
			return
		}
	}
}

// do executes fn on the command loop and waits for it to finish, so callers
// observe their own writes.
func (e *BrowseEngine) do(fn func()) {
	ack := make(chan struct{})
	select {
	case e.commands <- func() { fn(); close(ack) }:
		select {
		case <-ack:
		case <-e.done:
		}
	case <-e.done:
	}
}

// Close tears the engine down and cancels the catalog subscription.
func (e *BrowseEngine) Close() {
	e.do(func() {
		if e.catalogSub != nil {
			e.catalogSub.Cancel()
			e.catalogSub = nil
		}
	})
	e.stopOnce.Do(func() { close(e.done) })
	e.mu.Lock()
	for id, ch := range e.subs {
		close(ch)
		delete(e.subs, id)
	}
	e.mu.Unlock()
}

// State returns the latest published snapshot.
func (e *BrowseEngine) State() models.BrowseState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.published
}

// Subscribe returns a channel of published snapshots and a cancel function.
// Slow consumers only ever skip intermediate snapshots, never observe a
// partially-updated one.
func (e *BrowseEngine) Subscribe() (<-chan models.BrowseState, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSubID
	e.nextSubID++
	ch := make(chan models.BrowseState, 1)
	ch <- e.published
	e.subs[id] = ch

	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if sub, ok := e.subs[id]; ok {
			close(sub)
			delete(e.subs, id)
		}
	}
	return ch, cancel
}

func (e *BrowseEngine) publish(state models.BrowseState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.published = state
	for _, ch := range e.subs {
		// Replace a pending snapshot rather than blocking the loop.
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

// Load starts the initial catalog fetch, superseding any in-flight load.
func (e *BrowseEngine) Load(ctx context.Context) {
	e.do(func() {
		e.generation++
		gen := e.generation
		if !e.loaded {
			e.publish(models.BrowseState{Phase: models.PhaseLoading})
		}
		go e.fetchCatalog(ctx, gen, e.pageSize)
	})
}

// Refresh refetches the catalog while keeping query and filter state.
func (e *BrowseEngine) Refresh(ctx context.Context) {
	e.do(func() {
		e.generation++
		gen := e.generation
		e.refreshing = true
		if e.loaded {
			e.publishSnapshot("")
		}
		limit := e.pageSize
		if n := int64(len(e.allCars)); n > limit {
			limit = n
		}
		go e.fetchCatalog(ctx, gen, limit)
	})
}

// fetchCatalog runs off the command loop; its result is applied back on the
// loop and dropped when a newer load has superseded this generation. The
// fetch is bounded only by the source timeout: the triggering request may
// have finished (and its context been cancelled) long before the result
// lands, so cancellation is not inherited from the caller.
func (e *BrowseEngine) fetchCatalog(ctx context.Context, gen uint64, limit int64) {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.SourceTimeout())
	defer cancel()

	cars, err := e.repo.GetCars(fetchCtx, limit, "")
	var cats []models.Category
	if err == nil {
		cats, err = e.repo.GetCategories(fetchCtx)
	}

	e.do(func() {
		if gen != e.generation {
			e.logger.Debug("discarding superseded catalog load", zap.Uint64("generation", gen))
			return
		}
		e.refreshing = false
		if err != nil {
			e.sourceFailed(err)
			return
		}
		e.allCars = cars
		e.categories = cats
		e.loaded = true
		e.ensureWatch()
		e.publishSnapshot("")
	})
}

// LoadMore appends the next catalog page, cursor-paginated by the last seen
// car id. A concurrent refresh supersedes the append.
func (e *BrowseEngine) LoadMore(ctx context.Context) {
	e.do(func() {
		if !e.loaded || e.loadingMore {
			return
		}
		e.loadingMore = true
		gen := e.generation
		lastID := ""
		if n := len(e.allCars); n > 0 {
			lastID = e.allCars[n-1].ID
		}
		e.publishSnapshot("")

		go func() {
			fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.SourceTimeout())
			defer cancel()
			page, err := e.repo.GetCars(fetchCtx, e.pageSize, lastID)

			e.do(func() {
				e.loadingMore = false
				if gen != e.generation {
					e.logger.Debug("discarding superseded page load", zap.Uint64("generation", gen))
					return
				}
				if err != nil {
					e.sourceFailed(err)
					return
				}
				e.allCars = append(e.allCars, page...)
				e.publishSnapshot("")
			})
		}()
	})
}

// ensureWatch opens the catalog push stream once and reloads on every event.
// Opening the stream is a network call, so it happens off the command loop;
// the subscription is handed back to the loop once established. Must run on
// the command loop.
func (e *BrowseEngine) ensureWatch() {
	if e.catalogSub != nil || e.watchPending {
		return
	}
	e.watchPending = true

	go func() {
		sub, err := e.repo.Watch(context.Background())
		if err != nil {
			e.logger.Warn("catalog watch unavailable, falling back to manual refresh", zap.Error(err))
			e.do(func() { e.watchPending = false })
			return
		}
		adopted := false
		e.do(func() {
			e.watchPending = false
			if e.catalogSub == nil {
				e.catalogSub = sub
				adopted = true
			}
		})
		if !adopted {
			// The engine closed before the stream came up.
			sub.Cancel()
			return
		}
		for range sub.Events() {
			e.Refresh(context.Background())
		}
		if err := sub.Err(); err != nil {
			e.logger.Warn("catalog watch ended", zap.Error(err))
		}
	}()
}

// SetSearchQuery replaces the search text and records it in the history.
func (e *BrowseEngine) SetSearchQuery(ctx context.Context, query string) {
	e.do(func() {
		e.query = query
		e.publishSnapshot("")
	})
	if err := e.prefs.AddSearchQuery(ctx, query); err != nil {
		e.logger.Warn("failed to record search query", zap.Error(err))
	}
}

// SetFilters replaces the filter selection wholesale and persists it.
func (e *BrowseEngine) SetFilters(ctx context.Context, filters models.BrowseFilters) {
	e.do(func() {
		e.filters = filters
		e.publishSnapshot("")
	})
	record := models.FilterRecord{Version: models.FilterRecordVersion, Filters: filters}
	if err := e.prefs.SetFilterRecord(ctx, record); err != nil {
		e.logger.Warn("failed to persist filters", zap.Error(err))
	}
}

// ClearFilters resets the selection to defaults.
func (e *BrowseEngine) ClearFilters(ctx context.Context) {
	e.SetFilters(ctx, models.DefaultBrowseFilters())
}

// ToggleFavorite flips a car's favorite membership and reports the new state.
func (e *BrowseEngine) ToggleFavorite(ctx context.Context, carID string) (bool, error) {
	member, err := e.favorites.Toggle(ctx, carID)
	e.do(func() { e.publishSnapshot("") })
	return member, err
}

// ToggleComparison flips a car's comparison membership. Adding past capacity
// is a no-op; consult CanAddCar first.
func (e *BrowseEngine) ToggleComparison(carID string) bool {
	var car *models.Car
	e.do(func() {
		for i := range e.allCars {
			if e.allCars[i].ID == carID {
				car = &e.allCars[i]
				break
			}
		}
	})
	if car == nil {
		return false
	}
	added := e.comparison.Toggle(*car)
	e.do(func() { e.publishSnapshot("") })
	return added
}

// RemoveComparison drops a car from the comparison set.
func (e *BrowseEngine) RemoveComparison(carID string) {
	e.comparison.Remove(carID)
	e.do(func() { e.publishSnapshot("") })
}

// ClearComparison empties the comparison set.
func (e *BrowseEngine) ClearComparison() {
	e.comparison.Clear()
	e.do(func() { e.publishSnapshot("") })
}

// CanAddCar reports whether a comparison toggle would add the car.
func (e *BrowseEngine) CanAddCar(carID string) bool {
	return e.comparison.CanAddCar(carID)
}

// sourceFailed applies the error policy: before the first successful load
// the screen enters the Error phase; afterwards the last known good view is
// retained and the failure surfaces as a transient notice.
func (e *BrowseEngine) sourceFailed(err error) {
	e.logger.Warn("catalog source failed", zap.Error(err))
	if !e.loaded {
		e.publish(models.BrowseState{Phase: models.PhaseError, ErrMessage: err.Error()})
		return
	}
	e.publishSnapshot(err.Error())
}

// publishSnapshot recomputes every derived collection together and publishes
// one internally consistent snapshot. Must run on the command loop.
func (e *BrowseEngine) publishSnapshot(notice string) {
	if !e.loaded {
		return
	}

	filtered := catalog.Apply(e.allCars, e.query, e.filters)
	facets := catalog.ExtractFacets(e.allCars, e.categories)

	data := &models.BrowseData{
		AllCars:                append([]models.Car(nil), e.allCars...),
		FilteredCars:           filtered,
		AvailableCategories:    facets.Categories,
		AvailableFuelTypes:     facets.FuelTypes,
		AvailableTransmissions: facets.Transmissions,
		TotalVehicles:          len(filtered),
		Filters:                e.filters,
		SearchQuery:            e.query,
		IsLoadingMore:          e.loadingMore,
		IsRefreshing:           e.refreshing,
		FavoriteCarIDs:         e.favorites.IDs(),
		ComparisonCars:         e.comparison.Cars(),
		CanAddComparison:       e.comparison.CanAddMore(),
	}

	e.publish(models.BrowseState{Phase: models.PhaseSuccess, Data: data, Notice: notice})
}
