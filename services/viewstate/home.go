package viewstate

import (
	"context"
	"strconv"
	"sync"

	"rentalwheels/config"
	carRepo "rentalwheels/database/repository/car"
	"rentalwheels/database/repository/stream"
	"rentalwheels/models"
	"rentalwheels/utils"

	"go.uber.org/zap"
)

// HomeEngine combines categories, recommended cars and deals into the
// landing screen's view state.
type HomeEngine struct {
	repo   carRepo.CarRepository
	logger *zap.Logger

	commands chan func()
	done     chan struct{}
	stopOnce sync.Once

	// Fields below are owned by the command loop goroutine.
	loaded       bool
	refreshing   bool
	generation   uint64
	catalogSub   stream.Subscription
	watchPending bool

	mu        sync.RWMutex
	published models.HomeState
	subs      map[int]chan models.HomeState
	nextSubID int
}

// NewHomeEngine wires a home engine. Call Load to start the first fetch.
func NewHomeEngine(repo carRepo.CarRepository) *HomeEngine {
	e := &HomeEngine{
		repo:      repo,
		logger:    utils.GetLogger().Named("home"),
		commands:  make(chan func(), 16),
		done:      make(chan struct{}),
		published: models.HomeState{Phase: models.PhaseLoading},
		subs:      make(map[int]chan models.HomeState),
	}
	go e.run()
	return e
}

func (e *HomeEngine) run() {
	for {
		select {
		case cmd := <-e.commands:
			cmd()
		case <-e.done:
			return
		}
	}
}

func (e *HomeEngine) do(fn func()) {
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
func (e *HomeEngine) Close() {
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
func (e *HomeEngine) State() models.HomeState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.published
}

// Subscribe returns a channel of published snapshots and a cancel function.
func (e *HomeEngine) Subscribe() (<-chan models.HomeState, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSubID
	e.nextSubID++
	ch := make(chan models.HomeState, 1)
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

func (e *HomeEngine) publish(state models.HomeState) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.published = state
	for _, ch := range e.subs {
		select {
		case <-ch:
		default:
		}
		ch <- state
	}
}

// Load starts a combined fetch of the landing sources, superseding any
// in-flight load.
func (e *HomeEngine) Load(ctx context.Context) {
	e.do(func() {
		e.generation++
		gen := e.generation
		if !e.loaded {
			e.publish(models.HomeState{Phase: models.PhaseLoading})
		}
		go e.fetch(ctx, gen)
	})
}

// Refresh refetches all landing sources.
func (e *HomeEngine) Refresh(ctx context.Context) {
	e.do(func() {
		e.generation++
		gen := e.generation
		e.refreshing = true
		go e.fetch(ctx, gen)
	})
}

// fetch gathers the three landing sources concurrently under one bounded
// deadline and applies the combined result on the command loop. Cancellation
// is not inherited from the caller, whose request may end before the result
// lands.
func (e *HomeEngine) fetch(ctx context.Context, gen uint64) {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.SourceTimeout())
	defer cancel()

	var (
		wg         sync.WaitGroup
		categories []models.Category
		cars       []models.Car
		deals      []models.Deal
		catErr     error
		carErr     error
		dealErr    error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		categories, catErr = e.repo.GetCategories(fetchCtx)
	}()
	go func() {
		defer wg.Done()
		cars, carErr = e.repo.GetCars(fetchCtx, int64(config.AppConfig.CatalogPageSize), "")
	}()
	go func() {
		defer wg.Done()
		deals, dealErr = e.repo.GetDeals(fetchCtx)
	}()
	wg.Wait()

	err := catErr
	if err == nil {
		err = carErr
	}
	if err == nil && dealErr != nil {
		// A missing deals rail should not blank the landing screen.
		e.logger.Warn("deals unavailable", zap.Error(dealErr))
		deals = nil
	}

	e.do(func() {
		if gen != e.generation {
			e.logger.Debug("discarding superseded home load", zap.Uint64("generation", gen))
			return
		}
		e.refreshing = false
		if err != nil {
			e.sourceFailed(err)
			return
		}
		e.loaded = true
		e.ensureWatch()
		e.publish(models.HomeState{Phase: models.PhaseSuccess, Data: buildHomeData(categories, cars, deals)})
	})
}

// ensureWatch opens the catalog push stream once, off the command loop, and
// refreshes on every event. Must run on the command loop.
func (e *HomeEngine) ensureWatch() {
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

func (e *HomeEngine) sourceFailed(err error) {
	e.logger.Warn("home sources failed", zap.Error(err))
	if !e.loaded {
		e.publish(models.HomeState{Phase: models.PhaseError, ErrMessage: err.Error()})
		return
	}
	e.mu.RLock()
	last := e.published
	e.mu.RUnlock()
	last.Notice = err.Error()
	e.publish(last)
}

// buildHomeData derives the landing groupings from the catalog page.
func buildHomeData(categories []models.Category, cars []models.Car, deals []models.Deal) *models.HomeData {
	data := &models.HomeData{
		Categories:     categories,
		Deals:          deals,
		CarsByFuelType: make(map[string][]models.Car),
		CarsByYear:     make(map[string][]models.Car),
	}
	for _, car := range cars {
		if car.Recommended {
			data.RecommendedCars = append(data.RecommendedCars, car)
		}
		if car.FuelType != "" {
			data.CarsByFuelType[car.FuelType] = append(data.CarsByFuelType[car.FuelType], car)
		}
		year := strconv.Itoa(car.Year)
		data.CarsByYear[year] = append(data.CarsByYear[year], car)
	}
	return data
}
