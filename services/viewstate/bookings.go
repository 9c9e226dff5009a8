package viewstate

import (
	"context"
	"sync"
	"time"

	"rentalwheels/config"
	bookingRepo "rentalwheels/database/repository/booking"
	carRepo "rentalwheels/database/repository/car"
	"rentalwheels/database/repository/stream"
	"rentalwheels/models"
	"rentalwheels/preferences"
	"rentalwheels/services/bookings"
	"rentalwheels/services/cart"
	"rentalwheels/utils"

	"go.uber.org/zap"
)

const recommendedCarsLimit = 8

// BookingsEngine combines the user's bookings with the cart and the
// available-cars shelf into the bookings screen's view state.
type BookingsEngine struct {
	userID   string
	bookings bookingRepo.BookingRepository
	cars     carRepo.CarRepository
	prefs    preferences.Store
	logger   *zap.Logger

	commands chan func()
	done     chan struct{}
	stopOnce sync.Once

	// Fields below are owned by the command loop goroutine.
	allBookings   []models.Booking
	availableCars []models.Car
	cartItems     []models.CartItem
	filter        models.BookingFilter
	query         string
	cartMode      bool
	refreshing    bool
	loaded        bool
	generation    uint64
	bookingsSub   stream.Subscription
	watchPending  bool

	mu        sync.RWMutex
	published models.BookingsState
	subs      map[int]chan models.BookingsState
	nextSubID int
}

// NewBookingsEngine wires a bookings engine for one user. Call Load to start
// the first fetch.
func NewBookingsEngine(userID string, bookingRepository bookingRepo.BookingRepository, carRepository carRepo.CarRepository, prefs preferences.Store) *BookingsEngine {
	e := &BookingsEngine{
		userID:    userID,
		bookings:  bookingRepository,
		cars:      carRepository,
		prefs:     prefs,
		logger:    utils.GetLogger().Named("bookings"),
		commands:  make(chan func(), 16),
		done:      make(chan struct{}),
		filter:    models.FilterAll,
		published: models.BookingsState{Phase: models.PhaseLoading},
		subs:      make(map[int]chan models.BookingsState),
	}
	go e.run()
	return e
}

func (e *BookingsEngine) run() {
	for {
		select {
		case cmd := <-e.commands:
			cmd()
		case <-e.done:
			return
		}
	}
}

func (e *BookingsEngine) do(fn func()) {
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

// Close tears the engine down and cancels the bookings subscription.
func (e *BookingsEngine) Close() {
	e.do(func() {
		if e.bookingsSub != nil {
			e.bookingsSub.Cancel()
			e.bookingsSub = nil
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
func (e *BookingsEngine) State() models.BookingsState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.published
}

// Subscribe returns a channel of published snapshots and a cancel function.
func (e *BookingsEngine) Subscribe() (<-chan models.BookingsState, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextSubID
	e.nextSubID++
	ch := make(chan models.BookingsState, 1)
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

func (e *BookingsEngine) publish(state models.BookingsState) {
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

// Load starts the initial fetch of bookings and the available-cars shelf,
// superseding any in-flight load.
func (e *BookingsEngine) Load(ctx context.Context) {
	e.do(func() {
		e.generation++
		gen := e.generation
		if !e.loaded {
			e.publish(models.BookingsState{Phase: models.PhaseLoading})
		}
		go e.fetch(ctx, gen)
	})
}

// Refresh refetches while keeping filter, search and cart state.
func (e *BookingsEngine) Refresh(ctx context.Context) {
	e.do(func() {
		e.generation++
		gen := e.generation
		e.refreshing = true
		if e.loaded {
			e.publishSnapshot("")
		}
		go e.fetch(ctx, gen)
	})
}

// fetch runs off the command loop. The bookings list is the primary source;
// the available-cars shelf is best-effort and an empty shelf is not an error.
// Cancellation is not inherited from the caller: the request that triggered
// the refetch may end before the result lands, and only the source timeout
// bounds the fetch.
func (e *BookingsEngine) fetch(ctx context.Context, gen uint64) {
	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.SourceTimeout())
	defer cancel()

	all, err := e.bookings.GetUserBookings(fetchCtx, e.userID)
	var shelf []models.Car
	if err == nil {
		shelf, err = e.cars.GetRecommendedCars(fetchCtx, recommendedCarsLimit)
		if err != nil {
			e.logger.Warn("available cars shelf unavailable", zap.Error(err))
			shelf, err = nil, nil
		}
	}

	e.do(func() {
		if gen != e.generation {
			e.logger.Debug("discarding superseded bookings load", zap.Uint64("generation", gen))
			return
		}
		e.refreshing = false
		if err != nil {
			e.sourceFailed(err)
			return
		}
		e.allBookings = all
		e.availableCars = shelf
		e.loaded = true
		e.ensureWatch()
		e.publishSnapshot("")
	})
}

// ensureWatch opens the per-user push stream once and refetches on every
// event, so backend-side changes reach the view without a manual refresh.
// Opening the stream is a network call, so it happens off the command loop;
// the subscription is handed back to the loop once established. Must run on
// the command loop.
func (e *BookingsEngine) ensureWatch() {
	if e.bookingsSub != nil || e.watchPending {
		return
	}
	e.watchPending = true

	go func() {
		sub, err := e.bookings.Watch(context.Background(), e.userID)
		if err != nil {
			e.logger.Warn("bookings watch unavailable, falling back to manual refresh", zap.Error(err))
			e.do(func() { e.watchPending = false })
			return
		}
		adopted := false
		e.do(func() {
			e.watchPending = false
			if e.bookingsSub == nil {
				e.bookingsSub = sub
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
			e.logger.Warn("bookings watch ended", zap.Error(err))
		}
	}()
}

// SetFilter selects which categorized bucket the visible list shows.
func (e *BookingsEngine) SetFilter(filter models.BookingFilter) {
	e.do(func() {
		e.filter = filter
		e.publishSnapshot("")
	})
}

// SetSearchQuery replaces the bookings search text.
func (e *BookingsEngine) SetSearchQuery(query string) {
	e.do(func() {
		e.query = query
		e.publishSnapshot("")
	})
}

// SetCartMode switches the screen between the bookings list and the cart.
func (e *BookingsEngine) SetCartMode(on bool) {
	e.do(func() {
		e.cartMode = on
		e.publishSnapshot("")
	})
}

// CancelBooking cancels the booking and refetches on success. The repo error
// is reported to the caller; derived state is untouched on failure.
func (e *BookingsEngine) CancelBooking(ctx context.Context, bookingID string) error {
	opCtx, cancel := context.WithTimeout(ctx, config.SourceTimeout())
	defer cancel()
	if err := e.bookings.Cancel(opCtx, bookingID); err != nil {
		return err
	}
	e.Refresh(ctx)
	return nil
}

// ExtendBooking moves the booking's end date and refetches on success.
func (e *BookingsEngine) ExtendBooking(ctx context.Context, bookingID string, newEnd time.Time) error {
	opCtx, cancel := context.WithTimeout(ctx, config.SourceTimeout())
	defer cancel()
	if err := e.bookings.Extend(opCtx, bookingID, newEnd); err != nil {
		return err
	}
	e.Refresh(ctx)
	return nil
}

// ModifyBooking replaces the booking's rental window and refetches on success.
func (e *BookingsEngine) ModifyBooking(ctx context.Context, bookingID string, start, end time.Time) error {
	opCtx, cancel := context.WithTimeout(ctx, config.SourceTimeout())
	defer cancel()
	if err := e.bookings.Modify(opCtx, bookingID, start, end); err != nil {
		return err
	}
	e.Refresh(ctx)
	return nil
}

// RebookBooking puts a past booking's car back in the cart with a fresh
// default rental window.
func (e *BookingsEngine) RebookBooking(ctx context.Context, bookingID string) error {
	var car *models.Car
	e.do(func() {
		for i := range e.allBookings {
			if e.allBookings[i].ID == bookingID && e.allBookings[i].Car.ID != "" {
				c := e.allBookings[i].Car
				car = &c
				return
			}
		}
	})
	if car == nil {
		booking, err := e.bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking.Car.ID != "" {
			c := booking.Car
			car = &c
		} else {
			fetched, err := e.cars.GetCarByID(ctx, booking.CarID)
			if err != nil {
				return err
			}
			car = fetched
		}
	}

	e.do(func() {
		e.cartItems = cart.Add(e.cartItems, *car, time.Now())
		e.cartMode = true
		e.publishSnapshot("")
	})
	e.trackAction(ctx, "rebook", map[string]string{"bookingId": bookingID})
	return nil
}

// AddToCart merges the car into the cart, bumping quantity when a line for
// it already exists.
func (e *BookingsEngine) AddToCart(ctx context.Context, carID string) error {
	opCtx, cancel := context.WithTimeout(ctx, config.SourceTimeout())
	defer cancel()
	car, err := e.cars.GetCarByID(opCtx, carID)
	if err != nil {
		return err
	}
	e.do(func() {
		e.cartItems = cart.Add(e.cartItems, *car, time.Now())
		e.publishSnapshot("")
	})
	e.trackAction(ctx, "add_to_cart", map[string]string{"carId": carID})
	return nil
}

// RemoveFromCart drops the car's line from the cart.
func (e *BookingsEngine) RemoveFromCart(carID string) {
	e.do(func() {
		e.cartItems = cart.Remove(e.cartItems, carID)
		e.publishSnapshot("")
	})
}

// UpdateCartItem replaces a cart line's rental window, driver option and
// quantity. The line keeps its car identity.
func (e *BookingsEngine) UpdateCartItem(carID string, updated models.CartItem) {
	e.do(func() {
		e.cartItems = cart.UpdateItem(e.cartItems, carID, updated)
		e.publishSnapshot("")
	})
}

// ClearCart empties the cart.
func (e *BookingsEngine) ClearCart() {
	e.do(func() {
		e.cartItems = nil
		e.publishSnapshot("")
	})
}

// ProcessCart submits every cart line as a booking. Lines that succeed are
// removed; lines that fail stay in the cart with their per-line outcome
// reported, so the user retries only what did not go through.
func (e *BookingsEngine) ProcessCart(ctx context.Context) ([]utils.SubmissionResult, error) {
	var items []models.CartItem
	var pickup string
	e.do(func() {
		items = append([]models.CartItem(nil), e.cartItems...)
	})
	if len(items) == 0 {
		return nil, nil
	}
	prefs, err := e.prefs.BookingPreferences(ctx)
	if err == nil {
		pickup = prefs.PreferredPickupLocation
	}

	opCtx, cancel := context.WithTimeout(ctx, config.SourceTimeout())
	defer cancel()
	remaining, results, err := cart.Process(opCtx, e.bookings, items, e.userID, pickup)

	e.do(func() {
		e.cartItems = remaining
		if len(remaining) == 0 {
			e.cartMode = false
		}
		e.publishSnapshot("")
	})
	e.Refresh(ctx)
	return results, err
}

// ToggleBookingFavorite flips a booking's favorite membership in the
// preference store and reports the new state.
func (e *BookingsEngine) ToggleBookingFavorite(ctx context.Context, bookingID string) (bool, error) {
	ids, err := e.prefs.FavoriteBookingIDs(ctx)
	if err != nil {
		return false, err
	}
	member := false
	next := ids[:0]
	for _, id := range ids {
		if id == bookingID {
			member = true
			continue
		}
		next = append(next, id)
	}
	if !member {
		next = append(next, bookingID)
	}
	if err := e.prefs.SetFavoriteBookingIDs(ctx, next); err != nil {
		return member, err
	}
	return !member, nil
}

// Analytics summarizes the user's booking history from the current snapshot.
func (e *BookingsEngine) Analytics() models.BookingAnalytics {
	var all, completed []models.Booking
	e.do(func() {
		all = append([]models.Booking(nil), e.allBookings...)
		completed = bookings.Categorize(e.allBookings, time.Now()).Past
	})
	return bookings.Analytics(all, completed)
}

func (e *BookingsEngine) trackAction(ctx context.Context, name string, metadata map[string]string) {
	if err := e.prefs.TrackUserAction(ctx, name, metadata); err != nil {
		e.logger.Warn("failed to track user action", zap.String("action", name), zap.Error(err))
	}
}

func (e *BookingsEngine) sourceFailed(err error) {
	e.logger.Warn("bookings source failed", zap.Error(err))
	if !e.loaded {
		e.publish(models.BookingsState{Phase: models.PhaseError, ErrMessage: err.Error()})
		return
	}
	e.publishSnapshot(err.Error())
}

// publishSnapshot recomputes the categorized buckets, the visible list and
// the cart totals together and publishes one consistent snapshot. Must run
// on the command loop.
func (e *BookingsEngine) publishSnapshot(notice string) {
	if !e.loaded {
		return
	}

	cat := bookings.Categorize(e.allBookings, time.Now())
	visible := bookings.Search(cat.Select(e.allBookings, e.filter), e.query)

	data := &models.BookingsData{
		AllBookings:       append([]models.Booking(nil), e.allBookings...),
		UpcomingBookings:  cat.Upcoming,
		ActiveBookings:    cat.Active,
		PastBookings:      cat.Past,
		CancelledBookings: cat.Cancelled,
		VisibleBookings:   visible,
		AvailableCars:     append([]models.Car(nil), e.availableCars...),
		CartItems:         append([]models.CartItem(nil), e.cartItems...),
		CartTotal:         cart.Total(e.cartItems),
		SelectedFilter:    e.filter,
		SearchQuery:       e.query,
		TotalSpent:        cat.TotalSpent,
		FavoriteCarIDs:    cat.FavoriteCarIDs,
		HasBookings:       len(e.allBookings) > 0,
		IsRefreshing:      e.refreshing,
		ShowCartMode:      e.cartMode,
	}

	e.publish(models.BookingsState{Phase: models.PhaseSuccess, Data: data, Notice: notice})
}
