package viewstate

import (
	"context"
	"sync"
	"time"

	"rentalwheels/database/repository/stream"
	"rentalwheels/models"
	"rentalwheels/utils"

	"github.com/google/uuid"
)

// fakeSub is an in-test push stream fed by emit.
type fakeSub struct {
	events chan stream.Event
	once   sync.Once
}

func newFakeSub() *fakeSub {
	return &fakeSub{events: make(chan stream.Event, 4)}
}

func (s *fakeSub) Events() <-chan stream.Event { return s.events }
func (s *fakeSub) Err() error                  { return nil }
func (s *fakeSub) Cancel()                     { s.once.Do(func() { close(s.events) }) }

func (s *fakeSub) emit(e stream.Event) { s.events <- e }

// fakeCarRepo serves catalog data from memory. gate, when set for a call
// number, delays that GetCars call until the gate is closed.
type fakeCarRepo struct {
	mu         sync.Mutex
	cars       []models.Car
	categories []models.Category
	deals      []models.Deal
	carsErr    error
	dealsErr   error
	sub        *fakeSub

	calls     int
	gate      chan struct{}
	gateCall  int
	watchGate chan struct{}
}

func (r *fakeCarRepo) setCars(cars []models.Car) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cars = cars
}

func (r *fakeCarRepo) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carsErr = err
}

// gateCallN makes GetCars call number n (1-based) block until the returned
// function is invoked.
func (r *fakeCarRepo) gateCallN(n int) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gate = make(chan struct{})
	r.gateCall = n
	gate := r.gate
	return func() { close(gate) }
}

// gateWatch makes Watch block until the returned function is invoked.
func (r *fakeCarRepo) gateWatch() func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchGate = make(chan struct{})
	gate := r.watchGate
	return func() { close(gate) }
}

func (r *fakeCarRepo) GetCars(ctx context.Context, limit int64, lastID string) ([]models.Car, error) {
	r.mu.Lock()
	r.calls++
	call := r.calls
	gate := r.gate
	gated := gate != nil && call == r.gateCall
	cars := append([]models.Car(nil), r.cars...)
	err := r.carsErr
	r.mu.Unlock()

	if gated {
		<-gate
		// Re-read after the gate so the test can change data underneath.
		r.mu.Lock()
		cars = append([]models.Car(nil), r.cars...)
		err = r.carsErr
		r.mu.Unlock()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}

	start := 0
	if lastID != "" {
		for i, c := range cars {
			if c.ID == lastID {
				start = i + 1
				break
			}
		}
	}
	end := start + int(limit)
	if end > len(cars) {
		end = len(cars)
	}
	if start > len(cars) {
		start = len(cars)
	}
	return cars[start:end], nil
}

func (r *fakeCarRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Category(nil), r.categories...), nil
}

func (r *fakeCarRepo) GetDeals(ctx context.Context) ([]models.Deal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.dealsErr != nil {
		return nil, r.dealsErr
	}
	return append([]models.Deal(nil), r.deals...), nil
}

func (r *fakeCarRepo) GetRecommendedCars(ctx context.Context, limit int64) ([]models.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Car
	for _, c := range r.cars {
		if c.Recommended && int64(len(out)) < limit {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCarRepo) GetCarByID(ctx context.Context, id string) (*models.Car, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.cars {
		if c.ID == id {
			car := c
			return &car, nil
		}
	}
	return nil, &utils.NotFoundError{Kind: "car", ID: id}
}

func (r *fakeCarRepo) Watch(ctx context.Context) (stream.Subscription, error) {
	r.mu.Lock()
	gate := r.watchGate
	r.mu.Unlock()
	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sub == nil {
		return nil, &utils.SourceUnavailableError{Source: "cars"}
	}
	return r.sub, nil
}

// fakeBookingRepo serves and mutates bookings in memory.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []models.Booking
	listErr  error
	failCars map[string]error
	sub      *fakeSub
}

func (r *fakeBookingRepo) setBookings(bs []models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = bs
}

func (r *fakeBookingRepo) setErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listErr = err
}

func (r *fakeBookingRepo) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.ID == id {
			booking := b
			return &booking, nil
		}
	}
	return nil, &utils.NotFoundError{Kind: "booking", ID: id}
}

func (r *fakeBookingRepo) Create(ctx context.Context, booking *models.Booking) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err, ok := r.failCars[booking.CarID]; ok {
		return "", err
	}
	booking.ID = uuid.New().String()
	booking.CreatedAt = time.Now()
	r.bookings = append(r.bookings, *booking)
	return booking.ID, nil
}

func (r *fakeBookingRepo) Cancel(ctx context.Context, id string) error {
	return r.setStatus(id, models.BookingCancelled)
}

func (r *fakeBookingRepo) Extend(ctx context.Context, id string, newEnd time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			if newEnd.IsZero() {
				newEnd = time.Now().Add(24 * time.Hour)
			}
			r.bookings[i].EndDate = newEnd
			return nil
		}
	}
	return &utils.NotFoundError{Kind: "booking", ID: id}
}

func (r *fakeBookingRepo) Modify(ctx context.Context, id string, start, end time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			r.bookings[i].StartDate = start
			r.bookings[i].EndDate = end
			r.bookings[i].Status = models.BookingModified
			return nil
		}
	}
	return &utils.NotFoundError{Kind: "booking", ID: id}
}

func (r *fakeBookingRepo) setStatus(id string, status models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.bookings {
		if r.bookings[i].ID == id {
			r.bookings[i].Status = status
			return nil
		}
	}
	return &utils.NotFoundError{Kind: "booking", ID: id}
}

func (r *fakeBookingRepo) Watch(ctx context.Context, userID string) (stream.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sub == nil {
		return nil, &utils.SourceUnavailableError{Source: "bookings"}
	}
	return r.sub, nil
}
