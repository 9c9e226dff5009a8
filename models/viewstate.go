package models

// Phase is the top-level state of a screen's view model.
type Phase string

const (
	PhaseLoading Phase = "LOADING"
	PhaseSuccess Phase = "SUCCESS"
	PhaseError   Phase = "ERROR"
)

// BrowseData is the fully-recomputed catalog view published on every logical
// change. All slices are rebuilt together; consumers never observe a
// half-stale mix of catalog and derived collections.
type BrowseData struct {
	AllCars                []Car         `json:"allCars"`
	FilteredCars           []Car         `json:"filteredCars"`
	AvailableCategories    []string      `json:"availableCategories"`
	AvailableFuelTypes     []string      `json:"availableFuelTypes"`
	AvailableTransmissions []string      `json:"availableTransmissions"`
	TotalVehicles          int           `json:"totalVehicles"`
	Filters                BrowseFilters `json:"filters"`
	SearchQuery            string        `json:"searchQuery"`
	IsLoadingMore          bool          `json:"isLoadingMore"`
	IsRefreshing           bool          `json:"isRefreshing"`
	FavoriteCarIDs         []string      `json:"favoriteCarIds"`
	ComparisonCars         []Car         `json:"comparisonCars"`
	CanAddComparison       bool          `json:"canAddComparison"`
}

// BrowseState is the tagged union published by the browse engine. Data is
// non-nil only in the Success phase. Notice carries a transient source error
// that arrived after a successful load; the last known good Data is retained.
type BrowseState struct {
	Phase      Phase       `json:"phase"`
	Data       *BrowseData `json:"data,omitempty"`
	ErrMessage string      `json:"error,omitempty"`
	Notice     string      `json:"notice,omitempty"`
}

// BookingsData is the combined bookings view: the raw list plus its
// categorized buckets, the cart, and derived totals, all recomputed together.
type BookingsData struct {
	AllBookings       []Booking     `json:"allBookings"`
	UpcomingBookings  []Booking     `json:"upcomingBookings"`
	ActiveBookings    []Booking     `json:"activeBookings"`
	PastBookings      []Booking     `json:"pastBookings"`
	CancelledBookings []Booking     `json:"cancelledBookings"`
	VisibleBookings   []Booking     `json:"visibleBookings"`
	AvailableCars     []Car         `json:"availableCars"`
	CartItems         []CartItem    `json:"cartItems"`
	CartTotal         float64       `json:"cartTotal"`
	SelectedFilter    BookingFilter `json:"selectedFilter"`
	SearchQuery       string        `json:"searchQuery"`
	TotalSpent        float64       `json:"totalSpent"`
	FavoriteCarIDs    []string      `json:"favoriteCarIds"`
	HasBookings       bool          `json:"hasBookings"`
	IsRefreshing      bool          `json:"isRefreshing"`
	ShowCartMode      bool          `json:"showCartMode"`
}

// BookingsState is the tagged union published by the bookings engine.
type BookingsState struct {
	Phase      Phase         `json:"phase"`
	Data       *BookingsData `json:"data,omitempty"`
	ErrMessage string        `json:"error,omitempty"`
	Notice     string        `json:"notice,omitempty"`
}

// HomeData is the landing view: categories, recommended cars, deals and the
// fuel-type / year groupings derived from the catalog.
type HomeData struct {
	Categories      []Category       `json:"categories"`
	RecommendedCars []Car            `json:"recommendedCars"`
	CarsByFuelType  map[string][]Car `json:"carsByFuelType"`
	CarsByYear      map[string][]Car `json:"carsByYear"`
	Deals           []Deal           `json:"deals"`
}

// HomeState is the tagged union published by the home engine.
type HomeState struct {
	Phase      Phase     `json:"phase"`
	Data       *HomeData `json:"data,omitempty"`
	ErrMessage string    `json:"error,omitempty"`
	Notice     string    `json:"notice,omitempty"`
}
