package routes

import (
	"time"

	"rentalwheels/handlers"
	"rentalwheels/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBrowseRoutes registers the catalog browsing endpoints.
func RegisterBrowseRoutes(r *gin.Engine, h *handlers.BrowseHandler) {
	api := r.Group("/api/browse")
	{
		api.Use(middleware.RequireUserID())
		api.GET("/state", h.GetState)
		api.POST("/refresh", h.Refresh)
		api.POST("/load-more", h.LoadMore)
		api.POST("/search", h.Search)
		api.PUT("/filters", h.SetFilters)
		api.DELETE("/filters", h.ClearFilters)
		api.POST("/favorites/:carID/toggle", h.ToggleFavorite)
		api.POST("/comparison/:carID/toggle", h.ToggleComparison)
		api.DELETE("/comparison/:carID", h.RemoveComparison)
		api.DELETE("/comparison", h.ClearComparison)
		api.GET("/search-history", h.SearchHistory)
		api.DELETE("/search-history", h.ClearSearchHistory)
	}
}

// RegisterBookingsRoutes registers the bookings and cart endpoints.
func RegisterBookingsRoutes(r *gin.Engine, h *handlers.BookingsHandler) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.RequireUserID())
		api.GET("/state", h.GetState)
		api.POST("/refresh", h.Refresh)
		api.PUT("/filter", h.SetFilter)
		api.POST("/search", h.Search)
		api.PUT("/cart-mode", h.SetCartMode)
		api.GET("/analytics", h.Analytics)

		api.POST("/:bookingID/cancel", h.CancelBooking)
		api.POST("/:bookingID/extend", h.ExtendBooking)
		api.POST("/:bookingID/modify", h.ModifyBooking)
		api.POST("/:bookingID/rebook", h.RebookBooking)
		api.POST("/:bookingID/favorite", h.ToggleBookingFavorite)
	}

	cart := r.Group("/api/cart")
	{
		cart.Use(middleware.RequireUserID())
		cart.POST("/items/:carID", h.AddToCart)
		cart.PUT("/items/:carID", h.UpdateCartItem)
		cart.DELETE("/items/:carID", h.RemoveFromCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/checkout", h.Checkout)
	}
}

// RegisterHomeRoutes registers the landing screen endpoints.
func RegisterHomeRoutes(r *gin.Engine, h *handlers.HomeHandler) {
	api := r.Group("/api/home")
	{
		api.GET("/state", h.GetState)
		api.POST("/refresh", h.Refresh)
	}
}

// RegisterPreferencesRoutes registers the preference and insights endpoints.
func RegisterPreferencesRoutes(r *gin.Engine, h *handlers.PreferencesHandler) {
	api := r.Group("/api/preferences")
	{
		api.Use(middleware.RequireUserID())
		api.GET("/booking", h.GetBookingPreferences)
		api.PUT("/booking", h.SetBookingPreferences)
		api.GET("/actions", h.GetUserActions)
		api.DELETE("", h.ClearAll)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// SetupCORS configures cross-origin access for the mobile and web clients.
func SetupCORS(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-User-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
}
