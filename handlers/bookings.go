package handlers

import (
	"net/http"
	"time"

	"rentalwheels/middleware"
	"rentalwheels/models"
	"rentalwheels/utils"

	"github.com/gin-gonic/gin"
)

// BookingsHandler serves the bookings screen: the categorized list, the cart
// and the booking mutations.
type BookingsHandler struct {
	Sessions *SessionManager
}

// NewBookingsHandler wires a bookings handler over the session manager.
func NewBookingsHandler(sessions *SessionManager) *BookingsHandler {
	return &BookingsHandler{Sessions: sessions}
}

func (h *BookingsHandler) session(c *gin.Context) (*UserSession, bool) {
	userID := c.GetString(middleware.UserIDKey)
	session, err := h.Sessions.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return nil, false
	}
	return session, true
}

// GetState returns the latest published bookings snapshot.
func (h *BookingsHandler) GetState(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Bookings.State())
}

// Refresh refetches bookings and returns the resulting snapshot.
func (h *BookingsHandler) Refresh(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Bookings.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, session.Bookings.State())
}

// SetFilter selects which categorized bucket the visible list shows.
func (h *BookingsHandler) SetFilter(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var input struct {
		Filter models.BookingFilter `json:"filter"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session.Bookings.SetFilter(input.Filter)
	c.JSON(http.StatusOK, session.Bookings.State())
}

// Search sets the bookings search text.
func (h *BookingsHandler) Search(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var input struct {
		Query string `json:"query"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session.Bookings.SetSearchQuery(input.Query)
	c.JSON(http.StatusOK, session.Bookings.State())
}

// SetCartMode switches the screen between the bookings list and the cart.
func (h *BookingsHandler) SetCartMode(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var input struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session.Bookings.SetCartMode(input.Enabled)
	c.JSON(http.StatusOK, session.Bookings.State())
}

// CancelBooking cancels a booking.
func (h *BookingsHandler) CancelBooking(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Bookings.CancelBooking(c.Request.Context(), c.Param("bookingID")); err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.Bookings.State())
}

// ExtendBooking moves a booking's end date. A missing newEndDate defaults
// server-side to twenty-four hours from now.
func (h *BookingsHandler) ExtendBooking(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var input struct {
		NewEndDate time.Time `json:"newEndDate"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := session.Bookings.ExtendBooking(c.Request.Context(), c.Param("bookingID"), input.NewEndDate); err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.Bookings.State())
}

// ModifyBooking replaces a booking's rental window.
func (h *BookingsHandler) ModifyBooking(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var input struct {
		StartDate time.Time `json:"startDate" binding:"required"`
		EndDate   time.Time `json:"endDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := session.Bookings.ModifyBooking(c.Request.Context(), c.Param("bookingID"), input.StartDate, input.EndDate); err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.Bookings.State())
}

// RebookBooking puts a past booking's car back in the cart.
func (h *BookingsHandler) RebookBooking(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Bookings.RebookBooking(c.Request.Context(), c.Param("bookingID")); err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.Bookings.State())
}

// ToggleBookingFavorite flips a booking's favorite membership.
func (h *BookingsHandler) ToggleBookingFavorite(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	bookingID := c.Param("bookingID")
	member, err := session.Bookings.ToggleBookingFavorite(c.Request.Context(), bookingID)
	if err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "favorite": member})
}

// AddToCart merges a car into the cart.
func (h *BookingsHandler) AddToCart(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Bookings.AddToCart(c.Request.Context(), c.Param("carID")); err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session.Bookings.State())
}

// RemoveFromCart drops a car's line from the cart.
func (h *BookingsHandler) RemoveFromCart(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Bookings.RemoveFromCart(c.Param("carID"))
	c.JSON(http.StatusOK, session.Bookings.State())
}

// UpdateCartItem replaces a cart line's rental window, driver option and
// quantity.
func (h *BookingsHandler) UpdateCartItem(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var updated models.CartItem
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session.Bookings.UpdateCartItem(c.Param("carID"), updated)
	c.JSON(http.StatusOK, session.Bookings.State())
}

// ClearCart empties the cart.
func (h *BookingsHandler) ClearCart(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Bookings.ClearCart()
	c.JSON(http.StatusOK, session.Bookings.State())
}

// Checkout submits every cart line as a booking. On partial failure the
// response carries the per-line outcomes with a 207 status; failed lines
// stay in the cart.
func (h *BookingsHandler) Checkout(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	results, err := session.Bookings.ProcessCart(c.Request.Context())
	if err != nil {
		c.JSON(utils.StatusFor(err), gin.H{
			"error":   err.Error(),
			"results": results,
			"state":   session.Bookings.State(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results": results,
		"state":   session.Bookings.State(),
	})
}

// Analytics summarizes the user's booking history.
func (h *BookingsHandler) Analytics(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Bookings.Analytics())
}
