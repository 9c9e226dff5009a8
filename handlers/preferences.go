package handlers

import (
	"net/http"

	"rentalwheels/middleware"
	"rentalwheels/models"
	"rentalwheels/utils"

	"github.com/gin-gonic/gin"
)

// PreferencesHandler serves the user's persisted preferences and the tracked
// action log.
type PreferencesHandler struct {
	Sessions *SessionManager
}

// NewPreferencesHandler wires a preferences handler over the session manager.
func NewPreferencesHandler(sessions *SessionManager) *PreferencesHandler {
	return &PreferencesHandler{Sessions: sessions}
}

func (h *PreferencesHandler) session(c *gin.Context) (*UserSession, bool) {
	userID := c.GetString(middleware.UserIDKey)
	session, err := h.Sessions.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return nil, false
	}
	return session, true
}

// GetBookingPreferences returns the user's default booking choices.
func (h *PreferencesHandler) GetBookingPreferences(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	prefs, err := session.Store.BookingPreferences(c.Request.Context())
	if err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// SetBookingPreferences replaces the user's default booking choices.
func (h *PreferencesHandler) SetBookingPreferences(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var prefs models.BookingPreferences
	if err := c.ShouldBindJSON(&prefs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := session.Store.SetBookingPreferences(c.Request.Context(), prefs); err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// GetUserActions returns the bounded most-recent-first action log.
func (h *PreferencesHandler) GetUserActions(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	actions, err := session.Store.UserActions(c.Request.Context())
	if err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"actions": actions})
}

// ClearAll wipes every persisted preference for the user.
func (h *PreferencesHandler) ClearAll(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Store.ClearAll(c.Request.Context()); err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
