package handlers

import (
	"net/http"

	"rentalwheels/middleware"
	"rentalwheels/models"
	"rentalwheels/utils"

	"github.com/gin-gonic/gin"
)

// BrowseHandler serves the catalog browsing screen.
type BrowseHandler struct {
	Sessions *SessionManager
}

// NewBrowseHandler wires a browse handler over the session manager.
func NewBrowseHandler(sessions *SessionManager) *BrowseHandler {
	return &BrowseHandler{Sessions: sessions}
}

func (h *BrowseHandler) session(c *gin.Context) (*UserSession, bool) {
	userID := c.GetString(middleware.UserIDKey)
	session, err := h.Sessions.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return nil, false
	}
	return session, true
}

// GetState returns the latest published browse snapshot.
func (h *BrowseHandler) GetState(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, session.Browse.State())
}

// Refresh refetches the catalog and returns the resulting snapshot.
func (h *BrowseHandler) Refresh(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Browse.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, session.Browse.State())
}

// LoadMore appends the next catalog page.
func (h *BrowseHandler) LoadMore(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Browse.LoadMore(c.Request.Context())
	c.JSON(http.StatusOK, session.Browse.State())
}

// Search sets the free-text query.
func (h *BrowseHandler) Search(c *gin.Context) {
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
	session.Browse.SetSearchQuery(c.Request.Context(), input.Query)
	c.JSON(http.StatusOK, session.Browse.State())
}

// SetFilters replaces the filter selection.
func (h *BrowseHandler) SetFilters(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	var filters models.BrowseFilters
	if err := c.ShouldBindJSON(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	session.Browse.SetFilters(c.Request.Context(), filters)
	c.JSON(http.StatusOK, session.Browse.State())
}

// ClearFilters resets filters to defaults.
func (h *BrowseHandler) ClearFilters(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Browse.ClearFilters(c.Request.Context())
	c.JSON(http.StatusOK, session.Browse.State())
}

// ToggleFavorite flips a car's favorite membership.
func (h *BrowseHandler) ToggleFavorite(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	carID := c.Param("carID")
	member, err := session.Browse.ToggleFavorite(c.Request.Context(), carID)
	if err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"carId": carID, "favorite": member})
}

// ToggleComparison flips a car's comparison membership. Adding past capacity
// is a no-op reported in the response.
func (h *BrowseHandler) ToggleComparison(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	carID := c.Param("carID")
	session.Browse.ToggleComparison(carID)
	c.JSON(http.StatusOK, gin.H{
		"carId":      carID,
		"comparing":  session.Comparison.Contains(carID),
		"canAddMore": session.Comparison.CanAddMore(),
	})
}

// RemoveComparison drops a car from the comparison set.
func (h *BrowseHandler) RemoveComparison(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Browse.RemoveComparison(c.Param("carID"))
	c.JSON(http.StatusOK, session.Browse.State())
}

// ClearComparison empties the comparison set.
func (h *BrowseHandler) ClearComparison(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	session.Browse.ClearComparison()
	c.JSON(http.StatusOK, session.Browse.State())
}

// SearchHistory returns the user's most-recent-first search history.
func (h *BrowseHandler) SearchHistory(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	history, err := session.Store.SearchHistory(c.Request.Context())
	if err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history})
}

// ClearSearchHistory empties the user's search history.
func (h *BrowseHandler) ClearSearchHistory(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	if err := session.Store.ClearSearchHistory(c.Request.Context()); err != nil {
		c.JSON(utils.StatusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
