package handlers

import (
	"net/http"

	"rentalwheels/services/viewstate"

	"github.com/gin-gonic/gin"
)

// HomeHandler serves the landing screen. The home engine is shared: the
// catalog, categories and deals are the same for every user.
type HomeHandler struct {
	Engine *viewstate.HomeEngine
}

// NewHomeHandler wires a home handler over the shared engine.
func NewHomeHandler(engine *viewstate.HomeEngine) *HomeHandler {
	return &HomeHandler{Engine: engine}
}

// GetState returns the latest published landing snapshot.
func (h *HomeHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.Engine.State())
}

// Refresh refetches the landing sources and returns the resulting snapshot.
func (h *HomeHandler) Refresh(c *gin.Context) {
	h.Engine.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, h.Engine.State())
}
