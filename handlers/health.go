package handlers

import (
	"net/http"

	"rentalwheels/utils"

	"github.com/gin-gonic/gin"
)

// Health reports backend connectivity as seen by the health monitor.
func Health(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Mongo {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":  statusWord(status.Mongo),
		"mongo":   status.Mongo,
		"redis":   status.Redis,
		"checked": status.CheckedAt,
	})
}

func statusWord(ok bool) string {
	if ok {
		return "ok"
	}
	return "degraded"
}
