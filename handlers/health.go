package handlers

import (
	"net/http"

	"dutynotify/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest backing-service health snapshot.
func HealthHandler(monitor *utils.HealthMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := monitor.Status()
		code := http.StatusOK
		if !status.Healthy() {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "message": "Hi, I'm dutynotify"})
	}
}
