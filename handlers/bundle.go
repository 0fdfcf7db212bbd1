// File: dutynotify/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Callable endpoints
	DeleteUserAccountHandler gin.HandlerFunc

	// Trigger ingress endpoints
	DutyCreatedHandler          gin.HandlerFunc
	FacultyStatusUpdatedHandler gin.HandlerFunc

	// Operational endpoints
	HealthHandler  gin.HandlerFunc
	MetricsHandler gin.HandlerFunc

	// Middleware
	CallerAuth  gin.HandlerFunc
	TriggerAuth gin.HandlerFunc
	RateLimit   gin.HandlerFunc
}
