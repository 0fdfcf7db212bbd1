package routes

import (
	"time"

	"dutynotify/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterCallableRoutes registers the client-invoked operations.
func RegisterCallableRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(hb.RateLimit)
		api.Use(hb.CallerAuth)
		api.POST("/deleteUserAccount", hb.DeleteUserAccountHandler)
	}
}

// RegisterTriggerRoutes registers the push ingress for document store events.
func RegisterTriggerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	triggers := r.Group("/internal/triggers")
	{
		triggers.Use(hb.TriggerAuth)
		triggers.POST("/duties/:dutyId", hb.DutyCreatedHandler)
		triggers.POST("/faculty-status/:facultyId", hb.FacultyStatusUpdatedHandler)
	}
}

// RegisterOpsRoutes registers health and metrics endpoints.
func RegisterOpsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", hb.MetricsHandler)
}

// RegisterRoutes configures CORS and registers all routes.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterCallableRoutes(r, hb)
	RegisterTriggerRoutes(r, hb)
	RegisterOpsRoutes(r, hb)
}
