package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dutynotify/handlers"
	"dutynotify/middleware"
	"dutynotify/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var secret = []byte("trigger-secret")

func okHandler(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"handler": name, "source": c.GetString(middleware.TriggerSourceKey)})
	}
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	hb := &handlers.HandlerBundle{
		DeleteUserAccountHandler:    okHandler("delete"),
		DutyCreatedHandler:          okHandler("duty"),
		FacultyStatusUpdatedHandler: okHandler("status"),
		HealthHandler:               okHandler("health"),
		MetricsHandler:              okHandler("metrics"),
		CallerAuth:                  func(c *gin.Context) { c.Next() },
		TriggerAuth:                 middleware.TriggerAuthMiddleware(secret, zap.NewNop()),
		RateLimit:                   func(c *gin.Context) { c.Next() },
	}
	r := gin.New()
	RegisterRoutes(r, hb)
	return r
}

func TestTriggerRoutesRequireServiceToken(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/internal/triggers/duties/d1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateTriggerToken(secret, "firestore-forwarder", time.Minute)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodPost, "/internal/triggers/faculty-status/f1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"firestore-forwarder"`)
}

func TestPublicRoutesRegistered(t *testing.T) {
	r := setupRouter()

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodPost, "/api/deleteUserAccount", "delete"},
		{http.MethodGet, "/health", "health"},
		{http.MethodGet, "/metrics", "metrics"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, tt.path)
		assert.Contains(t, w.Body.String(), tt.want, tt.path)
	}
}
