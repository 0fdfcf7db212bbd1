package middleware

import (
	"net/http"
	"strings"

	"dutynotify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TriggerSourceKey is the gin context key holding the authenticated trigger source.
const TriggerSourceKey = "triggerSource"

// TriggerAuthMiddleware requires an HS256 service token signed with secret.
func TriggerAuthMiddleware(secret []byte, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}

		source, err := utils.ValidateTriggerToken(secret, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			logger.Warn("rejected trigger delivery", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(TriggerSourceKey, source)
		c.Next()
	}
}
