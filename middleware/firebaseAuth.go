package middleware

import (
	"strings"

	"dutynotify/services/identity"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CallerUIDKey is the gin context key holding the verified caller's user ID.
const CallerUIDKey = "callerUID"

// CallerTokenKey holds the raw bearer token of a verified caller.
const CallerTokenKey = "callerToken"

// FirebaseCallerMiddleware attaches the caller's identity when a valid Firebase
// ID token is presented. It never rejects the request: callable operations
// decide themselves how to treat a missing caller.
func FirebaseCallerMiddleware(verifier identity.Verifier, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			c.Next()
			return
		}

		uid, err := verifier.VerifyToken(c.Request.Context(), tokenString)
		if err != nil {
			logger.Info("ignoring invalid ID token", zap.Error(err))
			c.Next()
			return
		}

		c.Set(CallerUIDKey, uid)
		c.Set(CallerTokenKey, tokenString)
		c.Next()
	}
}
