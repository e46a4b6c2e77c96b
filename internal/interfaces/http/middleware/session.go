package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// SessionHeader carries the anonymous browsing session identifier. The
// frontend generates it once and sends it with every cart request
const SessionHeader = "X-Session-ID"

// SessionKey is the gin context key for the session ID
const SessionKey = "session_id"

// RequireSession rejects requests without a session header. Cart state is
// keyed by session, so there is nothing to operate on without one
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeInvalidSession,
				"Missing "+SessionHeader+" header",
			))
			return
		}
		c.Set(SessionKey, sessionID)
		c.Next()
	}
}

// GetSession returns the session ID set by RequireSession
func GetSession(c *gin.Context) string {
	return c.GetString(SessionKey)
}
