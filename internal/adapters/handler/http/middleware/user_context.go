package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	userIDHeader   = "X-User-ID"
	timezoneHeader = "X-Timezone"

	ContextUserIDKey   = "userID"
	ContextLocationKey = "location"
)

// RequireUser extracts the client-asserted user id and timezone into the
// request context. Identity is a plain header: the engine scores a single
// user's private data and delegates authentication to the surrounding
// platform. An unparseable timezone falls back to the configured default.
func RequireUser(defaultLoc *time.Location) gin.HandlerFunc {
	if defaultLoc == nil {
		defaultLoc = time.UTC
	}

	return func(c *gin.Context) {
		userID := c.GetHeader(userIDHeader)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id header"})
			c.Abort()
			return
		}

		loc := defaultLoc
		if tz := c.GetHeader(timezoneHeader); tz != "" {
			if parsed, err := time.LoadLocation(tz); err == nil {
				loc = parsed
			}
		}

		c.Set(ContextUserIDKey, userID)
		c.Set(ContextLocationKey, loc)

		c.Next()
	}
}

func GetUserID(c *gin.Context) (string, bool) {
	id, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := id.(string)
	return idStr, ok
}

func GetLocation(c *gin.Context) *time.Location {
	loc, exists := c.Get(ContextLocationKey)
	if !exists {
		return time.UTC
	}
	l, ok := loc.(*time.Location)
	if !ok {
		return time.UTC
	}
	return l
}
