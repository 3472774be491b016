package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hamzakhalil/iman-score-engine/internal/adapters/handler/http/middleware"
	"github.com/hamzakhalil/iman-score-engine/internal/core/services"
)

type SyncHandler struct {
	svc *services.SyncService
	log *zap.Logger
}

func NewSyncHandler(svc *services.SyncService, log *zap.Logger) *SyncHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SyncHandler{svc: svc, log: log}
}

func (h *SyncHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/sync", h.Sync)
}

// Sync returns every mirrored snapshot changed after 'since', with a server
// timestamp the client stores as its next sync cursor.
func (h *SyncHandler) Sync(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	sinceStr := c.Query("since")
	var since time.Time

	if sinceStr != "" {
		var err error
		since, err = time.Parse(time.RFC3339, sinceStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format (use RFC3339)"})
			return
		}
	}

	changes, err := h.svc.GetDelta(c.Request.Context(), userID, since)
	if err != nil {
		h.log.Error("sync request failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"changes":   changes,
		"timestamp": time.Now().UTC(),
	})
}
