package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hamzakhalil/iman-score-engine/internal/adapters/handler/http/middleware"
	"github.com/hamzakhalil/iman-score-engine/internal/core/services"
)

type ScoreHandler struct {
	svc *services.TrackerService
	log *zap.Logger
}

func NewScoreHandler(svc *services.TrackerService, log *zap.Logger) *ScoreHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ScoreHandler{svc: svc, log: log}
}

func (h *ScoreHandler) RegisterRoutes(router *gin.RouterGroup) {
	scores := router.Group("/scores")
	{
		scores.GET("", h.Get)
		scores.POST("/refresh", h.Refresh)
	}
}

// Get returns the settled scoreboard; reading is what settles pending decay.
func (h *ScoreHandler) Get(c *gin.Context) {
	h.serveScoreboard(c)
}

// Refresh forces a recompute; same settle path as Get, kept as an explicit
// POST so clients can trigger it from a pull-to-refresh gesture.
func (h *ScoreHandler) Refresh(c *gin.Context) {
	h.serveScoreboard(c)
}

func (h *ScoreHandler) serveScoreboard(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	board, err := h.svc.Refresh(c.Request.Context(), userID, middleware.GetLocation(c))
	if err != nil {
		h.log.Error("score request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, board)
}
