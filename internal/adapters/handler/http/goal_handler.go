package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hamzakhalil/iman-score-engine/internal/adapters/handler/http/middleware"
	"github.com/hamzakhalil/iman-score-engine/internal/core/domain"
	"github.com/hamzakhalil/iman-score-engine/internal/core/services"
)

type GoalHandler struct {
	svc *services.TrackerService
	log *zap.Logger
}

func NewGoalHandler(svc *services.TrackerService, log *zap.Logger) *GoalHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &GoalHandler{svc: svc, log: log}
}

type updateGoalRequest struct {
	Value int `json:"value"`
}

func (h *GoalHandler) RegisterRoutes(router *gin.RouterGroup) {
	goals := router.Group("/goals")
	{
		goals.GET("", h.List)
		goals.PUT("/:section/:key", h.Update)
	}
}

// List returns the user's goal sets with the daily/weekly rollover applied.
func (h *GoalHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	sets, err := h.svc.GoalSets(c.Request.Context(), userID, middleware.GetLocation(c))
	if err != nil {
		h.handleError(c, err)
		return
	}

	if section := c.Query("section"); section != "" {
		parsed, err := domain.ParseSection(section)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown section"})
			return
		}

		filtered := make([]*domain.GoalSet, 0, len(sets))
		for _, set := range sets {
			if set.Section == parsed {
				filtered = append(filtered, set)
			}
		}
		sets = filtered
	}

	c.JSON(http.StatusOK, gin.H{"goal_sets": sets})
}

// Update merges one goal value; booleans use 0/1.
func (h *GoalHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	section, err := domain.ParseSection(c.Param("section"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown section"})
		return
	}

	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	input := services.UpdateGoalInput{
		UserID:   userID,
		Section:  section,
		Key:      c.Param("key"),
		Value:    req.Value,
		Location: middleware.GetLocation(c),
	}

	set, err := h.svc.UpdateGoal(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, set)
}

func (h *GoalHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownGoal) || errors.Is(err, domain.ErrUnknownSection):
		c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})

	case errors.Is(err, domain.ErrInvalidUserID):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})

	default:
		h.log.Error("goal request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
