package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/p2e-inferno/rewards-service/internal/service"
	"github.com/p2e-inferno/rewards-service/pkg/logger"
	"go.uber.org/zap"
)

// CheckinHandler handles daily check-in API requests
type CheckinHandler struct {
	service *service.CheckinService
}

// NewCheckinHandler creates a new check-in handler
func NewCheckinHandler(service *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{
		service: service,
	}
}

// CheckinRequest represents a daily check-in submission
type CheckinRequest struct {
	UserID        string `json:"user_id" binding:"required"`
	WalletAddress string `json:"wallet_address"`
}

// AddContextRequest registers a named XP multiplier
type AddContextRequest struct {
	Name       string  `json:"name" binding:"required"`
	Multiplier float64 `json:"multiplier" binding:"required"`
}

// PerformCheckin records a daily check-in and returns the XP awarded. A
// repeat check-in on the same day returns 200 with success=false.
func (h *CheckinHandler) PerformCheckin(c *gin.Context) {
	var req CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
		})
		return
	}

	result, err := h.service.PerformCheckin(c.Request.Context(), req.UserID, req.WalletAddress)
	if err != nil {
		logger.Error("Failed to perform check-in", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to perform check-in",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetStreak retrieves a user's current streak
func (h *CheckinHandler) GetStreak(c *gin.Context) {
	userID := c.Param("userId")

	status, err := h.service.GetStreak(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to get streak", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to retrieve streak",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, status)
}

// PreviewNextCheckin shows what the next check-in would award
func (h *CheckinHandler) PreviewNextCheckin(c *gin.Context) {
	userID := c.Param("userId")

	preview, err := h.service.PreviewNextCheckin(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to preview check-in", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to preview check-in",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, preview)
}

// GetCheckinHistory retrieves a user's recent check-ins
func (h *CheckinHandler) GetCheckinHistory(c *gin.Context) {
	userID := c.Param("userId")
	limitStr := c.DefaultQuery("limit", "30")

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 365 {
		limit = 30
	}

	history, err := h.service.GetCheckinHistory(c.Request.Context(), userID, limit)
	if err != nil {
		logger.Error("Failed to get check-in history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to retrieve check-in history",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, history)
}

// GetContexts lists the active context multipliers
func (h *CheckinHandler) GetContexts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"contexts": h.service.ActiveContexts()})
}

// AddContext registers a named multiplier applied to future check-ins
func (h *CheckinHandler) AddContext(c *gin.Context) {
	var req AddContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
		})
		return
	}

	h.service.AddContext(req.Name, req.Multiplier)
	logger.Info("Context registered",
		zap.String("name", req.Name),
		zap.Float64("multiplier", req.Multiplier),
	)

	c.JSON(http.StatusOK, gin.H{"contexts": h.service.ActiveContexts()})
}

// RemoveContext drops a named multiplier
func (h *CheckinHandler) RemoveContext(c *gin.Context) {
	name := c.Param("name")
	h.service.RemoveContext(name)

	c.JSON(http.StatusOK, gin.H{"contexts": h.service.ActiveContexts()})
}

// GetStats retrieves rewards service statistics
func (h *CheckinHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to retrieve statistics",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Response types

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status     string          `json:"status"`
	Components map[string]bool `json:"components"`
}
