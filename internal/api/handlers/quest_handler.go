package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/p2e-inferno/rewards-service/internal/service"
	"github.com/p2e-inferno/rewards-service/internal/verification"
	"github.com/p2e-inferno/rewards-service/pkg/logger"
	"go.uber.org/zap"
)

// QuestHandler handles task verification API requests
type QuestHandler struct {
	service *service.QuestService
}

// NewQuestHandler creates a new quest handler
func NewQuestHandler(service *service.QuestService) *QuestHandler {
	return &QuestHandler{
		service: service,
	}
}

// VerifyTaskRequest represents a task verification submission
type VerifyTaskRequest struct {
	UserID          string `json:"user_id" binding:"required"`
	WalletAddress   string `json:"wallet_address"`
	TaskType        string `json:"task_type" binding:"required"`
	TransactionHash string `json:"transaction_hash"`
}

// VerifyTask runs verification for a task submission. Failed verification is
// a 200 with success=false; only infrastructure errors produce a 500.
func (h *QuestHandler) VerifyTask(c *gin.Context) {
	var req VerifyTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid request", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request",
			Message: err.Error(),
		})
		return
	}

	outcome, err := h.service.VerifyTask(
		c.Request.Context(),
		req.UserID,
		req.WalletAddress,
		req.TaskType,
		verification.Submission{TransactionHash: req.TransactionHash},
	)
	if err != nil {
		logger.Error("Failed to verify task", zap.Error(err))
		message := "Failed to verify task"
		if errors.Is(err, verification.ErrNotConfigured) {
			message = "Verification not configured"
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   message,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, outcome)
}

// GetCompletions retrieves a user's task completions
func (h *QuestHandler) GetCompletions(c *gin.Context) {
	userID := c.Param("userId")

	completions, err := h.service.GetCompletions(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Failed to get completions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to retrieve completions",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, completions)
}

// HealthCheck reports on the service's external dependencies
func (h *QuestHandler) HealthCheck(c *gin.Context) {
	health := h.service.HealthCheck(c.Request.Context())

	allHealthy := true
	for _, v := range health {
		if !v {
			allHealthy = false
			break
		}
	}

	status := http.StatusOK
	if !allHealthy {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, HealthResponse{
		Status:     map[bool]string{true: "healthy", false: "unhealthy"}[allHealthy],
		Components: health,
	})
}
