package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/p2e-inferno/rewards-service/internal/models"
	"github.com/p2e-inferno/rewards-service/internal/repository"
	"github.com/p2e-inferno/rewards-service/internal/verification"
	"github.com/p2e-inferno/rewards-service/pkg/logger"
	"go.uber.org/zap"
)

// HealthChecker is implemented by the external dependencies the service
// reports on.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// VerificationOutcome is the result of a task verification attempt. Business
// failures carry Error; infrastructure problems surface as ordinary errors.
type VerificationOutcome struct {
	Success      bool                   `json:"success"`
	Error        string                 `json:"error,omitempty"`
	TaskType     string                 `json:"task_type"`
	XPAwarded    int                    `json:"xp_awarded,omitempty"`
	CompletionID string                 `json:"completion_id,omitempty"`
	Data         map[string]interface{} `json:"data,omitempty"`
}

// QuestService runs task verification through the strategy registry and
// records successful completions.
type QuestService struct {
	repo          *repository.RewardsRepository
	registry      *verification.Registry
	chainHealth   HealthChecker
	profileHealth HealthChecker
}

// NewQuestService creates a new quest service
func NewQuestService(repo *repository.RewardsRepository, registry *verification.Registry, chainHealth, profileHealth HealthChecker) *QuestService {
	return &QuestService{
		repo:          repo,
		registry:      registry,
		chainHealth:   chainHealth,
		profileHealth: profileHealth,
	}
}

// VerifyTask checks replay constraints, dispatches to the matching strategy
// and persists a completion on success.
func (s *QuestService) VerifyTask(ctx context.Context, userID, walletAddress, taskType string, submission verification.Submission) (*VerificationOutcome, error) {
	logger.Info("Verifying task",
		zap.String("userID", userID),
		zap.String("taskType", taskType),
	)

	task, err := s.repo.GetTaskByType(ctx, taskType)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return &VerificationOutcome{
			Success:  false,
			Error:    "Task not found",
			TaskType: taskType,
		}, nil
	}

	// A cataloged task with no registered strategy is a deployment problem,
	// not a user rejection.
	if !s.registry.Supported(verification.TaskType(taskType)) {
		return nil, fmt.Errorf("%w: no strategy registered for task type %s", verification.ErrNotConfigured, taskType)
	}

	// Replay checks run before any external verification.
	if submission.TransactionHash != "" {
		existing, err := s.repo.GetCompletionByTxHash(ctx, submission.TransactionHash)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &VerificationOutcome{
				Success:  false,
				Error:    "Transaction already used for a completion",
				TaskType: taskType,
			}, nil
		}
	}
	existing, err := s.repo.GetCompletionByUserAndTask(ctx, userID, taskType)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &VerificationOutcome{
			Success:  false,
			Error:    "Task already completed",
			TaskType: taskType,
		}, nil
	}

	result := s.registry.Verify(ctx, verification.TaskType(taskType), submission, userID, walletAddress, &verification.Options{
		TaskConfig: verification.TaskConfig{TargetStage: task.TargetStage},
	})
	if !result.Success {
		logger.Info("Task verification rejected",
			zap.String("userID", userID),
			zap.String("taskType", taskType),
			zap.String("reason", result.Error),
		)
		return &VerificationOutcome{
			Success:  false,
			Error:    result.Error,
			TaskType: taskType,
		}, nil
	}

	completion := &models.TaskCompletion{
		ID:            uuid.NewString(),
		UserID:        userID,
		TaskType:      taskType,
		WalletAddress: walletAddress,
		XPAwarded:     task.RewardXP,
	}
	if submission.TransactionHash != "" {
		hash := submission.TransactionHash
		completion.TxHash = &hash
	}
	if len(result.Data) > 0 {
		encoded, err := json.Marshal(result.Data)
		if err == nil {
			completion.VerificationData = string(encoded)
		}
	}

	if err := s.repo.CreateCompletion(ctx, completion); err != nil {
		return nil, fmt.Errorf("failed to save completion: %w", err)
	}

	logger.Info("Task verified successfully",
		zap.String("userID", userID),
		zap.String("taskType", taskType),
		zap.Int("xp", task.RewardXP),
	)

	return &VerificationOutcome{
		Success:      true,
		TaskType:     taskType,
		XPAwarded:    task.RewardXP,
		CompletionID: completion.ID,
		Data:         result.Data,
	}, nil
}

// GetCompletions retrieves a user's task completions
func (s *QuestService) GetCompletions(ctx context.Context, userID string) ([]*models.TaskCompletion, error) {
	return s.repo.GetCompletionsByUser(ctx, userID)
}

// SeedDefaultTasks inserts the stock task definitions when missing.
func (s *QuestService) SeedDefaultTasks(ctx context.Context) error {
	defaults := []*models.QuestTask{
		{TaskType: string(verification.TaskVendorBuy), Title: "Buy tokens from the Vendor", RewardXP: 100, IsActive: true},
		{TaskType: string(verification.TaskVendorSell), Title: "Sell tokens to the Vendor", RewardXP: 100, IsActive: true},
		{TaskType: string(verification.TaskVendorLightUp), Title: "Light up the Vendor", RewardXP: 150, IsActive: true},
		{TaskType: string(verification.TaskVendorLevelUp), Title: "Reach stage 2", RewardXP: 250, TargetStage: 2, IsActive: true},
		{TaskType: string(verification.TaskLinkEmail), Title: "Link your email", RewardXP: 25, IsActive: true},
		{TaskType: string(verification.TaskSignTOS), Title: "Sign the terms of service", RewardXP: 25, IsActive: true},
		{TaskType: string(verification.TaskLinkFarcaster), Title: "Link your Farcaster account", RewardXP: 75, IsActive: true},
		{TaskType: string(verification.TaskLinkWallet), Title: "Link an external wallet", RewardXP: 50, IsActive: true},
		{TaskType: string(verification.TaskLinkTelegram), Title: "Link your Telegram account", RewardXP: 50, IsActive: true},
	}

	for _, task := range defaults {
		if err := s.repo.SeedTask(ctx, task); err != nil {
			return fmt.Errorf("failed to seed task %s: %w", task.TaskType, err)
		}
	}
	return nil
}

// HealthCheck reports on the service's external dependencies
func (s *QuestService) HealthCheck(ctx context.Context) map[string]bool {
	health := make(map[string]bool)

	if s.chainHealth != nil {
		if err := s.chainHealth.HealthCheck(ctx); err != nil {
			logger.Error("Blockchain client health check failed", zap.Error(err))
			health["blockchain_client"] = false
		} else {
			health["blockchain_client"] = true
		}
	}

	if s.profileHealth != nil {
		if err := s.profileHealth.HealthCheck(ctx); err != nil {
			logger.Error("Profile provider health check failed", zap.Error(err))
			health["profile_provider"] = false
		} else {
			health["profile_provider"] = true
		}
	}

	return health
}
