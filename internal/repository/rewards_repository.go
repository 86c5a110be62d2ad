package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/p2e-inferno/rewards-service/internal/models"
	"gorm.io/gorm"
)

// RewardsRepository handles database operations for streaks, check-ins and
// task completions
type RewardsRepository struct {
	db *gorm.DB
}

// NewRewardsRepository creates a new rewards repository
func NewRewardsRepository(db *gorm.DB) *RewardsRepository {
	return &RewardsRepository{db: db}
}

// GetStreakByUser retrieves a user's check-in streak
func (r *RewardsRepository) GetStreakByUser(ctx context.Context, userID string) (*models.CheckinStreak, error) {
	var streak models.CheckinStreak
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&streak).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get streak: %w", err)
	}

	return &streak, nil
}

// UpsertStreak creates or updates a user's streak record
func (r *RewardsRepository) UpsertStreak(ctx context.Context, streak *models.CheckinStreak) error {
	var existing models.CheckinStreak
	err := r.db.WithContext(ctx).
		Where("user_id = ?", streak.UserID).
		First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(streak).Error
	}
	if err != nil {
		return fmt.Errorf("failed to check existing streak: %w", err)
	}

	streak.ID = existing.ID
	streak.CreatedAt = existing.CreatedAt
	return r.db.WithContext(ctx).Save(streak).Error
}

// CreateCheckinRecord records a successful check-in
func (r *RewardsRepository) CreateCheckinRecord(ctx context.Context, record *models.CheckinRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// GetCheckinHistory retrieves a user's most recent check-ins
func (r *RewardsRepository) GetCheckinHistory(ctx context.Context, userID string, limit int) ([]*models.CheckinRecord, error) {
	var records []*models.CheckinRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("checkin_date DESC").
		Limit(limit).
		Find(&records).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get check-in history: %w", err)
	}

	return records, nil
}

// GetTaskByType retrieves an active task definition
func (r *RewardsRepository) GetTaskByType(ctx context.Context, taskType string) (*models.QuestTask, error) {
	var task models.QuestTask
	err := r.db.WithContext(ctx).
		Where("task_type = ? AND is_active = ?", taskType, true).
		First(&task).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	return &task, nil
}

// SeedTask inserts a task definition if no row with its task type exists yet.
func (r *RewardsRepository) SeedTask(ctx context.Context, task *models.QuestTask) error {
	var existing models.QuestTask
	err := r.db.WithContext(ctx).
		Where("task_type = ?", task.TaskType).
		First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		return r.db.WithContext(ctx).Create(task).Error
	}
	if err != nil {
		return fmt.Errorf("failed to check existing task: %w", err)
	}

	return nil
}

// GetCompletionByTxHash retrieves a completion backed by a transaction hash
func (r *RewardsRepository) GetCompletionByTxHash(ctx context.Context, txHash string) (*models.TaskCompletion, error) {
	var completion models.TaskCompletion
	err := r.db.WithContext(ctx).
		Where("tx_hash = ?", txHash).
		First(&completion).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get completion by tx hash: %w", err)
	}

	return &completion, nil
}

// GetCompletionByUserAndTask retrieves a user's completion of a task
func (r *RewardsRepository) GetCompletionByUserAndTask(ctx context.Context, userID, taskType string) (*models.TaskCompletion, error) {
	var completion models.TaskCompletion
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND task_type = ?", userID, taskType).
		First(&completion).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get completion: %w", err)
	}

	return &completion, nil
}

// GetCompletionsByUser retrieves all of a user's task completions
func (r *RewardsRepository) GetCompletionsByUser(ctx context.Context, userID string) ([]*models.TaskCompletion, error) {
	var completions []*models.TaskCompletion
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&completions).Error

	if err != nil {
		return nil, fmt.Errorf("failed to get completions: %w", err)
	}

	return completions, nil
}

// CreateCompletion records a successful task verification
func (r *RewardsRepository) CreateCompletion(ctx context.Context, completion *models.TaskCompletion) error {
	return r.db.WithContext(ctx).Create(completion).Error
}

// GetStats retrieves database statistics
func (r *RewardsRepository) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})

	var activeStreaks int64
	if err := r.db.WithContext(ctx).Model(&models.CheckinStreak{}).Where("is_active = ?", true).Count(&activeStreaks).Error; err != nil {
		return nil, err
	}
	stats["active_streaks"] = activeStreaks

	var totalCheckins int64
	if err := r.db.WithContext(ctx).Model(&models.CheckinRecord{}).Count(&totalCheckins).Error; err != nil {
		return nil, err
	}
	stats["total_checkins"] = totalCheckins

	var checkinsToday int64
	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	if err := r.db.WithContext(ctx).Model(&models.CheckinRecord{}).Where("checkin_date >= ?", midnight).Count(&checkinsToday).Error; err != nil {
		return nil, err
	}
	stats["checkins_today"] = checkinsToday

	var totalCompletions int64
	if err := r.db.WithContext(ctx).Model(&models.TaskCompletion{}).Count(&totalCompletions).Error; err != nil {
		return nil, err
	}
	stats["total_task_completions"] = totalCompletions

	return stats, nil
}
