package models

import (
	"time"
)

// CheckinStreak tracks a user's daily check-in continuity. A streak is
// considered broken once more than 24 hours pass after LastCheckinAt with no
// new check-in.
type CheckinStreak struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        string     `gorm:"uniqueIndex;not null" json:"user_id"`
	WalletAddress string     `gorm:"index" json:"wallet_address"`
	CurrentStreak int        `gorm:"not null;default:0" json:"current_streak"`
	LongestStreak int        `gorm:"not null;default:0" json:"longest_streak"`
	LastCheckinAt *time.Time `json:"last_checkin_at"`
	IsActive      bool       `gorm:"default:true" json:"is_active"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CheckinRecord is the per-day audit row written for every successful check-in.
type CheckinRecord struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      string    `gorm:"index;not null" json:"user_id"`
	CheckinDate time.Time `gorm:"not null;index" json:"checkin_date"`
	StreakCount int       `gorm:"not null" json:"streak_count"`
	XPAwarded   int       `gorm:"not null" json:"xp_awarded"`
	Multiplier  float64   `gorm:"not null;default:1" json:"multiplier"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuestTask defines a verifiable task and its reward. TargetStage only
// applies to state-based vendor tasks.
type QuestTask struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TaskType    string    `gorm:"uniqueIndex;not null" json:"task_type"`
	Title       string    `gorm:"not null" json:"title"`
	RewardXP    int       `gorm:"not null" json:"reward_xp"`
	TargetStage uint64    `json:"target_stage"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskCompletion records a successful verification. TxHash is unique so a
// transaction can only ever back one completion.
type TaskCompletion struct {
	ID               string    `gorm:"primaryKey" json:"id"`
	UserID           string    `gorm:"index;not null" json:"user_id"`
	TaskType         string    `gorm:"index;not null" json:"task_type"`
	WalletAddress    string    `json:"wallet_address"`
	TxHash           *string   `gorm:"uniqueIndex" json:"tx_hash"`
	XPAwarded        int       `gorm:"not null" json:"xp_awarded"`
	VerificationData string    `gorm:"type:text" json:"verification_data"`
	CreatedAt        time.Time `json:"created_at"`
}
