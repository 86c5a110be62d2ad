package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/p2e-inferno/rewards-service/internal/config"
	"github.com/p2e-inferno/rewards-service/internal/models"
	"github.com/p2e-inferno/rewards-service/internal/repository"
	"github.com/p2e-inferno/rewards-service/internal/xp"
	"github.com/p2e-inferno/rewards-service/pkg/logger"
	"go.uber.org/zap"
)

// streakWindow is how long after a check-in the streak stays alive.
const streakWindow = 24 * time.Hour

// CheckinResult is the outcome of a check-in attempt. Business rejections
// (already checked in today) set Success=false with Error; infrastructure
// failures surface as ordinary errors instead.
type CheckinResult struct {
	Success       bool          `json:"success"`
	Error         string        `json:"error,omitempty"`
	UserID        string        `json:"user_id"`
	CurrentStreak int           `json:"current_streak"`
	LongestStreak int           `json:"longest_streak"`
	XP            *xp.Breakdown `json:"xp,omitempty"`
}

// StreakStatus is the read-side view of a user's streak.
type StreakStatus struct {
	UserID        string     `json:"user_id"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	IsActive      bool       `json:"is_active"`
	LastCheckinAt *time.Time `json:"last_checkin_at,omitempty"`
}

// CheckinPreview shows what the next check-in would award without recording
// anything.
type CheckinPreview struct {
	UserID        string        `json:"user_id"`
	NextStreak    int           `json:"next_streak"`
	XP            *xp.Breakdown `json:"xp"`
	NextMilestone *xp.Milestone `json:"next_milestone,omitempty"`
	Tier          *xp.Tier      `json:"tier,omitempty"`
	Event         *xp.EventInfo `json:"event,omitempty"`
}

// CheckinService orchestrates daily check-ins: streak bookkeeping plus XP
// computation through the configured calculator chain. The calculator's
// context map is unsynchronized, so every access goes through mu: admin
// mutations take the write lock, check-in computations the read lock.
type CheckinService struct {
	repo *repository.RewardsRepository
	mu   sync.RWMutex
	calc *xp.ContextualCalculator
	now  func() time.Time
}

// NewCheckinService creates a new check-in service
func NewCheckinService(repo *repository.RewardsRepository, calc *xp.ContextualCalculator) *CheckinService {
	return &CheckinService{
		repo: repo,
		calc: calc,
		now:  time.Now,
	}
}

// NewCalculatorFromConfig assembles the calculator chain the service runs
// on: the configured variant, wrapped in an event boost when a window is
// configured, wrapped in the contextual layer seeded from config.
func NewCalculatorFromConfig(cfg *config.Config) *xp.ContextualCalculator {
	xpCfg := xp.Config{
		BaseXP:      cfg.BaseXP,
		WeeklyBonus: cfg.WeeklyBonus,
		DailyBonus:  cfg.DailyBonus,
		MinimumXP:   cfg.MinimumXP,
	}
	if cfg.MaximumXP > 0 {
		max := cfg.MaximumXP
		xpCfg.MaximumXP = &max
	}

	var base xp.Calculator
	switch cfg.CalculatorStrategy {
	case "standard":
		base = xp.NewStandardCalculator(xpCfg)
	case "progressive":
		base = xp.NewProgressiveCalculator(xpCfg)
	default:
		base = xp.NewTieredCalculator(xpCfg)
	}

	if cfg.EventName != "" && !cfg.EventStart.IsZero() && !cfg.EventEnd.IsZero() {
		base = xp.NewEventCalculator(base, cfg.EventName, cfg.EventStart, cfg.EventEnd, cfg.EventMultiplier)
	}

	contextual := xp.NewContextualCalculator(base)
	for name, mult := range cfg.ContextMultipliers {
		contextual.AddContext(name, mult)
	}
	return contextual
}

// PerformCheckin records a daily check-in and awards XP. A second check-in
// on the same UTC day is rejected; a gap longer than the streak window
// restarts the streak at 1.
func (s *CheckinService) PerformCheckin(ctx context.Context, userID, walletAddress string) (*CheckinResult, error) {
	now := s.now().UTC()

	streak, err := s.repo.GetStreakByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	nextStreak := 1
	longest := 0
	if streak != nil {
		longest = streak.LongestStreak
		if streak.LastCheckinAt != nil {
			last := streak.LastCheckinAt.UTC()
			if sameDay(last, now) {
				return &CheckinResult{
					Success:       false,
					Error:         "already checked in today",
					UserID:        userID,
					CurrentStreak: streak.CurrentStreak,
					LongestStreak: streak.LongestStreak,
				}, nil
			}
			if now.Sub(last) <= streakWindow {
				nextStreak = streak.CurrentStreak + 1
			}
		}
	}
	if nextStreak > longest {
		longest = nextStreak
	}

	s.mu.RLock()
	breakdown := s.calc.CalculateXPWithContext(nextStreak, 1.0, s.activeContextNames())
	s.mu.RUnlock()

	updated := &models.CheckinStreak{
		UserID:        userID,
		WalletAddress: walletAddress,
		CurrentStreak: nextStreak,
		LongestStreak: longest,
		LastCheckinAt: &now,
		IsActive:      true,
	}
	if err := s.repo.UpsertStreak(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to save streak: %w", err)
	}

	record := &models.CheckinRecord{
		UserID:      userID,
		CheckinDate: now,
		StreakCount: nextStreak,
		XPAwarded:   breakdown.TotalXP,
		Multiplier:  breakdown.Multiplier,
	}
	if err := s.repo.CreateCheckinRecord(ctx, record); err != nil {
		logger.Error("Failed to save check-in record", zap.Error(err))
	}

	logger.Info("Check-in recorded",
		zap.String("userID", userID),
		zap.Int("streak", nextStreak),
		zap.Int("xp", breakdown.TotalXP),
	)

	return &CheckinResult{
		Success:       true,
		UserID:        userID,
		CurrentStreak: nextStreak,
		LongestStreak: longest,
		XP:            breakdown,
	}, nil
}

// GetStreak reports the user's streak, showing it as broken once the window
// has elapsed without a new check-in.
func (s *CheckinService) GetStreak(ctx context.Context, userID string) (*StreakStatus, error) {
	streak, err := s.repo.GetStreakByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if streak == nil {
		return &StreakStatus{UserID: userID}, nil
	}

	status := &StreakStatus{
		UserID:        userID,
		CurrentStreak: streak.CurrentStreak,
		LongestStreak: streak.LongestStreak,
		IsActive:      true,
		LastCheckinAt: streak.LastCheckinAt,
	}
	if s.expired(streak) {
		status.CurrentStreak = 0
		status.IsActive = false
	}
	return status, nil
}

// PreviewNextCheckin computes what the user's next check-in would award,
// without writing anything.
func (s *CheckinService) PreviewNextCheckin(ctx context.Context, userID string) (*CheckinPreview, error) {
	streak, err := s.repo.GetStreakByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	nextStreak := 1
	if streak != nil && !s.expired(streak) {
		nextStreak = streak.CurrentStreak + 1
	}

	s.mu.RLock()
	preview := &CheckinPreview{
		UserID:     userID,
		NextStreak: nextStreak,
		XP:         s.calc.CalculateXPWithContext(nextStreak, 1.0, s.activeContextNames()),
	}
	s.mu.RUnlock()

	// Surface variant-specific context when the underlying calculator
	// provides it.
	switch inner := unwrap(s.calc.Calculator).(type) {
	case *xp.ProgressiveCalculator:
		if m, ok := inner.NextMilestone(nextStreak); ok {
			preview.NextMilestone = &m
		}
	case *xp.TieredCalculator:
		preview.Tier = inner.TierInfo(nextStreak)
	}
	if event, ok := s.calc.Calculator.(*xp.EventCalculator); ok {
		info := event.EventInfo()
		preview.Event = &info
	}

	return preview, nil
}

// GetCheckinHistory retrieves a user's most recent check-ins
func (s *CheckinService) GetCheckinHistory(ctx context.Context, userID string, limit int) ([]*models.CheckinRecord, error) {
	return s.repo.GetCheckinHistory(ctx, userID, limit)
}

// AddContext registers a named multiplier applied to subsequent check-ins
func (s *CheckinService) AddContext(name string, multiplier float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calc.AddContext(name, multiplier)
}

// RemoveContext drops a named multiplier
func (s *CheckinService) RemoveContext(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calc.RemoveContext(name)
}

// ActiveContexts returns the registered context multipliers
func (s *CheckinService) ActiveContexts() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calc.ActiveContexts()
}

// GetStats retrieves service statistics
func (s *CheckinService) GetStats(ctx context.Context) (map[string]interface{}, error) {
	return s.repo.GetStats(ctx)
}

// activeContextNames expects the caller to hold mu.
func (s *CheckinService) activeContextNames() []string {
	contexts := s.calc.ActiveContexts()
	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	return names
}

func (s *CheckinService) expired(streak *models.CheckinStreak) bool {
	if streak.LastCheckinAt == nil {
		return true
	}
	return s.now().UTC().Sub(streak.LastCheckinAt.UTC()) > streakWindow
}

// unwrap strips an event decorator to reach the concrete variant beneath it.
func unwrap(calc xp.Calculator) xp.Calculator {
	if event, ok := calc.(*xp.EventCalculator); ok {
		return event.Calculator
	}
	return calc
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
