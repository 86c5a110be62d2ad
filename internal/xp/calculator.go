package xp

import (
	"math"
)

// Config holds the tunable constants shared by every calculator variant.
// MaximumXP is optional; nil means no upper clamp.
type Config struct {
	BaseXP      int  `json:"base_xp"`
	WeeklyBonus int  `json:"weekly_bonus"`
	DailyBonus  int  `json:"daily_bonus"`
	MinimumXP   int  `json:"minimum_xp"`
	MaximumXP   *int `json:"maximum_xp,omitempty"`
}

// ConfigPatch is a partial config update; nil fields leave the current value
// unchanged.
type ConfigPatch struct {
	BaseXP      *int
	WeeklyBonus *int
	DailyBonus  *int
	MinimumXP   *int
	MaximumXP   *int
}

// DefaultConfig returns the platform's stock check-in reward constants.
func DefaultConfig() Config {
	return Config{
		BaseXP:      50,
		WeeklyBonus: 50,
		DailyBonus:  10,
		MinimumXP:   10,
	}
}

// Breakdown is the structured result of a reward computation. Contributions
// maps named bonus components (weeklyBonus, dailyBonus, tierBonus,
// milestoneBonus, eventBonus, contextBonus) to their share of the pre-clamp
// value; BaseXP plus the contributions sums to the pre-multiplier total up
// to rounding.
type Breakdown struct {
	BaseXP        int                `json:"base_xp"`
	StreakBonus   float64            `json:"streak_bonus"`
	Multiplier    float64            `json:"multiplier"`
	TotalXP       int                `json:"total_xp"`
	Contributions map[string]float64 `json:"breakdown"`
}

// Calculator is the contract every XP/streak reward variant implements.
// All operations are pure; well-formed configuration is the caller's job.
type Calculator interface {
	// CalculateBaseXP returns the configured base reward.
	CalculateBaseXP() int

	// CalculateStreakBonus returns the additional XP earned purely from
	// streak length. Always 0 for streaks of 0 or 1.
	CalculateStreakBonus(streak int) float64

	// CalculateTotalXP computes floor((baseXP+bonus)*multiplier) clamped to
	// [MinimumXP, MaximumXP].
	CalculateTotalXP(baseXP, bonus, multiplier float64) int

	// CalculateBreakdown composes the above into a structured result.
	CalculateBreakdown(streak int, multiplier float64) *Breakdown

	// ValidateMinimumXP returns max(value, MinimumXP).
	ValidateMinimumXP(value int) int

	// Config returns a copy of the current constants.
	Config() Config

	// UpdateConfig merges a partial update into the current constants.
	UpdateConfig(patch ConfigPatch)
}

// baseCalculator carries the config plumbing shared by the concrete variants.
type baseCalculator struct {
	cfg Config
}

func (c *baseCalculator) CalculateBaseXP() int {
	return c.cfg.BaseXP
}

func (c *baseCalculator) CalculateTotalXP(baseXP, bonus, multiplier float64) int {
	total := int(math.Floor((baseXP + bonus) * multiplier))
	if total < c.cfg.MinimumXP {
		total = c.cfg.MinimumXP
	}
	if c.cfg.MaximumXP != nil && total > *c.cfg.MaximumXP {
		total = *c.cfg.MaximumXP
	}
	return total
}

func (c *baseCalculator) ValidateMinimumXP(value int) int {
	if value < c.cfg.MinimumXP {
		return c.cfg.MinimumXP
	}
	return value
}

func (c *baseCalculator) Config() Config {
	return c.cfg
}

func (c *baseCalculator) UpdateConfig(patch ConfigPatch) {
	if patch.BaseXP != nil {
		c.cfg.BaseXP = *patch.BaseXP
	}
	if patch.WeeklyBonus != nil {
		c.cfg.WeeklyBonus = *patch.WeeklyBonus
	}
	if patch.DailyBonus != nil {
		c.cfg.DailyBonus = *patch.DailyBonus
	}
	if patch.MinimumXP != nil {
		c.cfg.MinimumXP = *patch.MinimumXP
	}
	if patch.MaximumXP != nil {
		max := *patch.MaximumXP
		c.cfg.MaximumXP = &max
	}
}

// weeklyComponent and dailyComponent are the raw bonus pieces of the
// standard formula: dailyBonus*(streak-1) + weeklyBonus*floor(streak/7).

func (c *baseCalculator) weeklyComponent(streak int) float64 {
	if streak <= 0 {
		return 0
	}
	return float64(c.cfg.WeeklyBonus * (streak / 7))
}

func (c *baseCalculator) dailyComponent(streak int) float64 {
	if streak <= 0 {
		return 0
	}
	return float64(c.cfg.DailyBonus * (streak - 1))
}
