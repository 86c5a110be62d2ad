package xp

import (
	"math"
)

// Tier maps a streak range onto reward multipliers. MaxStreak nil means
// unbounded. A tier set must be contiguous and non-overlapping when ordered
// by MinStreak; lookup takes the first matching tier.
type Tier struct {
	Name              string  `json:"name"`
	MinStreak         int     `json:"min_streak"`
	MaxStreak         *int    `json:"max_streak"`
	BaseXPMultiplier  float64 `json:"base_xp_multiplier"`
	BonusXPMultiplier float64 `json:"bonus_xp_multiplier"`
}

func (t Tier) contains(streak int) bool {
	if streak < t.MinStreak {
		return false
	}
	return t.MaxStreak == nil || streak <= *t.MaxStreak
}

func intPtr(v int) *int { return &v }

// DefaultTiers is the stock streak tier table.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "Newcomer", MinStreak: 0, MaxStreak: intPtr(6), BaseXPMultiplier: 1.0, BonusXPMultiplier: 1.0},
		{Name: "Regular", MinStreak: 7, MaxStreak: intPtr(29), BaseXPMultiplier: 1.2, BonusXPMultiplier: 1.3},
		{Name: "Dedicated", MinStreak: 30, MaxStreak: intPtr(99), BaseXPMultiplier: 1.5, BonusXPMultiplier: 1.6},
		{Name: "Master", MinStreak: 100, MaxStreak: nil, BaseXPMultiplier: 2.0, BonusXPMultiplier: 2.0},
	}
}

// TieredCalculator scales base and bonus XP by the multipliers of the tier
// containing the current streak.
type TieredCalculator struct {
	baseCalculator
	tiers []Tier
}

func NewTieredCalculator(cfg Config) *TieredCalculator {
	return NewTieredCalculatorWithTiers(cfg, DefaultTiers())
}

func NewTieredCalculatorWithTiers(cfg Config, tiers []Tier) *TieredCalculator {
	return &TieredCalculator{
		baseCalculator: baseCalculator{cfg: cfg},
		tiers:          tiers,
	}
}

// TierInfo returns the tier containing the given streak, or nil if the tier
// table has a gap there.
func (c *TieredCalculator) TierInfo(streak int) *Tier {
	for i := range c.tiers {
		if c.tiers[i].contains(streak) {
			tier := c.tiers[i]
			return &tier
		}
	}
	return nil
}

// AllTiers returns a copy of the configured tier table.
func (c *TieredCalculator) AllTiers() []Tier {
	tiers := make([]Tier, len(c.tiers))
	copy(tiers, c.tiers)
	return tiers
}

func (c *TieredCalculator) CalculateStreakBonus(streak int) float64 {
	raw := c.weeklyComponent(streak) + c.dailyComponent(streak)
	if raw == 0 {
		return 0
	}
	tier := c.TierInfo(streak)
	if tier == nil {
		return raw
	}
	return raw * tier.BonusXPMultiplier
}

func (c *TieredCalculator) CalculateBreakdown(streak int, multiplier float64) *Breakdown {
	base := c.CalculateBaseXP()
	bonus := c.CalculateStreakBonus(streak)

	effectiveBase := float64(base)
	if tier := c.TierInfo(streak); tier != nil {
		effectiveBase = math.Round(float64(base) * tier.BaseXPMultiplier)
	}

	weekly := c.weeklyComponent(streak)
	daily := c.dailyComponent(streak)
	// tierBonus is what the bonus multiplier added on top of the raw weekly
	// and daily components; the base multiplier is already reflected in
	// BaseXP so the contributions still sum with it to the pre-clamp value.
	tierBonus := bonus - weekly - daily

	return &Breakdown{
		BaseXP:      int(effectiveBase),
		StreakBonus: bonus,
		Multiplier:  multiplier,
		TotalXP:     c.CalculateTotalXP(effectiveBase, bonus, multiplier),
		Contributions: map[string]float64{
			"weeklyBonus": weekly,
			"dailyBonus":  daily,
			"tierBonus":   tierBonus,
		},
	}
}
