package xp

// StandardCalculator awards a flat daily bonus per consecutive day plus a
// weekly bonus for every completed week.
type StandardCalculator struct {
	baseCalculator
}

func NewStandardCalculator(cfg Config) *StandardCalculator {
	return &StandardCalculator{baseCalculator{cfg: cfg}}
}

func (c *StandardCalculator) CalculateStreakBonus(streak int) float64 {
	return c.weeklyComponent(streak) + c.dailyComponent(streak)
}

func (c *StandardCalculator) CalculateBreakdown(streak int, multiplier float64) *Breakdown {
	base := c.CalculateBaseXP()
	bonus := c.CalculateStreakBonus(streak)

	return &Breakdown{
		BaseXP:      base,
		StreakBonus: bonus,
		Multiplier:  multiplier,
		TotalXP:     c.CalculateTotalXP(float64(base), bonus, multiplier),
		Contributions: map[string]float64{
			"weeklyBonus": c.weeklyComponent(streak),
			"dailyBonus":  c.dailyComponent(streak),
		},
	}
}
