package xp

// Milestone day counts and the per-milestone bonus rate. Each reached
// milestone permanently adds milestone*rate to the streak bonus.
var defaultMilestones = []int{7, 14, 30, 60, 90, 180, 365}

const defaultProgressionRate = 0.05

// Milestone reports an upcoming streak milestone and the bonus it will add.
type Milestone struct {
	Days  int     `json:"days"`
	Bonus float64 `json:"bonus"`
}

// ProgressiveCalculator extends the standard formula with cumulative
// milestone bonuses.
type ProgressiveCalculator struct {
	baseCalculator
	milestones []int
	rate       float64
}

func NewProgressiveCalculator(cfg Config) *ProgressiveCalculator {
	return &ProgressiveCalculator{
		baseCalculator: baseCalculator{cfg: cfg},
		milestones:     defaultMilestones,
		rate:           defaultProgressionRate,
	}
}

func (c *ProgressiveCalculator) CalculateStreakBonus(streak int) float64 {
	if streak <= 0 {
		return 0
	}
	return c.weeklyComponent(streak) + c.dailyComponent(streak) + c.milestoneBonus(streak)
}

// milestoneBonus sums rate*milestone over every milestone already reached.
func (c *ProgressiveCalculator) milestoneBonus(streak int) float64 {
	bonus := 0.0
	for _, m := range c.milestones {
		if m > streak {
			break
		}
		bonus += float64(m) * c.rate
	}
	return bonus
}

// NextMilestone reports the first unreached milestone and its would-be
// bonus. ok is false once every milestone has been passed.
func (c *ProgressiveCalculator) NextMilestone(streak int) (Milestone, bool) {
	for _, m := range c.milestones {
		if m > streak {
			return Milestone{Days: m, Bonus: float64(m) * c.rate}, true
		}
	}
	return Milestone{}, false
}

func (c *ProgressiveCalculator) CalculateBreakdown(streak int, multiplier float64) *Breakdown {
	base := c.CalculateBaseXP()
	bonus := c.CalculateStreakBonus(streak)

	return &Breakdown{
		BaseXP:      base,
		StreakBonus: bonus,
		Multiplier:  multiplier,
		TotalXP:     c.CalculateTotalXP(float64(base), bonus, multiplier),
		Contributions: map[string]float64{
			"weeklyBonus":    c.weeklyComponent(streak),
			"dailyBonus":     c.dailyComponent(streak),
			"milestoneBonus": c.milestoneBonus(streak),
		},
	}
}
