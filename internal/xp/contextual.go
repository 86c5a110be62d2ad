package xp

// ContextualCalculator decorates another calculator with named multiplier
// contexts (seasonal campaigns, referral boosts, ...). The context map is
// not synchronized: a calculator instance belongs to a single logical
// session and concurrent AddContext/RemoveContext calls must be serialized
// by the owner.
type ContextualCalculator struct {
	Calculator
	contexts map[string]float64
}

func NewContextualCalculator(base Calculator) *ContextualCalculator {
	return &ContextualCalculator{
		Calculator: base,
		contexts:   make(map[string]float64),
	}
}

func (c *ContextualCalculator) AddContext(name string, multiplier float64) {
	c.contexts[name] = multiplier
}

func (c *ContextualCalculator) RemoveContext(name string) {
	delete(c.contexts, name)
}

// ActiveContexts returns a copy of the registered context multipliers.
func (c *ContextualCalculator) ActiveContexts() map[string]float64 {
	active := make(map[string]float64, len(c.contexts))
	for name, mult := range c.contexts {
		active[name] = mult
	}
	return active
}

// CalculateXPWithContext multiplies the base multiplier by the product of
// the named contexts' multipliers. Unknown context names are ignored. The
// boost over the plain breakdown is reported as contextBonus.
func (c *ContextualCalculator) CalculateXPWithContext(streak int, baseMultiplier float64, names []string) *Breakdown {
	factor := 1.0
	for _, name := range names {
		if mult, ok := c.contexts[name]; ok {
			factor *= mult
		}
	}

	breakdown := c.Calculator.CalculateBreakdown(streak, baseMultiplier)
	if factor == 1.0 {
		return breakdown
	}

	// Scale the breakdown's own multiplier so a boost applied by the
	// delegate (an active event window) composes instead of being lost.
	boosted := c.Calculator.CalculateTotalXP(
		float64(breakdown.BaseXP),
		breakdown.StreakBonus,
		breakdown.Multiplier*factor,
	)

	breakdown.Contributions["contextBonus"] = float64(boosted - breakdown.TotalXP)
	breakdown.TotalXP = boosted
	breakdown.Multiplier = breakdown.Multiplier * factor
	return breakdown
}
