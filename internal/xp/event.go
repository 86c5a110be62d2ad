package xp

import (
	"time"
)

// EventInfo describes the state of a boost event window.
type EventInfo struct {
	Name       string  `json:"name"`
	IsActive   bool    `json:"is_active"`
	Multiplier float64 `json:"multiplier"`
}

// EventCalculator decorates another calculator with a time-boxed XP boost.
// Outside the [start, end) window it is transparent; inside, the delegate's
// total is recomputed with the boosted multiplier and the delta is reported
// as eventBonus.
type EventCalculator struct {
	Calculator
	name       string
	start      time.Time
	end        time.Time
	multiplier float64
	now        func() time.Time
}

func NewEventCalculator(base Calculator, name string, start, end time.Time, multiplier float64) *EventCalculator {
	return &EventCalculator{
		Calculator: base,
		name:       name,
		start:      start,
		end:        end,
		multiplier: multiplier,
		now:        time.Now,
	}
}

func (c *EventCalculator) EventInfo() EventInfo {
	return EventInfo{
		Name:       c.name,
		IsActive:   c.isActive(),
		Multiplier: c.multiplier,
	}
}

func (c *EventCalculator) isActive() bool {
	now := c.now()
	return !now.Before(c.start) && now.Before(c.end)
}

func (c *EventCalculator) CalculateBreakdown(streak int, multiplier float64) *Breakdown {
	breakdown := c.Calculator.CalculateBreakdown(streak, multiplier)
	if !c.isActive() {
		return breakdown
	}

	boosted := c.Calculator.CalculateTotalXP(
		float64(breakdown.BaseXP),
		breakdown.StreakBonus,
		multiplier*c.multiplier,
	)

	breakdown.Contributions["eventBonus"] = float64(boosted - breakdown.TotalXP)
	breakdown.TotalXP = boosted
	breakdown.Multiplier = multiplier * c.multiplier
	return breakdown
}
