package sim

import (
	"math"
	"time"
)

// TemporalMultiplier combines the profile's hour-of-day, day-of-week, and
// month lookups by multiplication. Keys absent from a map default to 1.0.
// Pass hour < 0 for daily-resolution runs, which skips the hour lookup.
func TemporalMultiplier(p *VarianceProfile, date time.Time, hour int) float64 {
	mult := 1.0

	if hour >= 0 && p.HourImpact != nil {
		if m, ok := p.HourImpact[hour]; ok {
			mult *= m
		}
	}
	if p.WeekdayImpact != nil {
		if m, ok := p.WeekdayImpact[date.Weekday()]; ok {
			mult *= m
		}
	}
	if p.MonthImpact != nil {
		if m, ok := p.MonthImpact[date.Month()]; ok {
			mult *= m
		}
	}

	return mult
}

// LearningLevel evaluates the logistic learning curve at the given elapsed
// simulated day. The midpoint sits at half the plateau period so the ramp
// is smooth rather than a discrete jump. Non-decreasing in day whenever
// PlateauLevel > StartLevel.
func LearningLevel(lc LearningCurve, day int) float64 {
	if !lc.Enabled {
		return 1.0
	}
	plateauDays := float64(lc.PlateauWeeks * 7)
	frac := 1.0 / (1.0 + math.Exp(-lc.Rate*(float64(day)-plateauDays/2)))
	return lc.StartLevel + (lc.PlateauLevel-lc.StartLevel)*frac
}
