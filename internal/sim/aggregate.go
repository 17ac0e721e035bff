package sim

import (
	"wfsim/internal/stats"
)

// ProductivityStats is the descriptive block over the modifier series.
type ProductivityStats struct {
	stats.Summary
}

// StaffingImpact translates the modifier series into staff-equivalents.
type StaffingImpact struct {
	AvgVariance              float64 `json:"avg_variance"`
	MaxAdditionalStaff       int     `json:"max_additional_staff"`
	MinAdditionalStaff       int     `json:"min_additional_staff"`
	TotalAdditionalStaffDays int     `json:"total_additional_staff_days"`
	DaysUnderstaffed         int     `json:"days_understaffed"`
	DaysOverstaffed          int     `json:"days_overstaffed"`
}

// RiskMetrics captures downside exposure. Volatility is the standard
// deviation of day-over-day modifier differences, not of the levels, so a
// noisy-but-flat series scores higher than a smooth trend.
type RiskMetrics struct {
	ProbabilityBelow90Pct  float64 `json:"probability_below_90pct"`
	ProbabilityBelow80Pct  float64 `json:"probability_below_80pct"`
	Volatility             float64 `json:"volatility"`
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
}

// ConfidenceIntervals bounds the headline outputs at the requested level.
type ConfidenceIntervals struct {
	ProductivityModifier stats.Interval `json:"productivity_modifier"`
	StaffingVariance     stats.Interval `json:"staffing_variance"`
}

// AggregateVariance is a pure reduction over a finished series. Feeding a
// persisted series back through it reproduces the original blocks exactly.
func AggregateVariance(points []ProductivityDataPoint) (ProductivityStats, StaffingImpact, RiskMetrics) {
	modifiers := make([]float64, len(points))
	staffing := make([]float64, len(points))
	for i, dp := range points {
		modifiers[i] = dp.ProductivityModifier
		staffing[i] = float64(dp.StaffingVariance)
	}

	prod := ProductivityStats{Summary: stats.Describe(modifiers)}

	var impact StaffingImpact
	if len(points) > 0 {
		impact.AvgVariance = stats.Mean(staffing)
		impact.MaxAdditionalStaff = points[0].StaffingVariance
		impact.MinAdditionalStaff = points[0].StaffingVariance
		for _, dp := range points {
			sv := dp.StaffingVariance
			if sv > impact.MaxAdditionalStaff {
				impact.MaxAdditionalStaff = sv
			}
			if sv < impact.MinAdditionalStaff {
				impact.MinAdditionalStaff = sv
			}
			if sv > 0 {
				impact.TotalAdditionalStaffDays += sv
				impact.DaysUnderstaffed++
			}
			if sv < 0 {
				impact.DaysOverstaffed++
			}
		}
	}

	var risk RiskMetrics
	if len(modifiers) > 0 {
		below90, below80 := 0, 0
		for _, m := range modifiers {
			if m < 0.90 {
				below90++
			}
			if m < 0.80 {
				below80++
			}
		}
		risk.ProbabilityBelow90Pct = float64(below90) / float64(len(modifiers))
		risk.ProbabilityBelow80Pct = float64(below80) / float64(len(modifiers))
		risk.Volatility = stats.StdDev(stats.Diffs(modifiers))
		if prod.Mean != 0 {
			risk.CoefficientOfVariation = prod.StdDev / prod.Mean
		}
	}

	return prod, impact, risk
}

// VarianceConfidenceIntervals computes empirical central intervals over
// the daily series at the requested confidence level.
func VarianceConfidenceIntervals(points []ProductivityDataPoint, level float64) ConfidenceIntervals {
	modifiers := make([]float64, len(points))
	staffing := make([]float64, len(points))
	for i, dp := range points {
		modifiers[i] = dp.ProductivityModifier
		staffing[i] = float64(dp.StaffingVariance)
	}
	return ConfidenceIntervals{
		ProductivityModifier: stats.ConfidenceInterval(modifiers, level),
		StaffingVariance:     stats.ConfidenceInterval(staffing, level),
	}
}
