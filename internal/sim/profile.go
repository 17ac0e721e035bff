package sim

import (
	"math"
	"time"
)

// DistributionType selects the probability distribution a profile samples
// its daily base modifier from.
type DistributionType string

const (
	DistNormal      DistributionType = "normal"
	DistUniform     DistributionType = "uniform"
	DistBeta        DistributionType = "beta"
	DistExponential DistributionType = "exponential"
)

// Scenario names a preset variance profile.
type Scenario string

const (
	ScenarioConsistent Scenario = "consistent"
	ScenarioVolatile   Scenario = "volatile"
	ScenarioDeclining  Scenario = "declining"
	ScenarioImproving  Scenario = "improving"
	ScenarioCyclical   Scenario = "cyclical"
	ScenarioShock      Scenario = "shock"
	ScenarioCustom     Scenario = "custom"
)

// FactorCategory classifies a variance factor by its origin.
type FactorCategory string

const (
	CategoryEnvironmental FactorCategory = "environmental"
	CategoryEquipment     FactorCategory = "equipment"
	CategoryTraining      FactorCategory = "training"
	CategoryStaffing      FactorCategory = "staffing"
	CategoryWorkload      FactorCategory = "workload"
	CategoryTemporal      FactorCategory = "temporal"
	CategoryExternal      FactorCategory = "external"
)

// LearningCurve configures the logistic productivity ramp. Level moves from
// StartLevel to PlateauLevel over roughly PlateauWeeks weeks.
type LearningCurve struct {
	Enabled      bool    `json:"enabled"`
	Rate         float64 `json:"rate"`
	PlateauWeeks int     `json:"plateau_weeks"`
	StartLevel   float64 `json:"start_level"`
	PlateauLevel float64 `json:"plateau_level"`
}

// VarianceProfile is the immutable configuration of a productivity variance
// run. The engine never mutates a profile after the run starts.
type VarianceProfile struct {
	MeanModifier    float64          `json:"mean_modifier"`
	StdDeviation    float64          `json:"std_deviation"`
	MinModifier     float64          `json:"min_modifier"`
	MaxModifier     float64          `json:"max_modifier"`
	Distribution    DistributionType `json:"distribution_type"`
	Autocorrelation float64          `json:"autocorrelation"`

	// Shape parameters for the beta and exponential distributions. Zero
	// values fall back to the defaults applied by normalize().
	BetaAlpha       float64 `json:"beta_alpha,omitempty"`
	BetaBeta        float64 `json:"beta_beta,omitempty"`
	ExponentialRate float64 `json:"exponential_rate,omitempty"`

	// DriftPerDay applies a deterministic multiplicative trend of
	// (1 + drift*day) to the sampled level. Negative values decline.
	DriftPerDay float64 `json:"drift_per_day,omitempty"`

	Learning LearningCurve `json:"learning_curve"`

	// Temporal impact maps. Missing keys default to a 1.0 multiplier.
	HourImpact    map[int]float64          `json:"time_of_day_impact,omitempty"`
	WeekdayImpact map[time.Weekday]float64 `json:"day_of_week_impact,omitempty"`
	MonthImpact   map[time.Month]float64   `json:"seasonal_impact,omitempty"`
}

// VarianceFactor is a named discrete event that can fire on any simulated
// day. When it fires, its magnitude is added to the day's aggregate
// modifier delta.
type VarianceFactor struct {
	Name            string         `json:"name"`
	Category        FactorCategory `json:"category"`
	ImpactMagnitude float64        `json:"impact_magnitude"`
	Probability     float64        `json:"probability"`
	DurationHours   int            `json:"duration_hours"`
}

// ShockEvent is a scheduled one-off disruption applied on an exact date.
type ShockEvent struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Name   string  `json:"name,omitempty"`
	Impact float64 `json:"impact"`
}

// normalize fills zero-valued optional parameters with their defaults.
func (p *VarianceProfile) normalize() {
	if p.Distribution == "" {
		p.Distribution = DistNormal
	}
	if p.MeanModifier == 0 {
		p.MeanModifier = 1.0
	}
	if p.MinModifier == 0 && p.MaxModifier == 0 {
		p.MinModifier = 0.7
		p.MaxModifier = 1.3
	}
	if p.BetaAlpha == 0 {
		p.BetaAlpha = 2.0
	}
	if p.BetaBeta == 0 {
		p.BetaBeta = 2.0
	}
	if p.ExponentialRate == 0 {
		p.ExponentialRate = 1.0
	}
	if p.Learning.Enabled {
		if p.Learning.StartLevel == 0 {
			p.Learning.StartLevel = 1.0
		}
		if p.Learning.PlateauLevel == 0 {
			p.Learning.PlateauLevel = 1.2
		}
		if p.Learning.PlateauWeeks == 0 {
			p.Learning.PlateauWeeks = 12
		}
		if p.Learning.Rate == 0 {
			p.Learning.Rate = 0.001
		}
	}
}

// Validate checks the profile for internal consistency. It runs before any
// sampling so a bad configuration can never produce a partial series.
func (p *VarianceProfile) Validate() error {
	switch p.Distribution {
	case DistNormal, DistUniform, DistBeta, DistExponential:
	default:
		return configErr("distribution_type", "unknown distribution %q", p.Distribution)
	}
	if p.MinModifier <= 0 {
		return configErr("min_modifier", "must be > 0, got %g", p.MinModifier)
	}
	if p.MinModifier > p.MaxModifier {
		return configErr("min_modifier", "min %g exceeds max %g", p.MinModifier, p.MaxModifier)
	}
	if p.StdDeviation < 0 {
		return configErr("std_deviation", "must be >= 0, got %g", p.StdDeviation)
	}
	if p.Autocorrelation < 0 || p.Autocorrelation >= 1 {
		return configErr("autocorrelation", "must be in [0, 1), got %g", p.Autocorrelation)
	}
	if p.Distribution == DistBeta && (p.BetaAlpha <= 0 || p.BetaBeta <= 0) {
		return configErr("beta_alpha", "shape parameters must be > 0, got alpha=%g beta=%g", p.BetaAlpha, p.BetaBeta)
	}
	if p.Distribution == DistExponential && p.ExponentialRate <= 0 {
		return configErr("exponential_rate", "must be > 0, got %g", p.ExponentialRate)
	}
	if math.IsNaN(p.DriftPerDay) || math.IsInf(p.DriftPerDay, 0) {
		return configErr("drift_per_day", "must be finite")
	}
	if p.Learning.Enabled {
		if p.Learning.Rate < 0 {
			return configErr("learning_curve.rate", "must be >= 0, got %g", p.Learning.Rate)
		}
		if p.Learning.PlateauWeeks < 1 {
			return configErr("learning_curve.plateau_weeks", "must be >= 1, got %d", p.Learning.PlateauWeeks)
		}
	}
	for hour := range p.HourImpact {
		if hour < 0 || hour > 23 {
			return configErr("time_of_day_impact", "hour %d out of range", hour)
		}
	}
	return nil
}

func (f *VarianceFactor) validate(idx int) error {
	if f.Name == "" {
		return configErr("variance_factors", "factor %d has no name", idx)
	}
	if f.ImpactMagnitude < -1 || f.ImpactMagnitude > 1 {
		return configErr("variance_factors", "factor %q magnitude %g outside [-1, 1]", f.Name, f.ImpactMagnitude)
	}
	if f.Probability < 0 || f.Probability > 1 {
		return configErr("variance_factors", "factor %q probability %g outside [0, 1]", f.Name, f.Probability)
	}
	if f.DurationHours < 1 {
		return configErr("variance_factors", "factor %q duration %dh must be >= 1", f.Name, f.DurationHours)
	}
	return nil
}

// PresetProfile resolves a scenario name to its fixed profile and default
// factor set. ScenarioCustom returns an error: custom runs must supply an
// explicit profile.
func PresetProfile(s Scenario) (VarianceProfile, []VarianceFactor, error) {
	var p VarianceProfile
	var factors []VarianceFactor

	switch s {
	case ScenarioConsistent:
		p = VarianceProfile{MeanModifier: 1.0, StdDeviation: 0.05, MinModifier: 0.90, MaxModifier: 1.10, Autocorrelation: 0.7}
	case ScenarioVolatile:
		p = VarianceProfile{MeanModifier: 1.0, StdDeviation: 0.25, MinModifier: 0.60, MaxModifier: 1.40, Autocorrelation: 0.3}
	case ScenarioDeclining:
		p = VarianceProfile{MeanModifier: 1.0, StdDeviation: 0.10, MinModifier: 0.70, MaxModifier: 1.10, DriftPerDay: -0.01}
	case ScenarioImproving:
		p = VarianceProfile{
			MeanModifier: 0.9, StdDeviation: 0.10, MinModifier: 0.80, MaxModifier: 1.20,
			Learning: LearningCurve{Enabled: true, Rate: 0.005},
		}
	case ScenarioCyclical:
		p = VarianceProfile{
			MeanModifier: 1.0, StdDeviation: 0.10, MinModifier: 0.85, MaxModifier: 1.15,
			WeekdayImpact: map[time.Weekday]float64{
				time.Monday:    0.90,
				time.Tuesday:   0.95,
				time.Wednesday: 1.00,
				time.Thursday:  1.05,
				time.Friday:    1.10,
				time.Saturday:  0.85,
				time.Sunday:    0.80,
			},
		}
	case ScenarioShock:
		p = VarianceProfile{MeanModifier: 1.0, StdDeviation: 0.15, MinModifier: 0.50, MaxModifier: 1.20, Autocorrelation: 0.5}
		factors = []VarianceFactor{
			{Name: "Disruption Shock", Category: CategoryExternal, ImpactMagnitude: -0.25, Probability: 0.07, DurationHours: 24},
			{Name: "Demand Windfall", Category: CategoryWorkload, ImpactMagnitude: 0.20, Probability: 0.03, DurationHours: 24},
		}
	default:
		return VarianceProfile{}, nil, configErr("variance_scenario", "unknown scenario %q", s)
	}

	p.normalize()
	return p, factors, nil
}

// CommonFactors returns the stock factor library: typical disruptions with
// their historical magnitudes and daily trigger probabilities.
func CommonFactors() []VarianceFactor {
	return []VarianceFactor{
		{Name: "Equipment Downtime", Category: CategoryEquipment, ImpactMagnitude: -0.30, Probability: 0.05, DurationHours: 2},
		{Name: "Peak Fatigue", Category: CategoryTemporal, ImpactMagnitude: -0.15, Probability: 0.20, DurationHours: 4},
		{Name: "Training Session", Category: CategoryTraining, ImpactMagnitude: -0.25, Probability: 0.03, DurationHours: 8},
		{Name: "Process Improvement", Category: CategoryWorkload, ImpactMagnitude: 0.15, Probability: 0.10, DurationHours: 24},
	}
}
