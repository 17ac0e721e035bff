package sim

import "math/rand"

// DecayFunc maps the hours a factor spills past midnight to the fraction
// of its magnitude applied on the following day.
type DecayFunc func(remainingHours float64) float64

// LinearDecay is the default carry-over shape: remaining hours as a
// fraction of a full day, capped at the full magnitude.
func LinearDecay(remainingHours float64) float64 {
	if remainingHours <= 0 {
		return 0
	}
	if remainingHours >= 24 {
		return 1
	}
	return remainingHours / 24
}

// FactorEngine evaluates discrete variance factors day by day. Each day,
// every factor is an independent Bernoulli trial; fired magnitudes sum.
// A factor whose duration spills past midnight carries a decayed partial
// effect into the next day - the only cross-day coupling besides
// autocorrelation.
type FactorEngine struct {
	factors []VarianceFactor
	rng     *rand.Rand
	decay   DecayFunc

	carryDelta float64
	carryNames []string
}

// NewFactorEngine validates the factor list up front (fail fast, before
// any trials run) and binds it to the run's rng.
func NewFactorEngine(factors []VarianceFactor, rng *rand.Rand) (*FactorEngine, error) {
	for i := range factors {
		if err := factors[i].validate(i); err != nil {
			return nil, err
		}
	}
	return &FactorEngine{factors: factors, rng: rng, decay: LinearDecay}, nil
}

// SetDecay overrides the carry-over decay shape. The exact decay function
// is deliberately pluggable; the default is linear.
func (e *FactorEngine) SetDecay(d DecayFunc) {
	if d != nil {
		e.decay = d
	}
}

// Step evaluates all factors for one simulated day and returns the
// aggregate additive delta plus the names of factors that contributed.
// Carried-over effects from the previous day are applied first.
func (e *FactorEngine) Step() (float64, []string) {
	delta := e.carryDelta
	var names []string
	names = append(names, e.carryNames...)
	e.carryDelta = 0
	e.carryNames = nil

	for i := range e.factors {
		f := &e.factors[i]
		if e.rng.Float64() >= f.Probability {
			continue
		}

		delta += f.ImpactMagnitude
		names = append(names, f.Name)

		// The fire hour is drawn so a long factor can span midnight even
		// at daily resolution. Spill hours decay into tomorrow's delta.
		startHour := e.rng.Float64() * 24
		remaining := startHour + float64(f.DurationHours) - 24
		if remaining > 0 {
			e.carryDelta += f.ImpactMagnitude * e.decay(remaining)
			e.carryNames = append(e.carryNames, f.Name+" (carry-over)")
		}
	}

	return delta, names
}
