package sim

import (
	"math"
	"math/rand"
)

// Sampler draws daily base modifiers from the profile's configured
// distribution. It owns no state beyond the rng, which the caller seeds;
// two samplers built from the same seed produce identical streams.
type Sampler struct {
	profile *VarianceProfile
	rng     *rand.Rand
}

// NewSampler binds a validated profile to a seeded rng. The profile must
// have passed Validate(); unknown distributions are rejected there, not here.
func NewSampler(p *VarianceProfile, rng *rand.Rand) *Sampler {
	return &Sampler{profile: p, rng: rng}
}

// Sample produces one draw. Out-of-range normal draws are clipped to the
// bound rather than redrawn, so the number of rng consumptions per day is
// fixed and the series stays length-deterministic.
func (s *Sampler) Sample() float64 {
	p := s.profile
	switch p.Distribution {
	case DistUniform:
		return p.MinModifier + s.rng.Float64()*(p.MaxModifier-p.MinModifier)
	case DistBeta:
		b := s.betaSample(p.BetaAlpha, p.BetaBeta)
		return p.MinModifier + b*(p.MaxModifier-p.MinModifier)
	case DistExponential:
		return clamp(p.MinModifier+s.rng.ExpFloat64()/p.ExponentialRate, p.MinModifier, p.MaxModifier)
	default: // DistNormal
		v := p.MeanModifier + p.StdDeviation*s.rng.NormFloat64()
		return clamp(v, p.MinModifier, p.MaxModifier)
	}
}

// betaSample draws Beta(alpha, beta) on (0,1) from a pair of gamma draws.
func (s *Sampler) betaSample(alpha, beta float64) float64 {
	g1 := s.gammaSample(alpha)
	g2 := s.gammaSample(beta)
	if g1+g2 == 0 {
		return 0.5
	}
	return g1 / (g1 + g2)
}

// gammaSample draws Gamma(shape, 1) via Marsaglia-Tsang squeeze. Shapes
// below 1 use the boosting identity Gamma(a) = Gamma(a+1) * U^(1/a).
func (s *Sampler) gammaSample(shape float64) float64 {
	if shape < 1 {
		u := s.rng.Float64()
		return s.gammaSample(shape+1) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9.0*d)
	for {
		x := s.rng.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := s.rng.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
