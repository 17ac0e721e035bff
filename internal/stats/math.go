package stats

import (
	"math"
	"slices"
)

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median finds the median value in a slice of floats.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	// Work on a copy to avoid mutating the original
	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	n := len(temp)
	if n%2 == 1 {
		return temp[n/2]
	}
	return (temp[n/2-1] + temp[n/2]) / 2.0
}

// StdDev returns the population standard deviation.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := Mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// Percentile returns the p-th percentile (0-100) by sorted index.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	// Round to the nearest rank; truncation would misplace percentiles
	// whose fraction is binary-inexact (e.g. (1-0.80)*50).
	idx := int(math.Round(float64(len(temp)) * p / 100.0))
	if idx >= len(temp) {
		idx = len(temp) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return temp[idx]
}

// Diffs returns the day-over-day differences of a series. An input of
// length n yields n-1 differences.
func Diffs(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	out := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		out[i-1] = values[i] - values[i-1]
	}
	return out
}

// Summary is a standard descriptive block for a series.
type Summary struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P25    float64 `json:"percentile_25"`
	P75    float64 `json:"percentile_75"`
	P90    float64 `json:"percentile_90"`
}

// Describe computes the full descriptive block in one pass over sorted data.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	temp := make([]float64, len(values))
	copy(temp, values)
	slices.Sort(temp)

	return Summary{
		Mean:   Mean(temp),
		Median: Median(temp),
		StdDev: StdDev(temp),
		Min:    temp[0],
		Max:    temp[len(temp)-1],
		P25:    Percentile(temp, 25),
		P75:    Percentile(temp, 75),
		P90:    Percentile(temp, 90),
	}
}

// Interval is a two-sided confidence bound.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// ConfidenceInterval returns the empirical central interval at the given
// confidence level (e.g. 0.95 keeps the middle 95% of the sample).
func ConfidenceInterval(values []float64, level float64) Interval {
	tail := (1 - level) * 50
	return Interval{
		Lower: Percentile(values, tail),
		Upper: Percentile(values, 100-tail),
	}
}
