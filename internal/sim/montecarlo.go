package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"wfsim/internal/stats"
)

// RunStat is the per-run slice of a Monte Carlo batch: the aggregates of
// one independent run, without its daily series.
type RunStat struct {
	Run                int     `json:"run"`
	Seed               int64   `json:"seed"`
	MeanModifier       float64 `json:"mean_modifier"`
	MinModifier        float64 `json:"min_modifier"`
	MaxModifier        float64 `json:"max_modifier"`
	AvgStaffVariance   float64 `json:"avg_staffing_variance"`
	DaysUnderstaffed   int     `json:"days_understaffed"`
	ProbabilityBelow90 float64 `json:"probability_below_90pct"`
	Volatility         float64 `json:"volatility"`
}

// BatchResult joins K independent runs. Runs[0]'s full series is carried
// as the representative series; the batch summary describes the spread of
// run means across repetitions.
type BatchResult struct {
	Runs             int             `json:"monte_carlo_runs"`
	BaseSeed         int64           `json:"base_seed"`
	ConfidenceLevel  float64         `json:"confidence_level"`
	Representative   *VarianceResult `json:"representative_run"`
	RunStats         []RunStat       `json:"run_stats"`
	MeanDistribution stats.Summary   `json:"mean_distribution"`
	MeanInterval     stats.Interval  `json:"mean_confidence_interval"`
}

// RunVarianceBatch fans K independent repetitions of the request across a
// worker pool. Run i seeds its own rng with base_seed + i, so the batch is
// reproducible and the runs share no mutable state. Results join in run
// order regardless of completion order.
func RunVarianceBatch(ctx context.Context, req *VarianceRequest, workers int) (*BatchResult, error) {
	runs := req.MonteCarloRuns
	if runs <= 0 {
		runs = 1
	}
	if workers <= 0 {
		workers = 1
	}

	// Validate once, up front, so a bad configuration fails before any
	// worker starts rather than K times concurrently.
	if _, err := NewVarianceEngine(req); err != nil {
		return nil, err
	}

	baseSeed := deriveSeed(req.Seed)
	level := req.ConfidenceLevel
	if level == 0 {
		level = 0.95
	}

	results := make([]*VarianceResult, runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < runs; i++ {
		g.Go(func() error {
			runReq := *req
			seed := baseSeed + int64(i)
			runReq.Seed = &seed

			engine, err := NewVarianceEngine(&runReq)
			if err != nil {
				return err
			}
			res, err := engine.Run(gctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	runStats := make([]RunStat, runs)
	means := make([]float64, runs)
	for i, res := range results {
		runStats[i] = RunStat{
			Run:                i,
			Seed:               res.SeedUsed,
			MeanModifier:       res.ProductivityStats.Mean,
			MinModifier:        res.ProductivityStats.Min,
			MaxModifier:        res.ProductivityStats.Max,
			AvgStaffVariance:   res.StaffingImpact.AvgVariance,
			DaysUnderstaffed:   res.StaffingImpact.DaysUnderstaffed,
			ProbabilityBelow90: res.RiskMetrics.ProbabilityBelow90Pct,
			Volatility:         res.RiskMetrics.Volatility,
		}
		means[i] = res.ProductivityStats.Mean
	}

	return &BatchResult{
		Runs:             runs,
		BaseSeed:         baseSeed,
		ConfidenceLevel:  level,
		Representative:   results[0],
		RunStats:         runStats,
		MeanDistribution: stats.Describe(means),
		MeanInterval:     stats.ConfidenceInterval(means, level),
	}, nil
}
