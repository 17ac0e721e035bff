package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wfsim/internal/metrics"
	"wfsim/internal/sim"

	"github.com/rs/zerolog/log"
)

func (s *Server) handleSimulateVariance(args map[string]interface{}) (interface{}, error) {
	req, err := s.varianceRequestFromArgs(args)
	if err != nil {
		metrics.SimulationRunsTotal.WithLabelValues("variance", "config_error").Inc()
		return nil, err
	}

	engine, err := sim.NewVarianceEngine(req)
	if err != nil {
		metrics.SimulationRunsTotal.WithLabelValues("variance", "config_error").Inc()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunBudget)
	defer cancel()

	start := time.Now()
	res, err := engine.Run(ctx)
	metrics.SimulationDurationSeconds.WithLabelValues("variance").Observe(time.Since(start).Seconds())
	if err != nil {
		recordFailure("variance", err)
		return nil, err
	}

	metrics.SimulationRunsTotal.WithLabelValues("variance", "ok").Inc()
	metrics.SimulationDaysSimulated.Observe(float64(res.TotalDays))
	log.Info().
		Str("scenario", string(res.Scenario)).
		Int("days", res.TotalDays).
		Int64("seed", res.SeedUsed).
		Msg("Productivity variance simulation completed")
	return res, nil
}

func (s *Server) handleSimulateBacklog(args map[string]interface{}) (interface{}, error) {
	req := &sim.BacklogRequest{
		OrganizationID:      asString(args["organization_id"]),
		InitialBacklogCount: asInt(args["initial_backlog_count"]),
		DailyDemandCount:    asInt(args["daily_demand_count"]),
		DailyCapacityHours:  asFloat(args["daily_capacity_hours"]),
		HorizonDays:         asInt(args["horizon_days"]),
	}
	if req.HorizonDays > s.cfg.MaxHorizonDays {
		return nil, fmt.Errorf("horizon_days %d exceeds the configured maximum of %d", req.HorizonDays, s.cfg.MaxHorizonDays)
	}
	if v, ok := args["profile"]; ok {
		if err := decodeInto(v, &req.Profile); err != nil {
			return nil, fmt.Errorf("invalid profile: %w", err)
		}
	}
	if v, ok := args["rules"]; ok {
		if err := decodeInto(v, &req.Rules); err != nil {
			return nil, fmt.Errorf("invalid rules: %w", err)
		}
	}
	if v, ok := args["productivity_modifiers"]; ok {
		if err := decodeInto(v, &req.ProductivityModifiers); err != nil {
			return nil, fmt.Errorf("invalid productivity_modifiers: %w", err)
		}
	}
	if v, ok := args["seed"]; ok {
		seed := int64(asInt(v))
		req.Seed = &seed
	}

	engine, err := sim.NewBacklogEngine(req)
	if err != nil {
		metrics.SimulationRunsTotal.WithLabelValues("backlog", "config_error").Inc()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunBudget)
	defer cancel()

	start := time.Now()
	res, err := engine.Run(ctx)
	metrics.SimulationDurationSeconds.WithLabelValues("backlog").Observe(time.Since(start).Seconds())
	if err != nil {
		recordFailure("backlog", err)
		return nil, err
	}

	metrics.SimulationRunsTotal.WithLabelValues("backlog", "ok").Inc()
	metrics.SimulationDaysSimulated.Observe(float64(req.HorizonDays))
	log.Info().
		Int("horizonDays", req.HorizonDays).
		Int("finalBacklog", res.Summary.FinalBacklogSize).
		Msg("Backlog propagation simulation completed")
	return res, nil
}

func (s *Server) handleMonteCarloBatch(args map[string]interface{}) (interface{}, error) {
	req, err := s.varianceRequestFromArgs(args)
	if err != nil {
		metrics.SimulationRunsTotal.WithLabelValues("batch", "config_error").Inc()
		return nil, err
	}
	req.MonteCarloRuns = asInt(args["monte_carlo_runs"])
	if req.MonteCarloRuns == 0 {
		req.MonteCarloRuns = 100
	}
	if req.MonteCarloRuns > s.cfg.MaxMonteCarloRuns {
		return nil, fmt.Errorf("monte_carlo_runs %d exceeds the configured maximum of %d", req.MonteCarloRuns, s.cfg.MaxMonteCarloRuns)
	}

	// The whole batch shares one budget: a single stuck run must not let
	// the batch hold the transport open indefinitely.
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.RunBudget)
	defer cancel()

	start := time.Now()
	res, err := sim.RunVarianceBatch(ctx, req, s.cfg.MonteCarloWorkers)
	metrics.SimulationDurationSeconds.WithLabelValues("batch").Observe(time.Since(start).Seconds())
	if err != nil {
		recordFailure("batch", err)
		return nil, err
	}

	metrics.SimulationRunsTotal.WithLabelValues("batch", "ok").Inc()
	metrics.MonteCarloRunsPerBatch.Observe(float64(res.Runs))
	log.Info().
		Int("runs", res.Runs).
		Int64("baseSeed", res.BaseSeed).
		Float64("meanOfMeans", res.MeanDistribution.Mean).
		Msg("Monte Carlo batch completed")
	return res, nil
}

func (s *Server) handleListPresets() (interface{}, error) {
	scenarios := []sim.Scenario{
		sim.ScenarioConsistent,
		sim.ScenarioVolatile,
		sim.ScenarioDeclining,
		sim.ScenarioImproving,
		sim.ScenarioCyclical,
		sim.ScenarioShock,
	}

	presets := make([]map[string]interface{}, 0, len(scenarios))
	for _, sc := range scenarios {
		profile, factors, err := sim.PresetProfile(sc)
		if err != nil {
			return nil, err
		}
		presets = append(presets, map[string]interface{}{
			"scenario": sc,
			"profile":  profile,
			"factors":  factors,
		})
	}

	return map[string]interface{}{
		"presets":        presets,
		"common_factors": sim.CommonFactors(),
	}, nil
}

func (s *Server) varianceRequestFromArgs(args map[string]interface{}) (*sim.VarianceRequest, error) {
	startDate, err := parseDate(asString(args["start_date"]))
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	endDate, err := parseDate(asString(args["end_date"]))
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}
	if days := int(endDate.Sub(startDate).Hours()/24) + 1; days > s.cfg.MaxHorizonDays {
		return nil, fmt.Errorf("date range spans %d days, exceeding the configured maximum of %d", days, s.cfg.MaxHorizonDays)
	}

	req := &sim.VarianceRequest{
		OrganizationID:       asString(args["organization_id"]),
		StartDate:            startDate,
		EndDate:              endDate,
		Scenario:             sim.Scenario(asString(args["variance_scenario"])),
		BaselineUnitsPerHour: asFloat(args["baseline_units_per_hour"]),
		BaselineStaffNeeded:  asInt(args["baseline_staff_needed"]),
		ConfidenceLevel:      asFloat(args["confidence_level"]),
	}

	if v, ok := args["profile"]; ok {
		var p sim.VarianceProfile
		if err := decodeInto(v, &p); err != nil {
			return nil, fmt.Errorf("invalid profile: %w", err)
		}
		req.Profile = &p
	}
	if v, ok := args["variance_factors"]; ok {
		if err := decodeInto(v, &req.Factors); err != nil {
			return nil, fmt.Errorf("invalid variance_factors: %w", err)
		}
	}
	if v, ok := args["shock_events"]; ok {
		if err := decodeInto(v, &req.ShockEvents); err != nil {
			return nil, fmt.Errorf("invalid shock_events: %w", err)
		}
	}
	if v, ok := args["seed"]; ok {
		seed := int64(asInt(v))
		req.Seed = &seed
	}

	return req, nil
}

// recordFailure classifies a run error into the runs counter and bumps
// the budget-abort counter when the run budget expired.
func recordFailure(engine string, err error) {
	outcome := "error"
	if errors.Is(err, sim.ErrBudgetExceeded) {
		outcome = "budget_exceeded"
		metrics.BudgetAbortsTotal.Inc()
	} else {
		var cfgErr *sim.ConfigError
		if errors.As(err, &cfgErr) {
			outcome = "config_error"
		}
	}
	metrics.SimulationRunsTotal.WithLabelValues(engine, outcome).Inc()
}
