package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxHorizonDays != 730 {
		t.Errorf("MaxHorizonDays = %d, want 730", cfg.MaxHorizonDays)
	}
	if cfg.MaxMonteCarloRuns != 1000 {
		t.Errorf("MaxMonteCarloRuns = %d, want 1000", cfg.MaxMonteCarloRuns)
	}
	if cfg.MonteCarloWorkers != 8 {
		t.Errorf("MonteCarloWorkers = %d, want 8", cfg.MonteCarloWorkers)
	}
	if cfg.RunBudget != 30*time.Second {
		t.Errorf("RunBudget = %v, want 30s", cfg.RunBudget)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_PATH", t.TempDir())
	t.Setenv("MAX_HORIZON_DAYS", "365")
	t.Setenv("MONTE_CARLO_WORKERS", "4")
	t.Setenv("SIMULATION_RUN_BUDGET_SECONDS", "5")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxHorizonDays != 365 {
		t.Errorf("MaxHorizonDays = %d, want 365", cfg.MaxHorizonDays)
	}
	if cfg.MonteCarloWorkers != 4 {
		t.Errorf("MonteCarloWorkers = %d, want 4", cfg.MonteCarloWorkers)
	}
	if cfg.RunBudget != 5*time.Second {
		t.Errorf("RunBudget = %v, want 5s", cfg.RunBudget)
	}
}

func TestGetEnvIntRejectsGarbage(t *testing.T) {
	t.Setenv("MAX_HORIZON_DAYS", "not-a-number")
	if got := getEnvInt("MAX_HORIZON_DAYS", 730); got != 730 {
		t.Errorf("getEnvInt = %d, want fallback 730", got)
	}
	t.Setenv("MAX_HORIZON_DAYS", "-5")
	if got := getEnvInt("MAX_HORIZON_DAYS", 730); got != 730 {
		t.Errorf("getEnvInt = %d, want fallback 730 for negative value", got)
	}
}
