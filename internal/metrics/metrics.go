// Package metrics provides Prometheus observability metrics for the
// simulation service: run counts, run durations, and budget aborts.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for the service.
var Registry = prometheus.NewRegistry()

// factory registers metrics on the custom Registry directly.
var factory = promauto.With(Registry)

// SimulationRunsTotal counts completed simulation runs by engine
// ("variance", "backlog", "batch") and outcome ("ok", "config_error",
// "budget_exceeded", "error").
var SimulationRunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "wfsim",
	Name:      "simulation_runs_total",
	Help:      "Completed simulation runs by engine and outcome",
}, []string{"engine", "outcome"})

// SimulationDurationSeconds tracks wall time per simulation run by engine.
var SimulationDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "wfsim",
	Name:      "simulation_duration_seconds",
	Help:      "Time taken per simulation run",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
}, []string{"engine"})

// SimulationDaysSimulated tracks horizon lengths per run.
var SimulationDaysSimulated = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "wfsim",
	Name:      "days_simulated",
	Help:      "Horizon length in days per simulation run",
	Buckets:   []float64{7, 14, 30, 60, 90, 180, 365},
})

// MonteCarloRunsPerBatch tracks repetition counts per batch request.
var MonteCarloRunsPerBatch = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "wfsim",
	Name:      "monte_carlo_runs_per_batch",
	Help:      "Number of Monte Carlo repetitions per batch request",
	Buckets:   []float64{1, 10, 25, 50, 100, 250, 500, 1000},
})

// BudgetAbortsTotal counts runs discarded because the run budget expired.
var BudgetAbortsTotal = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "wfsim",
	Name:      "budget_aborts_total",
	Help:      "Simulation runs discarded because the per-run time budget expired",
})

// ToolCallsTotal counts JSON-RPC tool invocations by tool name.
var ToolCallsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "wfsim",
	Name:      "tool_calls_total",
	Help:      "Tool invocations received over the stdio transport",
}, []string{"tool"})
