package mcp

import (
	"github.com/google/jsonschema-go/jsonschema"
)

func (s *Server) listTools() interface{} {
	return map[string]interface{}{
		"tools": []interface{}{
			map[string]interface{}{
				"name": "simulate_productivity_variance",
				"description": "Simulate day-by-day workforce productivity over a date range. Produces a modifier series with " +
					"autocorrelation, temporal patterns, random disruption factors and scheduled shocks, plus staffing impact, " +
					"risk metrics and confidence intervals. Use a preset scenario or pass a custom profile.",
				"inputSchema": &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"organization_id": {Type: "string", Description: "Identifier echoed back in the result"},
						"start_date":      {Type: "string", Description: "Simulation start (YYYY-MM-DD)"},
						"end_date":        {Type: "string", Description: "Simulation end, inclusive (YYYY-MM-DD)"},
						"variance_scenario": {
							Type:        "string",
							Enum:        []any{"consistent", "volatile", "declining", "improving", "cyclical", "shock", "custom"},
							Description: "Preset scenario; 'custom' requires a profile",
						},
						"profile": {
							Type:        "object",
							Description: "Custom variance profile overriding the scenario preset (mean_modifier, std_deviation, min/max_modifier, distribution_type, autocorrelation, drift_per_day, learning_curve, hour/weekday/month impact maps)",
						},
						"baseline_units_per_hour": {Type: "number", Description: "Expected throughput per person-hour at modifier 1.0"},
						"baseline_staff_needed":   {Type: "integer", Description: "Staff headcount at modifier 1.0"},
						"confidence_level":        {Type: "number", Description: "Confidence level for interval estimates, default 0.95"},
						"seed":                    {Type: "integer", Description: "Optional seed for reproducible runs"},
						"variance_factors": {
							Type:        "array",
							Items:       &jsonschema.Schema{Type: "object"},
							Description: "Extra disruption factors appended to the preset's factor set (name, category, impact_magnitude, probability, duration_hours)",
						},
						"shock_events": {
							Type:        "array",
							Items:       &jsonschema.Schema{Type: "object"},
							Description: "Scheduled one-off impacts: {date: YYYY-MM-DD, name, impact}",
						},
					},
					Required: []string{"start_date", "end_date", "baseline_units_per_hour", "baseline_staff_needed"},
				},
			},
			map[string]interface{}{
				"name": "simulate_backlog_propagation",
				"description": "Simulate backlog evolution over a horizon: daily arrivals, capacity-bound resolution, ordered " +
					"propagation rules (first match wins), overflow handling, SLA breaches, age distribution and recovery estimates. " +
					"Optionally couple a productivity modifier series into daily capacity.",
				"inputSchema": &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"organization_id":       {Type: "string", Description: "Identifier echoed back in the result"},
						"initial_backlog_count": {Type: "integer", Description: "Items in the backlog at day 0"},
						"daily_demand_count":    {Type: "integer", Description: "New items arriving per day"},
						"daily_capacity_hours":  {Type: "number", Description: "Total working hours available per day"},
						"horizon_days":          {Type: "integer", Description: "Number of days to simulate"},
						"profile": {
							Type:        "object",
							Description: "Propagation profile (propagation_rate, decay_rate, max_backlog_capacity, overflow_strategy, aging, SLA thresholds, avg_effort_hours_per_item)",
						},
						"rules": {
							Type:        "array",
							Items:       &jsonschema.Schema{Type: "object"},
							Description: "Propagation rules evaluated in execution_order; the first matching rule per item per day wins (condition_type, action_type, execution_order, threshold, utilization_pct, defer_days)",
						},
						"productivity_modifiers": {
							Type:        "array",
							Items:       &jsonschema.Schema{Type: "number"},
							Description: "Optional per-day capacity modifiers, length must equal horizon_days",
						},
						"seed": {Type: "integer", Description: "Optional seed for reproducible runs"},
					},
					Required: []string{"initial_backlog_count", "daily_demand_count", "daily_capacity_hours", "horizon_days"},
				},
			},
			map[string]interface{}{
				"name": "run_monte_carlo_batch",
				"description": "Run many independent repetitions of a productivity variance simulation and describe the spread of " +
					"per-run means. Run i uses seed base_seed + i, so batches are reproducible. Accepts the same arguments as " +
					"simulate_productivity_variance plus monte_carlo_runs.",
				"inputSchema": &jsonschema.Schema{
					Type: "object",
					Properties: map[string]*jsonschema.Schema{
						"organization_id":         {Type: "string"},
						"start_date":              {Type: "string", Description: "Simulation start (YYYY-MM-DD)"},
						"end_date":                {Type: "string", Description: "Simulation end, inclusive (YYYY-MM-DD)"},
						"variance_scenario":       {Type: "string", Enum: []any{"consistent", "volatile", "declining", "improving", "cyclical", "shock", "custom"}},
						"profile":                 {Type: "object", Description: "Custom variance profile for scenario 'custom'"},
						"baseline_units_per_hour": {Type: "number"},
						"baseline_staff_needed":   {Type: "integer"},
						"monte_carlo_runs":        {Type: "integer", Description: "Number of repetitions, default 100"},
						"confidence_level":        {Type: "number", Description: "Confidence level for the batch mean interval, default 0.95"},
						"seed":                    {Type: "integer", Description: "Base seed; run i derives base + i"},
					},
					Required: []string{"start_date", "end_date", "baseline_units_per_hour", "baseline_staff_needed"},
				},
			},
			map[string]interface{}{
				"name":        "list_variance_presets",
				"description": "List the built-in variance scenarios with their profile parameters and default disruption factors.",
				"inputSchema": &jsonschema.Schema{
					Type:       "object",
					Properties: map[string]*jsonschema.Schema{},
				},
			},
		},
	}
}
