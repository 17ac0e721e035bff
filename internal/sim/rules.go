package sim

import "sort"

// RuleCondition tags what a propagation rule inspects.
type RuleCondition string

const (
	CondAge         RuleCondition = "age"
	CondOverflow    RuleCondition = "overflow"
	CondSLAApproach RuleCondition = "sla_approach"
	CondNewItem     RuleCondition = "new_item"
	CondBacklogSize RuleCondition = "backlog_size"
)

// RuleAction tags what a matched rule does to an item.
type RuleAction string

const (
	ActionPriorityUpgrade RuleAction = "priority_upgrade"
	ActionDefer           RuleAction = "defer"
	ActionReject          RuleAction = "reject"
	ActionEscalate        RuleAction = "escalate"
	ActionOutsource       RuleAction = "outsource"
)

// PropagationRule is an ordered conditional action. Rules are evaluated
// once per day in execution order; the first rule to act on an item wins
// that day, and past days are never re-evaluated.
type PropagationRule struct {
	Name           string        `json:"name,omitempty"`
	Condition      RuleCondition `json:"condition_type"`
	Action         RuleAction    `json:"action_type"`
	ExecutionOrder int           `json:"execution_order"`

	// Threshold is condition-specific: days for age, days-before-breach
	// for sla_approach, absolute item count for backlog_size.
	Threshold float64 `json:"threshold,omitempty"`

	// UtilizationPct triggers backlog_size rules at a percentage of
	// max_backlog_capacity instead of an absolute count. Percentage
	// fields must stay within [0, 100].
	UtilizationPct float64 `json:"utilization_pct,omitempty"`

	// DeferDays sets how long a defer action parks an item (default 7).
	DeferDays int `json:"defer_days,omitempty"`
}

func (r *PropagationRule) validate(idx int) error {
	switch r.Condition {
	case CondAge, CondOverflow, CondSLAApproach, CondNewItem, CondBacklogSize:
	default:
		return configErr("rules", "rule %d has unknown condition %q", idx, r.Condition)
	}
	switch r.Action {
	case ActionPriorityUpgrade, ActionDefer, ActionReject, ActionEscalate, ActionOutsource:
	default:
		return configErr("rules", "rule %d has unknown action %q", idx, r.Action)
	}
	if r.Threshold < 0 {
		return configErr("rules", "rule %d threshold %g must be >= 0", idx, r.Threshold)
	}
	if r.UtilizationPct < 0 || r.UtilizationPct > 100 {
		return configErr("rules", "rule %d utilization_pct %g outside [0, 100]", idx, r.UtilizationPct)
	}
	if r.DeferDays < 0 {
		return configErr("rules", "rule %d defer_days %d must be >= 0", idx, r.DeferDays)
	}
	return nil
}

// sortRules validates and orders the rule list once per run. Evaluation
// afterwards is a single linear scan per day.
func sortRules(rules []PropagationRule) ([]PropagationRule, error) {
	for i := range rules {
		if err := rules[i].validate(i); err != nil {
			return nil, err
		}
	}
	sorted := make([]PropagationRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ExecutionOrder < sorted[j].ExecutionOrder
	})
	return sorted, nil
}
