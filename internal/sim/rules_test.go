package sim

import (
	"errors"
	"testing"
)

func TestRuleValidation(t *testing.T) {
	tests := []struct {
		name string
		rule PropagationRule
	}{
		{"UnknownCondition", PropagationRule{Condition: "mood", Action: ActionDefer}},
		{"UnknownAction", PropagationRule{Condition: CondAge, Action: "shrug"}},
		{"NegativeThreshold", PropagationRule{Condition: CondAge, Action: ActionDefer, Threshold: -1}},
		{"UtilizationAbove100", PropagationRule{Condition: CondBacklogSize, Action: ActionReject, UtilizationPct: 150}},
		{"NegativeUtilization", PropagationRule{Condition: CondBacklogSize, Action: ActionReject, UtilizationPct: -5}},
		{"NegativeDeferDays", PropagationRule{Condition: CondAge, Action: ActionDefer, DeferDays: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sortRules([]PropagationRule{tt.rule})
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestSortRulesByExecutionOrder(t *testing.T) {
	rules := []PropagationRule{
		{Name: "third", Condition: CondAge, Action: ActionDefer, ExecutionOrder: 30},
		{Name: "first", Condition: CondAge, Action: ActionDefer, ExecutionOrder: 10},
		{Name: "second", Condition: CondAge, Action: ActionDefer, ExecutionOrder: 20},
	}

	sorted, err := sortRules(rules)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"first", "second", "third"}
	for i, name := range want {
		if sorted[i].Name != name {
			t.Errorf("position %d = %q, want %q", i, sorted[i].Name, name)
		}
	}

	// Input order is preserved, not mutated.
	if rules[0].Name != "third" {
		t.Error("sortRules mutated its input")
	}
}

func TestSortRulesStable(t *testing.T) {
	rules := []PropagationRule{
		{Name: "a", Condition: CondAge, Action: ActionDefer, ExecutionOrder: 5},
		{Name: "b", Condition: CondAge, Action: ActionReject, ExecutionOrder: 5},
	}

	sorted, err := sortRules(rules)
	if err != nil {
		t.Fatal(err)
	}
	if sorted[0].Name != "a" || sorted[1].Name != "b" {
		t.Errorf("equal orders reordered: %q, %q", sorted[0].Name, sorted[1].Name)
	}
}
