package sim

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func backlogRequest(seed int64) *BacklogRequest {
	return &BacklogRequest{
		OrganizationID:      "org-test",
		InitialBacklogCount: 120,
		DailyDemandCount:    45,
		DailyCapacityHours:  40,
		HorizonDays:         4,
		Profile: PropagationProfile{
			PropagationRate:       1.0,
			AvgEffortHoursPerItem: 0.5,
		},
		Seed: &seed,
	}
}

func runBacklog(t *testing.T, req *BacklogRequest) *BacklogResult {
	t.Helper()
	engine, err := NewBacklogEngine(req)
	if err != nil {
		t.Fatal(err)
	}
	res, err := engine.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestNewBacklogEngineValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BacklogRequest)
	}{
		{"ZeroHorizon", func(r *BacklogRequest) { r.HorizonDays = 0 }},
		{"NegativeHorizon", func(r *BacklogRequest) { r.HorizonDays = -5 }},
		{"NegativeInitial", func(r *BacklogRequest) { r.InitialBacklogCount = -1 }},
		{"NegativeDemand", func(r *BacklogRequest) { r.DailyDemandCount = -1 }},
		{"NegativeCapacity", func(r *BacklogRequest) { r.DailyCapacityHours = -1 }},
		{"BadPropagationRate", func(r *BacklogRequest) { r.Profile.PropagationRate = 1.5 }},
		{"BadDecayRate", func(r *BacklogRequest) { r.Profile.DecayRate = -0.1 }},
		{"BadOverflowStrategy", func(r *BacklogRequest) { r.Profile.OverflowStrategy = "vaporize" }},
		{"ModifierLengthMismatch", func(r *BacklogRequest) {
			r.ProductivityModifiers = []float64{1.0, 1.0}
		}},
		{"BadRule", func(r *BacklogRequest) {
			r.Rules = []PropagationRule{{Condition: CondBacklogSize, Action: ActionReject, UtilizationPct: 200}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := backlogRequest(1)
			tt.mutate(req)
			_, err := NewBacklogEngine(req)
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestBacklogDrainsWhenCapacityExceedsDemand(t *testing.T) {
	res := runBacklog(t, backlogRequest(1))

	// Capacity resolves 80 items/day against 45 arrivals, so the backlog
	// drains by 35 a day from 120 until it empties.
	want := []int{85, 50, 15, 0}
	for i, snap := range res.Snapshots {
		if snap.TotalItems != want[i] {
			t.Errorf("day %d total = %d, want %d", i, snap.TotalItems, want[i])
		}
	}
	if res.Summary.FinalBacklogSize != 0 {
		t.Errorf("final backlog = %d, want 0", res.Summary.FinalBacklogSize)
	}
	if res.Summary.NetBacklogChange != -120 {
		t.Errorf("net change = %d, want -120", res.Summary.NetBacklogChange)
	}
}

func TestBacklogConservation(t *testing.T) {
	req := backlogRequest(99)
	req.HorizonDays = 30
	req.DailyCapacityHours = 10
	req.Profile = PropagationProfile{
		PropagationRate:        0.95,
		DecayRate:              0.05,
		MaxBacklogCapacity:     60,
		AgingEnabled:           true,
		AgingThresholdDays:     3,
		OverflowStrategy:       OverflowReject,
		SLABreachThresholdDays: 5,
		AvgEffortHoursPerItem:  0.5,
	}
	req.Rules = []PropagationRule{
		{Name: "escalate-old", Condition: CondAge, Action: ActionEscalate, ExecutionOrder: 1, Threshold: 4},
		{Name: "shed-near-full", Condition: CondBacklogSize, Action: ActionDefer, ExecutionOrder: 2, UtilizationPct: 80},
	}
	res := runBacklog(t, req)

	prev := req.InitialBacklogCount
	for _, snap := range res.Snapshots {
		expected := prev + snap.NewItems - snap.ItemsResolved - snap.ItemsRejected - snap.ItemsOutsourced
		if snap.TotalItems != expected {
			t.Fatalf("day %d: conservation broken: total %d, want %d (prev %d, new %d, resolved %d, rejected %d, outsourced %d)",
				snap.Day, snap.TotalItems, expected, prev, snap.NewItems, snap.ItemsResolved, snap.ItemsRejected, snap.ItemsOutsourced)
		}
		prev = snap.TotalItems
	}
}

func TestBacklogZeroCapacity(t *testing.T) {
	req := backlogRequest(3)
	req.DailyCapacityHours = 0
	req.DailyDemandCount = 10
	req.InitialBacklogCount = 20
	res := runBacklog(t, req)

	for _, snap := range res.Snapshots {
		if snap.ItemsResolved != 0 {
			t.Errorf("day %d resolved %d items with zero capacity", snap.Day, snap.ItemsResolved)
		}
		if snap.EstimatedRecoveryDays != nil {
			t.Errorf("day %d: recovery estimate %v on a growing backlog, want nil", snap.Day, *snap.EstimatedRecoveryDays)
		}
	}
	if res.Summary.AvgRecoveryDays != nil {
		t.Errorf("summary recovery = %v, want nil", *res.Summary.AvgRecoveryDays)
	}
}

func TestBacklogRecoveryEstimateWhenDraining(t *testing.T) {
	res := runBacklog(t, backlogRequest(5))

	snap := res.Snapshots[0]
	if snap.EstimatedRecoveryDays == nil {
		t.Fatal("draining backlog should carry a recovery estimate")
	}
	if *snap.EstimatedRecoveryDays <= 0 {
		t.Errorf("recovery days = %v, want > 0", *snap.EstimatedRecoveryDays)
	}
	if res.Summary.AvgRecoveryDays == nil {
		t.Error("summary should average the defined recovery estimates")
	}
}

func TestBacklogUnboundedNeverOverflows(t *testing.T) {
	req := backlogRequest(8)
	req.InitialBacklogCount = 500
	req.DailyDemandCount = 50
	req.DailyCapacityHours = 0
	req.HorizonDays = 5
	res := runBacklog(t, req)

	for _, snap := range res.Snapshots {
		if snap.OverflowCount != 0 {
			t.Errorf("day %d overflow = %d on unbounded profile", snap.Day, snap.OverflowCount)
		}
	}
}

func TestBacklogOverflowReject(t *testing.T) {
	req := backlogRequest(2)
	req.InitialBacklogCount = 400
	req.DailyDemandCount = 0
	req.DailyCapacityHours = 0
	req.HorizonDays = 1
	req.Profile.MaxBacklogCapacity = 300
	res := runBacklog(t, req)

	snap := res.Snapshots[0]
	if snap.OverflowCount != 100 {
		t.Errorf("overflow = %d, want 100", snap.OverflowCount)
	}
	if snap.ItemsRejected != 100 {
		t.Errorf("rejected = %d, want 100", snap.ItemsRejected)
	}
	if snap.TotalItems != 300 {
		t.Errorf("total = %d, want capacity cap of 300", snap.TotalItems)
	}
}

func TestBacklogOverflowDeferRetainsItems(t *testing.T) {
	req := backlogRequest(2)
	req.InitialBacklogCount = 20
	req.DailyDemandCount = 0
	req.DailyCapacityHours = 0
	req.HorizonDays = 1
	req.Profile.MaxBacklogCapacity = 10
	req.Profile.OverflowStrategy = OverflowDefer
	res := runBacklog(t, req)

	snap := res.Snapshots[0]
	if snap.TotalItems != 20 {
		t.Errorf("total = %d, deferring must not remove items", snap.TotalItems)
	}
	if snap.ItemsDeferred != 10 {
		t.Errorf("deferred = %d, want 10", snap.ItemsDeferred)
	}
	if snap.ItemsRejected != 0 {
		t.Errorf("rejected = %d, want 0", snap.ItemsRejected)
	}
}

func TestBacklogFirstMatchingRuleWins(t *testing.T) {
	req := backlogRequest(4)
	req.InitialBacklogCount = 0
	req.DailyDemandCount = 5
	req.DailyCapacityHours = 0
	req.HorizonDays = 1
	req.Rules = []PropagationRule{
		{Name: "park-new", Condition: CondNewItem, Action: ActionDefer, ExecutionOrder: 1},
		{Name: "drop-new", Condition: CondNewItem, Action: ActionReject, ExecutionOrder: 2},
	}
	res := runBacklog(t, req)

	snap := res.Snapshots[0]
	if snap.ItemsDeferred != 5 {
		t.Errorf("deferred = %d, want 5", snap.ItemsDeferred)
	}
	if snap.ItemsRejected != 0 {
		t.Errorf("rejected = %d, the lower-order defer must shield items from the reject rule", snap.ItemsRejected)
	}
	if snap.TotalItems != 5 {
		t.Errorf("total = %d, want 5", snap.TotalItems)
	}

	// Swapping execution order flips the outcome.
	req.Rules[0].ExecutionOrder, req.Rules[1].ExecutionOrder = 2, 1
	res = runBacklog(t, req)
	snap = res.Snapshots[0]
	if snap.ItemsRejected != 5 || snap.TotalItems != 0 {
		t.Errorf("after reordering: rejected = %d, total = %d, want 5 and 0", snap.ItemsRejected, snap.TotalItems)
	}
}

func TestBacklogDeferredItemsNotResolved(t *testing.T) {
	req := backlogRequest(6)
	req.InitialBacklogCount = 0
	req.DailyDemandCount = 10
	req.DailyCapacityHours = 100
	req.HorizonDays = 1
	req.Rules = []PropagationRule{
		{Name: "park-new", Condition: CondNewItem, Action: ActionDefer, ExecutionOrder: 1, DeferDays: 7},
	}
	res := runBacklog(t, req)

	snap := res.Snapshots[0]
	if snap.ItemsResolved != 0 {
		t.Errorf("resolved = %d, deferred items must sit out the capacity pool", snap.ItemsResolved)
	}
	if snap.TotalItems != 10 {
		t.Errorf("total = %d, want 10", snap.TotalItems)
	}
}

func TestBacklogPriorityAging(t *testing.T) {
	req := backlogRequest(7)
	req.InitialBacklogCount = 10
	req.DailyDemandCount = 0
	req.DailyCapacityHours = 0
	req.HorizonDays = 4
	req.Profile.AgingEnabled = true
	req.Profile.AgingThresholdDays = 2
	res := runBacklog(t, req)

	if res.Snapshots[2].ItemsAgedUp == 0 {
		t.Error("expected priority upgrades once items crossed the aging threshold")
	}
	if res.Snapshots[0].ItemsAgedUp != 0 {
		t.Errorf("day 0 aged up %d items before any aging was possible", res.Snapshots[0].ItemsAgedUp)
	}
}

func TestBacklogSLABreaches(t *testing.T) {
	req := backlogRequest(9)
	req.InitialBacklogCount = 5
	req.DailyDemandCount = 0
	req.DailyCapacityHours = 0
	req.HorizonDays = 4
	req.Profile.SLABreachThresholdDays = 2
	req.Profile.CustomerSatisfactionImpact = -0.05
	res := runBacklog(t, req)

	if got := res.Snapshots[1].SLABreachedCount; got != 0 {
		t.Errorf("day 1 breaches = %d, want 0 at age 1", got)
	}
	if got := res.Snapshots[3].SLABreachedCount; got != 5 {
		t.Errorf("day 3 breaches = %d, want all 5 at age 3", got)
	}
	if got := res.Snapshots[3].CustomerImpactScore; got != -0.25 {
		t.Errorf("customer impact = %v, want -0.25", got)
	}
	if res.Summary.TotalSLABreaches != 5 {
		t.Errorf("summary breaches = %d, want 5", res.Summary.TotalSLABreaches)
	}
}

func TestBacklogSLACompliance(t *testing.T) {
	req := backlogRequest(9)
	req.InitialBacklogCount = 5
	req.DailyDemandCount = 0
	req.DailyCapacityHours = 0
	req.HorizonDays = 4
	req.Profile.SLABreachThresholdDays = 2
	res := runBacklog(t, req)

	// Ages run 0..3 across the horizon: at risk from age 1, breached at 3.
	atRisk := []int{0, 5, 5, 0}
	rates := []float64{100, 100, 100, 0}
	for day, snap := range res.Snapshots {
		if snap.SLAAtRiskCount != atRisk[day] {
			t.Errorf("day %d at risk = %d, want %d", day, snap.SLAAtRiskCount, atRisk[day])
		}
		if snap.SLAComplianceRate != rates[day] {
			t.Errorf("day %d compliance = %v, want %v", day, snap.SLAComplianceRate, rates[day])
		}
	}
	if got := res.Summary.AvgSLAComplianceRate; got != 75 {
		t.Errorf("avg compliance = %v, want 75", got)
	}
}

func TestBacklogProductivityCoupling(t *testing.T) {
	req := backlogRequest(10)
	req.InitialBacklogCount = 100
	req.DailyDemandCount = 0
	req.DailyCapacityHours = 10
	req.HorizonDays = 2
	req.ProductivityModifiers = []float64{0.5, 1.0}
	res := runBacklog(t, req)

	if got := res.Snapshots[0].ItemsResolved; got != 10 {
		t.Errorf("day 0 resolved = %d, want 10 at half capacity", got)
	}
	if got := res.Snapshots[1].ItemsResolved; got != 20 {
		t.Errorf("day 1 resolved = %d, want 20 at full capacity", got)
	}
}

func TestBacklogDeterminism(t *testing.T) {
	req := backlogRequest(77)
	req.Profile.DecayRate = 0.05
	req.Profile.PropagationRate = 0.9
	req.HorizonDays = 20

	a := runBacklog(t, req)
	b := runBacklog(t, req)
	if !reflect.DeepEqual(a.Snapshots, b.Snapshots) {
		t.Error("same seed produced different snapshot series")
	}
	if a.SeedUsed != 77 {
		t.Errorf("SeedUsed = %d, want 77", a.SeedUsed)
	}
}

func TestBacklogBudgetExceeded(t *testing.T) {
	engine, err := NewBacklogEngine(backlogRequest(1))
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := engine.Run(ctx)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Errorf("expected ErrBudgetExceeded, got %v", err)
	}
	if res != nil {
		t.Error("aborted run must not return a partial result")
	}
}

func TestAgeBucket(t *testing.T) {
	tests := []struct {
		age      int
		expected string
	}{
		{0, "0-1 days"},
		{1, "1-3 days"},
		{3, "1-3 days"},
		{4, "4-7 days"},
		{7, "4-7 days"},
		{8, "8-14 days"},
		{14, "8-14 days"},
		{15, "15+ days"},
		{200, "15+ days"},
	}

	for _, tt := range tests {
		if got := ageBucket(tt.age); got != tt.expected {
			t.Errorf("ageBucket(%d) = %q, want %q", tt.age, got, tt.expected)
		}
	}
}

func TestClassifyBacklog(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		max      int
		expected BacklogLevel
	}{
		{"UnboundedLow", 10, 0, LevelLow},
		{"UnboundedMedium", 75, 0, LevelMedium},
		{"UnboundedHigh", 150, 0, LevelHigh},
		{"UnboundedCritical", 250, 0, LevelCritical},
		{"BoundedLow", 40, 100, LevelLow},
		{"BoundedMedium", 60, 100, LevelMedium},
		{"BoundedHigh", 80, 100, LevelHigh},
		{"BoundedCritical", 96, 100, LevelCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyBacklog(tt.count, tt.max); got != tt.expected {
				t.Errorf("classifyBacklog(%d, %d) = %q, want %q", tt.count, tt.max, got, tt.expected)
			}
		})
	}
}
