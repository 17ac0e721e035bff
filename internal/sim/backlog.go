package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"wfsim/internal/stats"
)

// Priority is a work-item priority bucket.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func priorityOrder(p Priority) int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityCritical:
		return 4
	}
	return 2
}

func upgradePriority(p Priority) Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityCritical
	}
}

// Complexity is a coarse effort class used when generating arrivals.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// OverflowStrategy selects what happens to items beyond max capacity.
type OverflowStrategy string

const (
	OverflowReject    OverflowStrategy = "reject"
	OverflowDefer     OverflowStrategy = "defer"
	OverflowEscalate  OverflowStrategy = "escalate"
	OverflowOutsource OverflowStrategy = "outsource"
)

// BacklogLevel is a severity classification of the current backlog size.
type BacklogLevel string

const (
	LevelLow      BacklogLevel = "low"
	LevelMedium   BacklogLevel = "medium"
	LevelHigh     BacklogLevel = "high"
	LevelCritical BacklogLevel = "critical"
)

// PropagationProfile configures how a backlog carries forward day to day.
type PropagationProfile struct {
	PropagationRate            float64          `json:"propagation_rate"`
	DecayRate                  float64          `json:"decay_rate"`
	MaxBacklogCapacity         int              `json:"max_backlog_capacity,omitempty"` // 0 = unbounded
	AgingEnabled               bool             `json:"aging_enabled"`
	AgingThresholdDays         int              `json:"aging_threshold_days"`
	OverflowStrategy           OverflowStrategy `json:"overflow_strategy"`
	SLABreachThresholdDays     int              `json:"sla_breach_threshold_days"`
	SLAPenaltyPerDay           float64          `json:"sla_penalty_per_day"`
	CustomerSatisfactionImpact float64          `json:"customer_satisfaction_impact"`
	RecoveryRateMultiplier     float64          `json:"recovery_rate_multiplier"`
	AvgEffortHoursPerItem      float64          `json:"avg_effort_hours_per_item"`
}

func (p *PropagationProfile) normalize() {
	if p.PropagationRate == 0 {
		p.PropagationRate = 1.0
	}
	if p.OverflowStrategy == "" {
		p.OverflowStrategy = OverflowReject
	}
	if p.SLABreachThresholdDays == 0 {
		p.SLABreachThresholdDays = 1
	}
	if p.SLAPenaltyPerDay == 0 {
		p.SLAPenaltyPerDay = 100.0
	}
	if p.CustomerSatisfactionImpact == 0 {
		p.CustomerSatisfactionImpact = -0.05
	}
	if p.RecoveryRateMultiplier == 0 {
		p.RecoveryRateMultiplier = 1.20
	}
	if p.AvgEffortHoursPerItem == 0 {
		p.AvgEffortHoursPerItem = 0.5
	}
}

func (p *PropagationProfile) validate() error {
	if p.PropagationRate < 0 || p.PropagationRate > 1 {
		return configErr("propagation_rate", "must be in [0, 1], got %g", p.PropagationRate)
	}
	if p.DecayRate < 0 || p.DecayRate > 1 {
		return configErr("decay_rate", "must be in [0, 1], got %g", p.DecayRate)
	}
	if p.MaxBacklogCapacity < 0 {
		return configErr("max_backlog_capacity", "must be >= 0, got %d", p.MaxBacklogCapacity)
	}
	switch p.OverflowStrategy {
	case OverflowReject, OverflowDefer, OverflowEscalate, OverflowOutsource:
	default:
		return configErr("overflow_strategy", "unknown strategy %q", p.OverflowStrategy)
	}
	if p.AgingThresholdDays < 0 {
		return configErr("aging_threshold_days", "must be >= 0, got %d", p.AgingThresholdDays)
	}
	if p.SLABreachThresholdDays < 0 {
		return configErr("sla_breach_threshold_days", "must be >= 0, got %d", p.SLABreachThresholdDays)
	}
	if p.AvgEffortHoursPerItem <= 0 {
		return configErr("avg_effort_hours_per_item", "must be > 0, got %g", p.AvgEffortHoursPerItem)
	}
	return nil
}

// BacklogRequest describes one backlog propagation run.
type BacklogRequest struct {
	OrganizationID      string             `json:"organization_id"`
	Profile             PropagationProfile `json:"profile"`
	Rules               []PropagationRule  `json:"rules,omitempty"`
	InitialBacklogCount int                `json:"initial_backlog_count"`
	DailyDemandCount    int                `json:"daily_demand_count"`
	DailyCapacityHours  float64            `json:"daily_capacity_hours"`
	HorizonDays         int                `json:"horizon_days"`

	// ProductivityModifiers optionally couples a variance series into the
	// capacity signal, one modifier per day. Empty means a flat 1.0.
	ProductivityModifiers []float64 `json:"productivity_modifiers,omitempty"`

	Seed *int64 `json:"seed,omitempty"`
}

// backlogItem is internal per-item state. Items never leak out of a run;
// snapshots expose aggregates only.
type backlogItem struct {
	id            string
	priority      Priority
	origPriority  Priority
	complexity    Complexity
	effortMinutes int
	ageDays       int
	lastAgedDay   int
	deferredUntil int // day index; 0 means not deferred
	slaBreached   bool
	ruleDay       int // last day a rule acted on this item, -1 initially
}

// BacklogSnapshot is one simulated day of backlog state. The integer
// conservation law holds exactly for every day t:
//
//	total[t] = total[t-1] + new[t] - resolved[t] - rejected[t] - outsourced[t]
type BacklogSnapshot struct {
	Day                   int              `json:"day"`
	TotalItems            int              `json:"total_items"`
	ItemsByPriority       map[Priority]int `json:"items_by_priority"`
	ItemsByAge            map[string]int   `json:"items_by_age"`
	NewItems              int              `json:"new_items"`
	ItemsResolved         int              `json:"items_resolved"`
	ItemsRejected         int              `json:"items_rejected"`
	ItemsOutsourced       int              `json:"items_outsourced"`
	ItemsDeferred         int              `json:"items_deferred"`
	ItemsEscalated        int              `json:"items_escalated"`
	ItemsAgedUp           int              `json:"items_aged_up"`
	ItemsPropagated       int              `json:"items_propagated"`
	OverflowCount         int              `json:"overflow_count"`
	SLABreachedCount      int              `json:"sla_breached_count"`
	SLAAtRiskCount        int              `json:"sla_at_risk_count"`
	SLAComplianceRate     float64          `json:"sla_compliance_rate"`
	AvgAgeDays            float64          `json:"avg_age_days"`
	OldestItemAgeDays     int              `json:"oldest_item_age_days"`
	TotalEffortHours      float64          `json:"total_estimated_effort_hours"`
	CapacityUtilization   float64          `json:"capacity_utilization"`
	Level                 BacklogLevel     `json:"backlog_level"`
	EstimatedRecoveryDays *float64         `json:"estimated_recovery_days"` // nil when net rate <= 0
	CustomerImpactScore   float64          `json:"customer_impact_score"`
	FinancialImpact       float64          `json:"financial_impact"`
}

// BacklogSummary rolls the daily snapshots into run-level statistics.
type BacklogSummary struct {
	TotalItemsResolved   int      `json:"total_items_processed"`
	TotalNewItems        int      `json:"total_new_items"`
	TotalRejected        int      `json:"total_rejected"`
	TotalOutsourced      int      `json:"total_outsourced"`
	NetBacklogChange     int      `json:"net_backlog_change"`
	AvgDailyBacklog      float64  `json:"avg_daily_backlog"`
	MaxDailyBacklog      int      `json:"max_daily_backlog"`
	TotalSLABreaches     int      `json:"total_sla_breaches"`
	AvgSLAComplianceRate float64  `json:"avg_sla_compliance_rate"`
	AvgRecoveryDays      *float64 `json:"avg_recovery_days"` // nil when never defined
	TotalFinancialImpact float64  `json:"total_financial_impact"`
	FinalBacklogSize     int      `json:"final_backlog_size"`
}

// BacklogResult is the immutable output bundle of a propagation run.
type BacklogResult struct {
	OrganizationID string            `json:"organization_id"`
	HorizonDays    int               `json:"horizon_days"`
	SeedUsed       int64             `json:"seed_used"`
	Snapshots      []BacklogSnapshot `json:"daily_snapshots"`
	Summary        BacklogSummary    `json:"summary_stats"`
	ExecutionMs    float64           `json:"execution_duration_ms"`
}

// BacklogEngine propagates a work-item backlog forward one day at a time.
// Each day is derived deterministically from the prior day's state plus
// that day's capacity input.
type BacklogEngine struct {
	req     *BacklogRequest
	profile PropagationProfile
	rules   []PropagationRule
	rng     *rand.Rand
	seed    int64

	items   []*backlogItem
	counter int
}

// NewBacklogEngine validates the full request up front and seeds the
// run's private rng. No trial runs before validation passes.
func NewBacklogEngine(req *BacklogRequest) (*BacklogEngine, error) {
	if req.HorizonDays <= 0 {
		return nil, configErr("horizon_days", "must be > 0, got %d", req.HorizonDays)
	}
	if req.InitialBacklogCount < 0 {
		return nil, configErr("initial_backlog_count", "must be >= 0, got %d", req.InitialBacklogCount)
	}
	if req.DailyDemandCount < 0 {
		return nil, configErr("daily_demand_count", "must be >= 0, got %d", req.DailyDemandCount)
	}
	if req.DailyCapacityHours < 0 {
		return nil, configErr("daily_capacity_hours", "must be >= 0, got %g", req.DailyCapacityHours)
	}
	if len(req.ProductivityModifiers) > 0 && len(req.ProductivityModifiers) != req.HorizonDays {
		return nil, configErr("productivity_modifiers", "length %d does not match horizon %d",
			len(req.ProductivityModifiers), req.HorizonDays)
	}

	profile := req.Profile
	profile.normalize()
	if err := profile.validate(); err != nil {
		return nil, err
	}

	rules, err := sortRules(req.Rules)
	if err != nil {
		return nil, err
	}

	seed := deriveSeed(req.Seed)
	return &BacklogEngine{
		req:     req,
		profile: profile,
		rules:   rules,
		rng:     rand.New(rand.NewSource(seed)),
		seed:    seed,
	}, nil
}

// Run computes the full snapshot series. Cancellation is checked once per
// simulated day; an aborted run returns ErrBudgetExceeded and no series.
func (e *BacklogEngine) Run(ctx context.Context) (*BacklogResult, error) {
	started := time.Now()
	p := &e.profile

	e.items = e.items[:0]
	e.counter = 0
	for i := 0; i < e.req.InitialBacklogCount; i++ {
		e.items = append(e.items, e.newItem(0))
	}

	snapshots := make([]BacklogSnapshot, 0, e.req.HorizonDays)

	for day := 0; day < e.req.HorizonDays; day++ {
		select {
		case <-ctx.Done():
			return nil, budgetErr(day, e.req.HorizonDays, ctx.Err())
		default:
		}

		snap := BacklogSnapshot{Day: day}

		// 1. Roll the carried backlog forward: age up and apply priority
		// aging. Arrivals from today are not aged.
		if day > 0 {
			for _, it := range e.items {
				it.ageDays++
				if it.deferredUntil > 0 && day >= it.deferredUntil {
					it.deferredUntil = 0
				}
				if p.AgingEnabled && p.AgingThresholdDays > 0 && it.priority != PriorityCritical {
					if it.ageDays-it.lastAgedDay >= p.AgingThresholdDays {
						it.priority = upgradePriority(it.priority)
						it.lastAgedDay = it.ageDays
						snap.ItemsAgedUp++
					}
				}
			}
		}

		// 2. Natural decay: some items resolve themselves.
		if p.DecayRate > 0 {
			kept := e.items[:0]
			for _, it := range e.items {
				if e.rng.Float64() < p.DecayRate {
					snap.ItemsResolved++
				} else {
					kept = append(kept, it)
				}
			}
			e.items = kept
		}

		// 3. Arrivals.
		for i := 0; i < e.req.DailyDemandCount; i++ {
			e.items = append(e.items, e.newItem(day))
		}
		snap.NewItems = e.req.DailyDemandCount

		// 4. Rules, in execution order, first match wins per item per day.
		e.applyRules(day, &snap)

		// 5. Resolve up to the day's capacity, priority then age, both
		// descending. Deferred items sit out the resolvable pool.
		modifier := 1.0
		if len(e.req.ProductivityModifiers) > 0 {
			modifier = e.req.ProductivityModifiers[day]
		}
		resolvable := int(e.req.DailyCapacityHours * modifier / p.AvgEffortHoursPerItem)
		snap.ItemsResolved += e.resolve(day, resolvable)

		// 6. Propagation shortfall: items that fail the carry-forward
		// trial are abandoned and counted as rejected.
		if p.PropagationRate < 1 {
			kept := e.items[:0]
			for _, it := range e.items {
				if e.rng.Float64() < p.PropagationRate {
					kept = append(kept, it)
				} else {
					snap.ItemsRejected++
				}
			}
			e.items = kept
		}

		// 7. Overflow. An unbounded profile never overflows.
		if p.MaxBacklogCapacity > 0 && len(e.items) > p.MaxBacklogCapacity {
			snap.OverflowCount = len(e.items) - p.MaxBacklogCapacity
			e.applyOverflow(day, snap.OverflowCount, &snap)
		}

		// 8. SLA breaches and derived scores. An unbreached item within one
		// day of the threshold counts as at risk.
		for _, it := range e.items {
			if it.ageDays > p.SLABreachThresholdDays {
				it.slaBreached = true
			}
			if it.slaBreached {
				snap.SLABreachedCount++
			} else if it.ageDays >= p.SLABreachThresholdDays-1 {
				snap.SLAAtRiskCount++
			}
		}

		e.finishSnapshot(&snap, modifier)
		snapshots = append(snapshots, snap)
	}

	result := &BacklogResult{
		OrganizationID: e.req.OrganizationID,
		HorizonDays:    e.req.HorizonDays,
		SeedUsed:       e.seed,
		Snapshots:      snapshots,
		Summary:        summarizeBacklog(snapshots, e.req.InitialBacklogCount),
		ExecutionMs:    round2(float64(time.Since(started).Microseconds()) / 1000.0),
	}

	log.Debug().
		Str("org", e.req.OrganizationID).
		Int("horizon", e.req.HorizonDays).
		Int64("seed", e.seed).
		Int("final_backlog", result.Summary.FinalBacklogSize).
		Msg("Backlog propagation complete")

	return result, nil
}

func (e *BacklogEngine) newItem(day int) *backlogItem {
	e.counter++

	var priority Priority
	switch r := e.rng.Float64(); {
	case r < 0.30:
		priority = PriorityLow
	case r < 0.70:
		priority = PriorityMedium
	case r < 0.90:
		priority = PriorityHigh
	default:
		priority = PriorityCritical
	}

	var complexity Complexity
	var effortMin, effortMax int
	switch r := e.rng.Float64(); {
	case r < 0.50:
		complexity, effortMin, effortMax = ComplexitySimple, 15, 30
	case r < 0.85:
		complexity, effortMin, effortMax = ComplexityModerate, 30, 60
	default:
		complexity, effortMin, effortMax = ComplexityComplex, 60, 120
	}

	return &backlogItem{
		id:            fmt.Sprintf("ITEM-%06d", e.counter),
		priority:      priority,
		origPriority:  priority,
		complexity:    complexity,
		effortMinutes: effortMin + e.rng.Intn(effortMax-effortMin+1),
		ruleDay:       -1,
		lastAgedDay:   0,
		deferredUntil: 0,
	}
}

// applyRules runs the sorted rule list once. Each rule collects its
// matching items, skipping any item a lower-order rule already acted on
// today - same-day actions never compound on one item.
func (e *BacklogEngine) applyRules(day int, snap *BacklogSnapshot) {
	p := &e.profile

	for ri := range e.rules {
		rule := &e.rules[ri]

		var matched []*backlogItem
		switch rule.Condition {
		case CondAge:
			for _, it := range e.items {
				if it.ruleDay != day && it.ageDays >= int(rule.Threshold) {
					matched = append(matched, it)
				}
			}
		case CondSLAApproach:
			margin := int(rule.Threshold)
			for _, it := range e.items {
				if it.ruleDay != day && !it.slaBreached && it.ageDays >= p.SLABreachThresholdDays-margin {
					matched = append(matched, it)
				}
			}
		case CondNewItem:
			for _, it := range e.items {
				if it.ruleDay != day && it.ageDays == 0 {
					matched = append(matched, it)
				}
			}
		case CondOverflow:
			if p.MaxBacklogCapacity > 0 && len(e.items) > p.MaxBacklogCapacity {
				matched = e.excessItems(day, len(e.items)-p.MaxBacklogCapacity)
			}
		case CondBacklogSize:
			trigger := int(rule.Threshold)
			if rule.UtilizationPct > 0 && p.MaxBacklogCapacity > 0 {
				trigger = int(float64(p.MaxBacklogCapacity) * rule.UtilizationPct / 100)
			}
			if trigger > 0 && len(e.items) > trigger {
				matched = e.excessItems(day, len(e.items)-trigger)
			}
		}

		if len(matched) == 0 {
			continue
		}

		for _, it := range matched {
			it.ruleDay = day
		}

		switch rule.Action {
		case ActionPriorityUpgrade:
			for _, it := range matched {
				if it.priority != PriorityCritical {
					it.priority = upgradePriority(it.priority)
					snap.ItemsEscalated++
				}
			}
		case ActionEscalate:
			for _, it := range matched {
				it.priority = PriorityCritical
				snap.ItemsEscalated++
			}
		case ActionDefer:
			deferDays := rule.DeferDays
			if deferDays == 0 {
				deferDays = 7
			}
			for _, it := range matched {
				it.deferredUntil = day + deferDays
				snap.ItemsDeferred++
			}
		case ActionReject:
			e.removeItems(matched)
			snap.ItemsRejected += len(matched)
		case ActionOutsource:
			e.removeItems(matched)
			snap.ItemsOutsourced += len(matched)
		}
	}
}

// excessItems picks the n lowest-priority, youngest items not yet acted
// on today - the ones an overflow or size trigger sheds first.
func (e *BacklogEngine) excessItems(day, n int) []*backlogItem {
	candidates := make([]*backlogItem, 0, len(e.items))
	for _, it := range e.items {
		if it.ruleDay != day {
			candidates = append(candidates, it)
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := priorityOrder(candidates[i].priority), priorityOrder(candidates[j].priority)
		if pi != pj {
			return pi < pj
		}
		return candidates[i].ageDays < candidates[j].ageDays
	})
	if n > len(candidates) {
		n = len(candidates)
	}
	return candidates[:n]
}

func (e *BacklogEngine) removeItems(remove []*backlogItem) {
	drop := make(map[*backlogItem]bool, len(remove))
	for _, it := range remove {
		drop[it] = true
	}
	kept := e.items[:0]
	for _, it := range e.items {
		if !drop[it] {
			kept = append(kept, it)
		}
	}
	e.items = kept
}

// resolve completes up to n items, highest priority first, oldest first
// within a priority. Deferred items are retained but not resolvable.
func (e *BacklogEngine) resolve(day, n int) int {
	if n <= 0 {
		return 0
	}

	pool := make([]*backlogItem, 0, len(e.items))
	for _, it := range e.items {
		if it.deferredUntil == 0 || day >= it.deferredUntil {
			pool = append(pool, it)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		pi, pj := priorityOrder(pool[i].priority), priorityOrder(pool[j].priority)
		if pi != pj {
			return pi > pj
		}
		return pool[i].ageDays > pool[j].ageDays
	})

	if n > len(pool) {
		n = len(pool)
	}
	e.removeItems(pool[:n])
	return n
}

func (e *BacklogEngine) applyOverflow(day, excess int, snap *BacklogSnapshot) {
	// The built-in strategy acts on items no rule touched today; a same-day
	// rule action on an item is never compounded.
	victims := e.excessItems(day, excess)
	for _, it := range victims {
		it.ruleDay = day
	}

	switch e.profile.OverflowStrategy {
	case OverflowReject:
		e.removeItems(victims)
		snap.ItemsRejected += len(victims)
	case OverflowOutsource:
		e.removeItems(victims)
		snap.ItemsOutsourced += len(victims)
	case OverflowDefer:
		for _, it := range victims {
			it.deferredUntil = day + 7
			snap.ItemsDeferred++
		}
	case OverflowEscalate:
		for _, it := range victims {
			it.priority = upgradePriority(it.priority)
			snap.ItemsEscalated++
		}
	}
}

func (e *BacklogEngine) finishSnapshot(snap *BacklogSnapshot, modifier float64) {
	p := &e.profile

	snap.TotalItems = len(e.items)
	snap.ItemsPropagated = len(e.items)
	snap.ItemsByPriority = make(map[Priority]int)
	snap.ItemsByAge = make(map[string]int)

	totalAge := 0
	totalEffortMinutes := 0
	for _, it := range e.items {
		snap.ItemsByPriority[it.priority]++
		snap.ItemsByAge[ageBucket(it.ageDays)]++
		totalAge += it.ageDays
		totalEffortMinutes += it.effortMinutes
		if it.ageDays > snap.OldestItemAgeDays {
			snap.OldestItemAgeDays = it.ageDays
		}
	}
	if len(e.items) > 0 {
		snap.AvgAgeDays = float64(totalAge) / float64(len(e.items))
	}
	snap.TotalEffortHours = round2(float64(totalEffortMinutes) / 60.0)

	if p.MaxBacklogCapacity > 0 {
		snap.CapacityUtilization = round2(float64(len(e.items)) / float64(p.MaxBacklogCapacity) * 100)
	}
	snap.Level = classifyBacklog(len(e.items), p.MaxBacklogCapacity)

	// Recovery estimate: how many days of net drain would clear today's
	// backlog. Undefined (nil) when the backlog is not draining.
	netRate := float64(snap.ItemsResolved)*p.RecoveryRateMultiplier - float64(snap.NewItems)
	if netRate > 0 && len(e.items) > 0 {
		days := round2(float64(len(e.items)) / netRate)
		snap.EstimatedRecoveryDays = &days
	}

	snap.SLAComplianceRate = 100.0
	if len(e.items) > 0 {
		snap.SLAComplianceRate = round2(float64(len(e.items)-snap.SLABreachedCount) / float64(len(e.items)) * 100)
	}

	snap.CustomerImpactScore = round2(float64(snap.SLABreachedCount) * p.CustomerSatisfactionImpact)
	snap.FinancialImpact = round2(float64(totalAge) * p.SLAPenaltyPerDay)
}

func ageBucket(age int) string {
	switch {
	case age < 1:
		return "0-1 days"
	case age <= 3:
		return "1-3 days"
	case age <= 7:
		return "4-7 days"
	case age <= 14:
		return "8-14 days"
	default:
		return "15+ days"
	}
}

func classifyBacklog(count, maxCapacity int) BacklogLevel {
	if maxCapacity <= 0 {
		switch {
		case count < 50:
			return LevelLow
		case count < 100:
			return LevelMedium
		case count < 200:
			return LevelHigh
		default:
			return LevelCritical
		}
	}

	utilization := float64(count) / float64(maxCapacity)
	switch {
	case utilization < 0.5:
		return LevelLow
	case utilization < 0.75:
		return LevelMedium
	case utilization < 0.95:
		return LevelHigh
	default:
		return LevelCritical
	}
}

func summarizeBacklog(snapshots []BacklogSnapshot, initialCount int) BacklogSummary {
	var s BacklogSummary
	if len(snapshots) == 0 {
		return s
	}

	backlogs := make([]float64, len(snapshots))
	compliance := make([]float64, len(snapshots))
	var recoveries []float64
	for i, snap := range snapshots {
		backlogs[i] = float64(snap.TotalItems)
		compliance[i] = snap.SLAComplianceRate
		s.TotalItemsResolved += snap.ItemsResolved
		s.TotalNewItems += snap.NewItems
		s.TotalRejected += snap.ItemsRejected
		s.TotalOutsourced += snap.ItemsOutsourced
		if snap.TotalItems > s.MaxDailyBacklog {
			s.MaxDailyBacklog = snap.TotalItems
		}
		s.TotalFinancialImpact += snap.FinancialImpact
		if snap.EstimatedRecoveryDays != nil {
			recoveries = append(recoveries, *snap.EstimatedRecoveryDays)
		}
	}

	final := snapshots[len(snapshots)-1]
	s.FinalBacklogSize = final.TotalItems
	s.NetBacklogChange = final.TotalItems - initialCount
	s.TotalSLABreaches = final.SLABreachedCount
	s.AvgDailyBacklog = round2(stats.Mean(backlogs))
	s.AvgSLAComplianceRate = round2(stats.Mean(compliance))
	if len(recoveries) > 0 {
		avg := round2(stats.Mean(recoveries))
		s.AvgRecoveryDays = &avg
	}
	s.TotalFinancialImpact = round2(s.TotalFinancialImpact)

	return s
}
