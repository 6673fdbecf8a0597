package engine

import "time"

// Metrics summarizes one Evolve call.
type Metrics struct {
	Cycles       int
	RulesApplied int64
	Elapsed      time.Duration

	// PerformanceScore is min(1, budget/elapsed): 1 while the run fits its
	// timing budget, degrading toward 0 as it overruns.
	PerformanceScore float64
	BudgetExceeded   bool
}

func scoreAgainstBudget(budget, elapsed time.Duration) (float64, bool) {
	if elapsed <= 0 {
		return 1, false
	}
	if elapsed <= budget {
		return 1, false
	}
	return float64(budget) / float64(elapsed), true
}
