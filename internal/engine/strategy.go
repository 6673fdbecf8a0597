package engine

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/san-kum/dtesn/internal/membrane"
)

// firing is one selected rule application, resolved against the cycle's
// object snapshot.
type firing struct {
	membraneID int
	rule       membrane.Rule
}

// selectRule picks at most one applicable rule for a membrane. Rules are
// filtered against objects, restricted to the highest applicable
// priority, then resolved by declaration order. If the priority group
// carries probabilities, one weighted draw decides instead.
func selectRule(rules []membrane.Rule, objects membrane.Multiset, rng *rand.Rand) (membrane.Rule, bool) {
	var group []membrane.Rule
	for _, r := range rules {
		if !r.Applicable(objects) {
			continue
		}
		if len(group) == 0 || r.Priority > group[0].Priority {
			group = group[:0]
		}
		if len(group) == 0 || r.Priority == group[0].Priority {
			group = append(group, r)
		}
	}
	if len(group) == 0 {
		return membrane.Rule{}, false
	}

	total := 0.0
	for _, r := range group {
		total += r.Probability
	}
	if total <= 0 {
		return group[0], true
	}

	draw := rng.Float64() * total
	for _, r := range group {
		draw -= r.Probability
		if draw < 0 {
			return r, true
		}
	}
	return group[len(group)-1], true
}

// checkRule rejects malformed rules: an empty left-hand side, a negative
// probability, or a communication target that does not exist.
func checkRule(h *membrane.Hierarchy, membraneID int, r membrane.Rule) error {
	if len(r.LHS) == 0 {
		return fmt.Errorf("membrane %d: empty left-hand side: %w", membraneID, ErrInvalidRule)
	}
	if r.Probability < 0 {
		return fmt.Errorf("membrane %d: negative probability: %w", membraneID, ErrInvalidRule)
	}
	if r.Target == membrane.TargetMembrane {
		if _, err := h.Get(r.TargetID); err != nil {
			return fmt.Errorf("membrane %d: rule targets membrane %d: %w",
				membraneID, r.TargetID, ErrInvalidRule)
		}
	}
	return nil
}

// validateRules checks every rule of every membrane, applicable or not,
// so a cycle never starts against a malformed rule set.
func validateRules(h *membrane.Hierarchy) error {
	var firstErr error
	h.Walk(func(m *membrane.Membrane) {
		if firstErr != nil {
			return
		}
		for _, r := range m.Rules {
			if err := checkRule(h, m.ID, r); err != nil {
				firstErr = err
				return
			}
		}
	})
	return firstErr
}

// validateFirings re-checks the selected rules before any mutation, so a
// bad rule leaves the hierarchy untouched.
func validateFirings(h *membrane.Hierarchy, firings []firing) error {
	for _, f := range firings {
		if err := checkRule(h, f.membraneID, f.rule); err != nil {
			return err
		}
	}
	return nil
}

// apply consumes every firing's LHS first, then delivers all products.
// Products land after all consumptions, so they feed the next cycle, not
// this one. Deliveries are flushed in target-id order for determinism.
func apply(h *membrane.Hierarchy, firings []firing) int64 {
	queues := make(map[int]membrane.Multiset)

	for _, f := range firings {
		m, _ := h.Get(f.membraneID)
		m.Objects.Remove(f.rule.LHS)

		target := f.membraneID
		switch f.rule.Target {
		case membrane.TargetParent:
			target = m.Parent
		case membrane.TargetMembrane:
			target = f.rule.TargetID
		}
		if target == membrane.NoParent {
			continue // out through the skin: released to the environment
		}
		if queues[target] == nil {
			queues[target] = make(membrane.Multiset)
		}
		queues[target].Add(f.rule.RHS)
	}

	targets := make([]int, 0, len(queues))
	for id := range queues {
		targets = append(targets, id)
	}
	sort.Ints(targets)
	for _, id := range targets {
		m, _ := h.Get(id)
		m.Objects.Add(queues[id])
	}

	return int64(len(firings))
}

// cycleSync scans membranes sequentially against start-of-cycle object
// snapshots.
func (e *Engine) cycleSync(h *membrane.Hierarchy) (int64, error) {
	var firings []firing
	h.Walk(func(m *membrane.Membrane) {
		if r, ok := selectRule(m.Rules, m.Objects.Clone(), e.rng); ok {
			firings = append(firings, firing{membraneID: m.ID, rule: r})
		}
	})

	if err := validateFirings(h, firings); err != nil {
		return 0, err
	}
	return apply(h, firings), nil
}

// cycleAsync scans membranes with a bounded worker pool. Selection reads
// immutable snapshots, so workers never race; validation and application
// stay single-threaded. Randomized draws are pre-seeded per membrane from
// the engine rng so the outcome matches the worker schedule-free
// sequential order.
func (e *Engine) cycleAsync(h *membrane.Hierarchy) (int64, error) {
	type job struct {
		id    int
		rules []membrane.Rule
		objs  membrane.Multiset
		seed  int64
	}

	var jobs []job
	h.Walk(func(m *membrane.Membrane) {
		jobs = append(jobs, job{
			id:    m.ID,
			rules: m.Rules,
			objs:  m.Objects.Clone(),
			seed:  e.rng.Int63(),
		})
	})

	selected := make([]*firing, len(jobs))
	work := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < e.cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				j := jobs[idx]
				rng := rand.New(rand.NewSource(j.seed))
				if r, ok := selectRule(j.rules, j.objs, rng); ok {
					selected[idx] = &firing{membraneID: j.id, rule: r}
				}
			}
		}()
	}
	for idx := range jobs {
		work <- idx
	}
	close(work)
	wg.Wait()

	var firings []firing
	for _, f := range selected {
		if f != nil {
			firings = append(firings, *f)
		}
	}

	if err := validateFirings(h, firings); err != nil {
		return 0, err
	}
	return apply(h, firings), nil
}
