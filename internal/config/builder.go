package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/dtesn/internal/membrane"
)

// BuildHierarchy materializes the configured levels into a membrane
// hierarchy. Levels are created in depth order so parents exist before
// children; every membrane at level d attaches to the first membrane of
// level d-1. ESN parameters are copied onto each membrane.
func BuildHierarchy(cfg *Config) (*membrane.Hierarchy, error) {
	levels := make([]LevelConfig, len(cfg.MembraneHierarchy))
	copy(levels, cfg.MembraneHierarchy)
	sort.Slice(levels, func(i, j int) bool { return levels[i].Level < levels[j].Level })

	h := membrane.New(cfg.Name)
	firstAt := make(map[int]int) // level -> first membrane id

	for _, lvl := range levels {
		parent := membrane.NoParent
		if lvl.Level > 0 {
			id, ok := firstAt[lvl.Level-1]
			if !ok {
				return nil, fmt.Errorf("config: level %d declared without level %d: %w",
					lvl.Level, lvl.Level-1, membrane.ErrStructureViolation)
			}
			parent = id
		}

		typ := membrane.TypeFromString(lvl.Type)
		for i := 0; i < lvl.Count; i++ {
			label := fmt.Sprintf("%s_level_%d_%d", lvl.Type, lvl.Level, i)
			id, err := h.Create(typ, parent, lvl.Neurons, label)
			if err != nil {
				return nil, fmt.Errorf("config: create %s: %w", label, err)
			}
			if i == 0 {
				firstAt[lvl.Level] = id
			}

			m, err := h.Get(id)
			if err != nil {
				return nil, err
			}
			m.SpectralRadius = cfg.ESNParameters.SpectralRadius
			m.InputScaling = cfg.ESNParameters.InputScaling
			m.LeakRate = cfg.ESNParameters.LeakRate
			m.Connectivity = cfg.ESNParameters.Connectivity
		}
	}

	return h, nil
}

// SeedDemoRules installs a signal-propagation rule set: the root holds
// signals, interior membranes relay them toward their first child, and
// childless membranes absorb them as spikes. Evolution halts once every
// signal has reached a leaf.
func SeedDemoRules(h *membrane.Hierarchy, signals int) error {
	if h.Root() == membrane.NoParent {
		return fmt.Errorf("config: empty hierarchy: %w", membrane.ErrStructureViolation)
	}
	if err := h.AddObjects(h.Root(), "signal", signals); err != nil {
		return err
	}

	var firstErr error
	h.Walk(func(m *membrane.Membrane) {
		if firstErr != nil {
			return
		}
		rule := membrane.Rule{
			LHS: membrane.Multiset{"signal": 1},
			RHS: membrane.Multiset{"spike": 1},
		}
		if len(m.Children) > 0 {
			rule.RHS = membrane.Multiset{"signal": 1}
			rule.Target = membrane.TargetMembrane
			rule.TargetID = m.Children[0]
		}
		firstErr = h.AddRule(m.ID, rule)
	})
	return firstErr
}
