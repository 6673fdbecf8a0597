package membrane

import (
	"fmt"

	"github.com/san-kum/dtesn/internal/enum"
)

// NoParent marks root creation in Create.
const NoParent = -1

// Membrane is one node of the hierarchy. Parent and Children are arena
// ids; topology fields are fixed at creation.
type Membrane struct {
	ID       int
	Type     Type
	Label    string
	Parent   int // NoParent for the root
	Depth    int
	Children []int

	Objects Multiset
	Rules   []Rule

	// Reservoir parameters carried for downstream ESN computation;
	// opaque to the evolution engine.
	NeuronCount    int
	SpectralRadius float64
	InputScaling   float64
	LeakRate       float64
	Connectivity   float64
}

// Hierarchy owns the full membrane set in a flat arena.
type Hierarchy struct {
	name   string
	arena  []*Membrane
	root   int
	levels map[int][]int // depth -> ids, in creation order

	ruleApplications int64
	halted           bool
}

// New returns an empty hierarchy.
func New(name string) *Hierarchy {
	return &Hierarchy{
		name:   name,
		root:   NoParent,
		levels: make(map[int][]int),
	}
}

func (h *Hierarchy) Name() string { return h.name }
func (h *Hierarchy) Len() int     { return len(h.arena) }

// Root returns the root membrane id, or NoParent when none exists yet.
func (h *Hierarchy) Root() int { return h.root }

// Create inserts a new membrane under parentID, or as the root when
// parentID is NoParent. A second root fails with ErrStructureViolation.
func (h *Hierarchy) Create(typ Type, parentID int, neurons int, label string) (int, error) {
	depth := 0
	if parentID == NoParent {
		if h.root != NoParent {
			return 0, fmt.Errorf("create %q: hierarchy already has a root: %w", label, ErrStructureViolation)
		}
	} else {
		parent, err := h.Get(parentID)
		if err != nil {
			return 0, fmt.Errorf("create %q: %w", label, err)
		}
		depth = parent.Depth + 1
	}

	m := &Membrane{
		ID:          len(h.arena),
		Type:        typ,
		Label:       label,
		Parent:      parentID,
		Depth:       depth,
		Objects:     make(Multiset),
		NeuronCount: neurons,
	}
	h.arena = append(h.arena, m)
	h.levels[depth] = append(h.levels[depth], m.ID)

	if parentID == NoParent {
		h.root = m.ID
	} else {
		h.arena[parentID].Children = append(h.arena[parentID].Children, m.ID)
	}
	return m.ID, nil
}

// Get returns the membrane with the given id.
func (h *Hierarchy) Get(id int) (*Membrane, error) {
	if id < 0 || id >= len(h.arena) {
		return nil, fmt.Errorf("membrane %d: %w", id, ErrNotFound)
	}
	return h.arena[id], nil
}

// ChildrenOf returns the ordered child ids of a membrane.
func (h *Hierarchy) ChildrenOf(id int) ([]int, error) {
	m, err := h.Get(id)
	if err != nil {
		return nil, err
	}
	children := make([]int, len(m.Children))
	copy(children, m.Children)
	return children, nil
}

// DepthOf returns the depth of a membrane (root is 0).
func (h *Hierarchy) DepthOf(id int) (int, error) {
	m, err := h.Get(id)
	if err != nil {
		return 0, err
	}
	return m.Depth, nil
}

// AtDepth returns the ids of all membranes at the given depth, in
// creation order.
func (h *Hierarchy) AtDepth(depth int) []int {
	ids := make([]int, len(h.levels[depth]))
	copy(ids, h.levels[depth])
	return ids
}

// MaxDepth returns the deepest populated level.
func (h *Hierarchy) MaxDepth() int {
	max := 0
	for d := range h.levels {
		if d > max {
			max = d
		}
	}
	return max
}

// Walk visits every membrane in depth order (root first), creation order
// within a depth.
func (h *Hierarchy) Walk(visit func(*Membrane)) {
	for d := 0; d <= h.MaxDepth(); d++ {
		for _, id := range h.levels[d] {
			visit(h.arena[id])
		}
	}
}

// AddRule appends a rule to a membrane's ordered rule list.
func (h *Hierarchy) AddRule(id int, r Rule) error {
	m, err := h.Get(id)
	if err != nil {
		return err
	}
	m.Rules = append(m.Rules, r)
	return nil
}

// AddObjects places count copies of an object in a membrane's multiset.
func (h *Hierarchy) AddObjects(id int, object string, count int) error {
	m, err := h.Get(id)
	if err != nil {
		return err
	}
	m.Objects[object] += count
	return nil
}

// RuleApplications returns the running total across all evolution cycles.
func (h *Hierarchy) RuleApplications() int64 { return h.ruleApplications }

// RecordApplications adds to the running rule-application counter.
func (h *Hierarchy) RecordApplications(n int64) { h.ruleApplications += n }

// Halted reports whether no membrane held an applicable rule at the end
// of the last evolution cycle.
func (h *Hierarchy) Halted() bool { return h.halted }

// SetHalted marks the hierarchy halted or active again.
func (h *Hierarchy) SetHalted(v bool) { h.halted = v }

// View is a read-only nested snapshot of the hierarchy for reporting.
type View struct {
	Label       string  `json:"label"`
	Type        string  `json:"type"`
	NeuronCount int     `json:"neuron_count"`
	Objects     int     `json:"objects"`
	Children    []*View `json:"children,omitempty"`
}

// TreeView returns the nested view rooted at the hierarchy root, or nil
// for an empty hierarchy.
func (h *Hierarchy) TreeView() *View {
	if h.root == NoParent {
		return nil
	}
	return h.view(h.root)
}

func (h *Hierarchy) view(id int) *View {
	m := h.arena[id]
	v := &View{
		Label:       m.Label,
		Type:        m.Type.String(),
		NeuronCount: m.NeuronCount,
		Objects:     m.Objects.Size(),
	}
	for _, child := range m.Children {
		v.Children = append(v.Children, h.view(child))
	}
	return v
}

// ValidateTopology compares per-depth membrane counts for depths
// 0..maxDepth against the A000081 enumeration, with the depth-0 override
// of exactly one root. It returns an ordered list of human-readable
// violations; empty means compliant.
func (h *Hierarchy) ValidateTopology(maxDepth int) []string {
	return h.ValidateTopologyWith(maxDepth, enum.Default())
}

// ValidateTopologyWith is ValidateTopology with an explicit provider.
func (h *Hierarchy) ValidateTopologyWith(maxDepth int, provider enum.Provider) []string {
	var violations []string

	for d := 0; d <= maxDepth; d++ {
		expected := int64(1) // depth 0: always exactly one root
		if d > 0 {
			term, err := provider.Term(d)
			if err != nil {
				violations = append(violations,
					fmt.Sprintf("depth %d exceeds available enumeration data: %v", d, err))
				continue
			}
			expected = term
		}

		got := int64(len(h.levels[d]))
		if got == 0 {
			violations = append(violations, fmt.Sprintf("missing membrane level %d", d))
			continue
		}
		if got != expected {
			violations = append(violations,
				fmt.Sprintf("level %d has count %d, expected %d (A000081)", d, got, expected))
		}
	}

	for d := maxDepth + 1; d <= h.MaxDepth(); d++ {
		if len(h.levels[d]) > 0 {
			violations = append(violations,
				fmt.Sprintf("extra membrane level %d beyond max depth %d", d, maxDepth))
		}
	}

	return violations
}
