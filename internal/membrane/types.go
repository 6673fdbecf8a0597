package membrane

// Type is descriptive metadata for a membrane; it never dispatches
// behavior.
type Type int

const (
	Root Type = iota
	Trunk
	Branch
	Leaf
	Terminal
	Elementary
)

var typeNames = map[Type]string{
	Root:       "root",
	Trunk:      "trunk",
	Branch:     "branch",
	Leaf:       "leaf",
	Terminal:   "terminal",
	Elementary: "elementary",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "elementary"
}

// TypeFromString maps a configuration label to a Type; unknown labels map
// to Elementary, mirroring the original compiler's fallback.
func TypeFromString(s string) Type {
	for t, name := range typeNames {
		if name == s {
			return t
		}
	}
	return Elementary
}

// Multiset holds symbolic objects with multiplicities. Zero-count entries
// are removed eagerly so equality checks stay simple.
type Multiset map[string]int

func (m Multiset) Clone() Multiset {
	c := make(Multiset, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Contains reports whether m holds every object of other with at least
// its multiplicity.
func (m Multiset) Contains(other Multiset) bool {
	for k, v := range other {
		if m[k] < v {
			return false
		}
	}
	return true
}

func (m Multiset) Add(other Multiset) {
	for k, v := range other {
		m[k] += v
	}
}

// Remove subtracts other from m. The caller must have checked Contains.
func (m Multiset) Remove(other Multiset) {
	for k, v := range other {
		m[k] -= v
		if m[k] <= 0 {
			delete(m, k)
		}
	}
}

// Size returns the total multiplicity across all objects.
func (m Multiset) Size() int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}

// Equal reports multiset equality.
func (m Multiset) Equal(other Multiset) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		if other[k] != v {
			return false
		}
	}
	return true
}

// TargetKind selects where a rule's products are delivered.
type TargetKind int

const (
	// TargetSelf keeps products in the firing membrane.
	TargetSelf TargetKind = iota
	// TargetParent sends products out to the parent membrane.
	TargetParent
	// TargetMembrane sends products to an explicit membrane id, covering
	// child and sibling communication.
	TargetMembrane
)

// Rule is one multiset-rewriting rule local to a membrane.
type Rule struct {
	LHS         Multiset
	RHS         Multiset
	Target      TargetKind
	TargetID    int     // consulted only when Target == TargetMembrane
	Priority    int     // higher fires first
	Probability float64 // 0 means deterministic; else weight for sampling
}

// Applicable reports whether the rule can fire against objects.
func (r Rule) Applicable(objects Multiset) bool {
	return len(r.LHS) > 0 && objects.Contains(r.LHS)
}
