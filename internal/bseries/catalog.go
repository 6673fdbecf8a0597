package bseries

import (
	"fmt"
	"strings"

	"github.com/san-kum/dtesn/internal/enum"
)

// Shape is one canonical unlabeled rooted tree of a given order.
type Shape struct {
	ID          int     // unique, stable, contiguous per order, starts at 1
	Order       int     // node count
	Symmetry    int64   // σ(τ), size of the automorphism group
	Density     int64   // γ(τ)
	Coefficient float64 // α(τ) = 1/(σ(τ)·γ(τ))
	Expression  string  // symbolic elementary differential, e.g. f''(f,f)
	Cost        int     // relative evaluation cost in unit operations
	Children    []int   // ids of the root's child subtrees, non-increasing
}

// Leaf reports whether the shape is the single-node tree.
func (s Shape) Leaf() bool { return len(s.Children) == 0 }

// Catalog holds all shapes of orders 1..MaxOrder. Immutable once built.
type Catalog struct {
	maxOrder int
	shapes   []Shape // shapes[id-1]
	orderIdx [][]int // orderIdx[k] = ids of order k
	provider enum.Provider
}

// Build enumerates all shapes up to maxOrder, cross-checking per-order
// counts against the default A000081 enumerator.
func Build(maxOrder int) (*Catalog, error) {
	return BuildWith(maxOrder, enum.Default())
}

// BuildWith is Build with an explicit enumeration provider.
func BuildWith(maxOrder int, provider enum.Provider) (*Catalog, error) {
	if maxOrder < 1 {
		return nil, fmt.Errorf("build(maxOrder=%d): %w", maxOrder, ErrOutOfRange)
	}

	c := &Catalog{
		maxOrder: maxOrder,
		orderIdx: make([][]int, maxOrder+1),
		provider: provider,
	}

	// Order 1: the single node.
	c.add(Shape{
		Order:       1,
		Symmetry:    1,
		Density:     1,
		Coefficient: 1,
		Expression:  "f",
		Cost:        1,
	})

	for k := 2; k <= maxOrder; k++ {
		prior := len(c.shapes)
		for _, children := range c.compose(prior, k-1) {
			c.add(c.assemble(k, children))
		}
	}

	for k := 1; k <= maxOrder; k++ {
		want, err := provider.Term(k)
		if err != nil {
			return nil, fmt.Errorf("build order %d: %w", k, err)
		}
		if got := int64(len(c.orderIdx[k])); got != want {
			return nil, fmt.Errorf("order %d produced %d shapes, enumeration expects %d: %w",
				k, got, want, ErrClassification)
		}
	}

	return c, nil
}

func (c *Catalog) add(s Shape) {
	s.ID = len(c.shapes) + 1
	c.shapes = append(c.shapes, s)
	c.orderIdx[s.Order] = append(c.orderIdx[s.Order], s.ID)
}

// compose enumerates all multisets of existing shape ids, each id at most
// maxID and ids non-increasing, whose orders sum to budget. Restricting to
// non-increasing sequences makes each unordered multiset appear exactly
// once, and the recursion order fixes the catalog's enumeration order.
func (c *Catalog) compose(maxID, budget int) [][]int {
	if budget == 0 {
		return [][]int{nil}
	}
	var out [][]int
	for id := maxID; id >= 1; id-- {
		order := c.shapes[id-1].Order
		if order > budget {
			continue
		}
		for _, tail := range c.compose(id, budget-order) {
			children := append([]int{id}, tail...)
			out = append(out, children)
		}
	}
	return out
}

// assemble derives the B-series attributes of a composite shape from its
// child subtrees.
func (c *Catalog) assemble(order int, children []int) Shape {
	symmetry := int64(1)
	density := int64(order)
	cost := 1 + len(children)

	run := 0
	for i, id := range children {
		child := c.shapes[id-1]
		symmetry *= child.Symmetry
		density *= child.Density
		cost += child.Cost

		// Children are non-increasing, so equal ids are adjacent.
		run++
		if i+1 == len(children) || children[i+1] != id {
			symmetry *= factorial(run)
			run = 0
		}
	}

	return Shape{
		Order:       order,
		Symmetry:    symmetry,
		Density:     density,
		Coefficient: 1 / (float64(symmetry) * float64(density)),
		Expression:  c.expression(children),
		Cost:        cost,
		Children:    children,
	}
}

func (c *Catalog) expression(children []int) string {
	parts := make([]string, len(children))
	for i, id := range children {
		parts[i] = c.shapes[id-1].Expression
	}
	return derivName(len(children)) + "(" + strings.Join(parts, ",") + ")"
}

func derivName(m int) string {
	if m <= 4 {
		return "f" + strings.Repeat("'", m)
	}
	return fmt.Sprintf("f^(%d)", m)
}

func factorial(n int) int64 {
	result := int64(1)
	for i := 2; i <= n; i++ {
		result *= int64(i)
	}
	return result
}

// MaxOrder returns the order the catalog was built for.
func (c *Catalog) MaxOrder() int { return c.maxOrder }

// Len returns the total number of shapes in the catalog.
func (c *Catalog) Len() int { return len(c.shapes) }

// ShapesOfOrder returns all shapes of order k in enumeration order.
func (c *Catalog) ShapesOfOrder(k int) ([]Shape, error) {
	if k < 1 || k > c.maxOrder {
		return nil, fmt.Errorf("shapesOfOrder(%d) with max order %d: %w", k, c.maxOrder, ErrOutOfRange)
	}
	ids := c.orderIdx[k]
	shapes := make([]Shape, len(ids))
	for i, id := range ids {
		shapes[i] = c.shapes[id-1]
	}
	return shapes, nil
}

// ShapeByID looks up a shape by tree id.
func (c *Catalog) ShapeByID(id int) (Shape, error) {
	if id < 1 || id > len(c.shapes) {
		return Shape{}, fmt.Errorf("shapeByID(%d): %w", id, ErrNotFound)
	}
	return c.shapes[id-1], nil
}

// TotalCost maps each order 1..maxOrder to the aggregate cost of its
// shapes, for timing-budget estimation.
func (c *Catalog) TotalCost(maxOrder int) (map[int]int, error) {
	if maxOrder < 1 || maxOrder > c.maxOrder {
		return nil, fmt.Errorf("totalCost(%d) with max order %d: %w", maxOrder, c.maxOrder, ErrOutOfRange)
	}
	costs := make(map[int]int, maxOrder)
	for k := 1; k <= maxOrder; k++ {
		total := 0
		for _, id := range c.orderIdx[k] {
			total += c.shapes[id-1].Cost
		}
		costs[k] = total
	}
	return costs, nil
}

// ValidateAgainstEnumeration re-derives per-order shape counts and diffs
// them against the A000081 enumeration. An empty result means consistent.
func (c *Catalog) ValidateAgainstEnumeration() []string {
	var violations []string
	for k := 1; k <= c.maxOrder; k++ {
		want, err := c.provider.Term(k)
		if err != nil {
			violations = append(violations, fmt.Sprintf("order %d: enumeration unavailable: %v", k, err))
			continue
		}
		if got := int64(len(c.orderIdx[k])); got != want {
			violations = append(violations,
				fmt.Sprintf("order %d has %d shapes, expected %d (A000081)", k, got, want))
		}
	}
	return violations
}
