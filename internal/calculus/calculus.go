package calculus

import (
	"fmt"

	"github.com/san-kum/dtesn/internal/bseries"
)

// Func is a scalar autonomous right-hand side with explicit derivatives.
// Derivative(0, y) is f(y) itself; Derivative(m, y) is f^(m)(y).
type Func interface {
	Derivative(order int, y float64) float64
	MaxOrder() int
}

// Analytic adapts a slice of derivative closures to Func. Derivs[m]
// evaluates f^(m); every order present must be non-nil.
type Analytic struct {
	Derivs []func(float64) float64
}

func (a Analytic) Derivative(order int, y float64) float64 {
	if order < 0 || order >= len(a.Derivs) {
		return 0
	}
	return a.Derivs[order](y)
}

func (a Analytic) MaxOrder() int { return len(a.Derivs) - 1 }

// Calculator evaluates elementary differentials against a shape catalog.
type Calculator struct {
	catalog *bseries.Catalog
}

func New(catalog *bseries.Catalog) *Calculator {
	return &Calculator{catalog: catalog}
}

// MaxOrder returns the highest truncation order the catalog supports.
func (c *Calculator) MaxOrder() int { return c.catalog.MaxOrder() }

// Evaluate computes the elementary differential F(tree)(y).
func (c *Calculator) Evaluate(treeID int, f Func, y float64) (float64, error) {
	shape, err := c.catalog.ShapeByID(treeID)
	if err != nil {
		return 0, fmt.Errorf("tree %d: %w", treeID, ErrOutOfRange)
	}
	if err := c.checkDerivatives(shape, f); err != nil {
		return 0, err
	}
	return c.differential(shape, f, y), nil
}

// checkDerivatives verifies f carries every derivative order the tree's
// branching demands.
func (c *Calculator) checkDerivatives(shape bseries.Shape, f Func) error {
	need := len(shape.Children)
	if need > f.MaxOrder() {
		return fmt.Errorf("tree %d needs f^(%d): %w", shape.ID, need, ErrUnsupportedOrder)
	}
	for _, child := range shape.Children {
		cs, err := c.catalog.ShapeByID(child)
		if err != nil {
			return fmt.Errorf("tree %d child %d: %w", shape.ID, child, ErrOutOfRange)
		}
		if err := c.checkDerivatives(cs, f); err != nil {
			return err
		}
	}
	return nil
}

func (c *Calculator) differential(shape bseries.Shape, f Func, y float64) float64 {
	v := f.Derivative(len(shape.Children), y)
	for _, child := range shape.Children {
		cs, _ := c.catalog.ShapeByID(child)
		v *= c.differential(cs, f, y)
	}
	return v
}

// Contribution is one tree's term in a B-series expansion.
type Contribution struct {
	Coefficient  float64 // alpha(tree)
	Differential float64 // F(tree)(y)
	Weighted     float64 // alpha(tree) * F(tree)(y)
}

// TreeContribution evaluates one tree's coefficient, elementary
// differential, and weighted term at y.
func (c *Calculator) TreeContribution(treeID int, f Func, y float64) (Contribution, error) {
	shape, err := c.catalog.ShapeByID(treeID)
	if err != nil {
		return Contribution{}, fmt.Errorf("tree %d: %w", treeID, ErrOutOfRange)
	}
	diff, err := c.Evaluate(treeID, f, y)
	if err != nil {
		return Contribution{}, err
	}
	return Contribution{
		Coefficient:  shape.Coefficient,
		Differential: diff,
		Weighted:     shape.Coefficient * diff,
	}, nil
}

// Step advances y by one B-series step of size h truncated at maxOrder.
func (c *Calculator) Step(f Func, y, h float64, maxOrder int) (float64, error) {
	if h <= 0 {
		return 0, fmt.Errorf("step size %g: %w", h, ErrOutOfRange)
	}
	if maxOrder < 1 || maxOrder > c.catalog.MaxOrder() {
		return 0, fmt.Errorf("order %d with catalog depth %d: %w",
			maxOrder, c.catalog.MaxOrder(), ErrOutOfRange)
	}

	next := y
	hk := 1.0
	for k := 1; k <= maxOrder; k++ {
		hk *= h
		shapes, err := c.catalog.ShapesOfOrder(k)
		if err != nil {
			return 0, err
		}
		sum := 0.0
		for _, s := range shapes {
			if err := c.checkDerivatives(s, f); err != nil {
				return 0, err
			}
			sum += s.Coefficient * c.differential(s, f, y)
		}
		next += hk * sum
	}
	return next, nil
}

// Integrate applies Step repeatedly over steps equal intervals, returning
// the trajectory including the initial point.
func (c *Calculator) Integrate(f Func, y0, h float64, steps, maxOrder int) ([]float64, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("steps %d: %w", steps, ErrOutOfRange)
	}
	out := make([]float64, 0, steps+1)
	out = append(out, y0)
	y := y0
	for i := 0; i < steps; i++ {
		next, err := c.Step(f, y, h, maxOrder)
		if err != nil {
			return nil, err
		}
		y = next
		out = append(out, y)
	}
	return out, nil
}
