package enum

import (
	"fmt"
	"iter"
	"math"
	"sync"
)

// exactTerms holds a(0)..a(30) of OEIS A000081.
var exactTerms = []int64{
	0, 1, 1, 2, 4, 9, 20, 48, 115, 286,
	719, 1842, 4766, 12486, 32973, 87811, 235381, 634847, 1721159, 4688676,
	12826228, 35221832, 97055181, 268282855, 743724984, 2067174645,
	5759636510, 16083734329, 45007066269, 126186554308, 354426847597,
}

// Asymptotic constants for a(n) ~ otterD * otterAlpha^n * n^(-3/2).
const (
	otterD     = 0.43992401257
	otterAlpha = 2.95576528565
)

// Provider yields A000081 terms and validity checks against them.
type Provider interface {
	Term(n int) (int64, error)
	KnownExactRange() int
	IsValidCount(n int, claimed int64) bool
	Sequence(count int) iter.Seq2[int, int64]
	MaxNodesForBudget(maxCount int64) int
}

// Enumerator is the concrete Provider. The basic form serves only tabulated
// terms; the enhanced form extends the table with the asymptotic formula.
type Enumerator struct {
	asymptotic bool
}

// NewBasic returns a table-only enumerator. Term fails with ErrOutOfDomain
// for indices beyond the exact table.
func NewBasic() *Enumerator {
	return &Enumerator{asymptotic: false}
}

// NewEnhanced returns an enumerator that extends the exact table with the
// asymptotic approximation, rounded to the nearest integer.
func NewEnhanced() *Enumerator {
	return &Enumerator{asymptotic: true}
}

var (
	defaultOnce sync.Once
	defaultEnum *Enumerator
)

// Default returns a process-wide enhanced enumerator, built lazily.
// It is immutable and safe for concurrent use.
func Default() *Enumerator {
	defaultOnce.Do(func() {
		defaultEnum = NewEnhanced()
	})
	return defaultEnum
}

// Term returns a(n).
func (e *Enumerator) Term(n int) (int64, error) {
	if n < 0 {
		return 0, fmt.Errorf("term(%d): %w", n, ErrOutOfDomain)
	}
	if n < len(exactTerms) {
		return exactTerms[n], nil
	}
	if !e.asymptotic {
		return 0, fmt.Errorf("term(%d) beyond exact table (max %d): %w", n, e.KnownExactRange(), ErrOutOfDomain)
	}
	return int64(math.Round(asymptoticTerm(n))), nil
}

func asymptoticTerm(n int) float64 {
	return otterD * math.Pow(otterAlpha, float64(n)) * math.Pow(float64(n), -1.5)
}

// KnownExactRange returns the largest n served by table lookup.
func (e *Enumerator) KnownExactRange() int {
	return len(exactTerms) - 1
}

// IsValidCount reports whether claimed equals a(n). Indices outside the
// provider's domain are never valid.
func (e *Enumerator) IsValidCount(n int, claimed int64) bool {
	term, err := e.Term(n)
	if err != nil {
		return false
	}
	return term == claimed
}

// Sequence yields (n, a(n)) for n in [0, count). The iteration is lazy and
// restartable: ranging over it twice yields identical results. Iteration
// stops early if a term falls outside the provider's domain.
func (e *Enumerator) Sequence(count int) iter.Seq2[int, int64] {
	return func(yield func(int, int64) bool) {
		for n := 0; n < count; n++ {
			term, err := e.Term(n)
			if err != nil {
				return
			}
			if !yield(n, term) {
				return
			}
		}
	}
}

// Terms collects Sequence(count) into a slice.
func (e *Enumerator) Terms(count int) []int64 {
	out := make([]int64, 0, count)
	for _, v := range e.Sequence(count) {
		out = append(out, v)
	}
	return out
}

// MaxNodesForBudget returns the largest n with a(n) <= maxCount.
// a(n) is monotone for n >= 2, so a forward scan suffices. Returns 0 when
// even the single-node tree exceeds the budget.
func (e *Enumerator) MaxNodesForBudget(maxCount int64) int {
	if maxCount < 1 {
		return 0
	}
	best := 0
	for n := 1; ; n++ {
		if n >= len(exactTerms) {
			if !e.asymptotic {
				return best
			}
			if asymptoticTerm(n) > float64(maxCount) {
				return best
			}
			best = n
			continue
		}
		if exactTerms[n] > maxCount {
			return best
		}
		best = n
	}
}
