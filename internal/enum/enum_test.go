package enum

import (
	"errors"
	"testing"
)

func TestExactTerms(t *testing.T) {
	want := []int64{0, 1, 1, 2, 4, 9, 20, 48, 115, 286, 719, 1842, 4766, 12486, 32973}

	e := NewEnhanced()
	for n, expected := range want {
		got, err := e.Term(n)
		if err != nil {
			t.Fatalf("term(%d) failed: %v", n, err)
		}
		if got != expected {
			t.Errorf("term(%d) = %d, want %d", n, got, expected)
		}
	}
}

func TestNegativeIndex(t *testing.T) {
	e := NewEnhanced()
	if _, err := e.Term(-1); !errors.Is(err, ErrOutOfDomain) {
		t.Errorf("term(-1) error = %v, want ErrOutOfDomain", err)
	}
}

func TestBasicProviderStopsAtTable(t *testing.T) {
	e := NewBasic()

	if _, err := e.Term(e.KnownExactRange()); err != nil {
		t.Errorf("term at known range failed: %v", err)
	}
	if _, err := e.Term(e.KnownExactRange() + 1); !errors.Is(err, ErrOutOfDomain) {
		t.Errorf("basic term beyond table error = %v, want ErrOutOfDomain", err)
	}
}

func TestAsymptoticExtension(t *testing.T) {
	e := NewEnhanced()

	// Beyond the exact table terms must exist, stay positive, and grow.
	prev, err := e.Term(e.KnownExactRange())
	if err != nil {
		t.Fatal(err)
	}
	for n := e.KnownExactRange() + 1; n < e.KnownExactRange()+10; n++ {
		got, err := e.Term(n)
		if err != nil {
			t.Fatalf("term(%d) failed: %v", n, err)
		}
		if got <= prev {
			t.Errorf("term(%d) = %d not greater than term(%d) = %d", n, got, n-1, prev)
		}
		prev = got
	}
}

func TestAsymptoticMagnitude(t *testing.T) {
	// The approximation should land within a few percent of the exact
	// value already at n=30.
	exact := exactTerms[30]
	approx := asymptoticTerm(30)

	rel := (approx - float64(exact)) / float64(exact)
	if rel < -0.05 || rel > 0.05 {
		t.Errorf("asymptotic(30) = %.0f, exact = %d, relative error %.4f", approx, exact, rel)
	}
}

func TestSequenceRestartable(t *testing.T) {
	e := NewEnhanced()

	first := e.Terms(12)
	second := e.Terms(12)

	if len(first) != 12 || len(second) != 12 {
		t.Fatalf("sequence lengths = %d, %d, want 12", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("sequence not restartable at %d: %d vs %d", i, first[i], second[i])
		}
	}
}

func TestSequenceEarlyBreak(t *testing.T) {
	e := NewEnhanced()

	count := 0
	for range e.Sequence(100) {
		count++
		if count == 3 {
			break
		}
	}
	if count != 3 {
		t.Errorf("early break consumed %d terms, want 3", count)
	}
}

func TestIsValidCount(t *testing.T) {
	e := NewEnhanced()

	cases := []struct {
		n       int
		claimed int64
		want    bool
	}{
		{5, 9, true},
		{5, 10, false},
		{8, 115, true},
		{8, 100, false},
		{-1, 0, false},
	}
	for _, tc := range cases {
		if got := e.IsValidCount(tc.n, tc.claimed); got != tc.want {
			t.Errorf("isValidCount(%d, %d) = %v, want %v", tc.n, tc.claimed, got, tc.want)
		}
	}
}

func TestMaxNodesForBudget(t *testing.T) {
	e := NewEnhanced()

	cases := []struct {
		budget int64
		want   int
	}{
		{1, 2},    // a(2)=1, a(3)=2
		{100, 7},  // a(7)=48, a(8)=115
		{1000, 10}, // a(10)=719, a(11)=1842
	}
	for _, tc := range cases {
		if got := e.MaxNodesForBudget(tc.budget); got != tc.want {
			t.Errorf("maxNodesForBudget(%d) = %d, want %d", tc.budget, got, tc.want)
		}
	}
}

func TestDefaultIsStable(t *testing.T) {
	if Default() != Default() {
		t.Error("Default() returned distinct instances")
	}
}
