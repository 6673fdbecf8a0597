// Package enum computes the OEIS A000081 sequence: the number of
// unlabeled rooted trees with n nodes.
//
// Terms up to n=30 come from an exact table; beyond that the enhanced
// provider falls back to the asymptotic form
//
//	a(n) ~ D * alpha^n * n^(-3/2)
//
// with D ≈ 0.43992 and alpha ≈ 2.95577. The sequence constrains both the
// membrane hierarchy fan-out (internal/membrane) and the per-order shape
// counts of the B-series catalog (internal/bseries).
package enum
