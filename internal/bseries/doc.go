// Package bseries enumerates canonical unlabeled rooted tree shapes and
// tags each with the quantities B-series theory attaches to it: the
// symmetry factor σ(τ), the density γ(τ), and the weight α(τ) = 1/(σ·γ)
// that reproduces the Taylor expansion of the exact ODE flow.
//
// Shapes are generated deterministically by composing child multisets out
// of previously generated shapes, so tree ids are stable across runs for a
// given max order and partition into contiguous per-order ranges. Per-order
// shape counts are cross-checked against the A000081 enumeration
// (internal/enum); any disagreement aborts the build.
//
// A built Catalog is immutable and safe for concurrent reads.
package bseries
