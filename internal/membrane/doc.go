// Package membrane implements the P-System membrane hierarchy whose
// per-depth fan-out follows the A000081 rooted-tree enumeration.
//
// Membranes live in a flat arena indexed by id; parent and child links are
// plain ids, never pointers, so ownership stays with the hierarchy and the
// structure cannot form reference cycles. Topology is immutable once a
// membrane is created; evolution (internal/engine) mutates object
// multisets and rule state only.
package membrane
