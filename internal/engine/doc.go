// Package engine evolves a membrane hierarchy by repeated multiset
// rewriting cycles.
//
// Each cycle validates every rule of every membrane, scans each membrane
// against a snapshot of its objects, selects at most one rule per
// membrane (highest priority first, weighted draw inside a probabilistic
// priority group), and only then mutates. A malformed rule fails the
// cycle with ErrInvalidRule whether or not it is currently applicable. Products are delivered after all
// consumptions, so communicated objects become visible at the start of
// the next cycle under both the synchronous and asynchronous strategies.
package engine
