package bseries

import "errors"

var (
	// ErrOutOfRange indicates an order beyond the catalog's built max order.
	ErrOutOfRange = errors.New("bseries: order outside built catalog range")

	// ErrClassification indicates a per-order shape count disagreeing with
	// the A000081 enumeration. It is always fatal to the build.
	ErrClassification = errors.New("bseries: shape count disagrees with enumeration")

	// ErrNotFound indicates an unknown tree id.
	ErrNotFound = errors.New("bseries: unknown tree id")
)
