package calculus

import "errors"

var (
	// ErrUnsupportedOrder indicates the supplied function lacks a
	// derivative order the requested trees demand.
	ErrUnsupportedOrder = errors.New("calculus: unsupported differential order")

	// ErrOutOfRange indicates a non-positive step size, an unknown tree
	// id, or a truncation order outside the catalog's range.
	ErrOutOfRange = errors.New("calculus: argument out of range")
)
