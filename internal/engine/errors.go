package engine

import "errors"

var (
	// ErrInvalidRule indicates a selected rule that cannot be applied, such
	// as one addressing a nonexistent target membrane. The cycle that
	// detects it leaves the hierarchy untouched.
	ErrInvalidRule = errors.New("engine: invalid rule")

	// ErrUnknownStrategy indicates a Config.Strategy outside the supported
	// set.
	ErrUnknownStrategy = errors.New("engine: unknown evolution strategy")

	// ErrBadConfig indicates a non-positive worker count or cycle budget.
	ErrBadConfig = errors.New("engine: invalid configuration")
)
