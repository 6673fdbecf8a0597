package enum

import "errors"

var (
	// ErrOutOfDomain indicates a negative or otherwise invalid sequence index.
	ErrOutOfDomain = errors.New("enum: index outside enumeration domain")
)
