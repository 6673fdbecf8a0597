package membrane

import "errors"

var (
	// ErrNotFound indicates an unknown membrane id.
	ErrNotFound = errors.New("membrane: unknown membrane id")

	// ErrStructureViolation indicates an illegal hierarchy edit, such as
	// creating a second root.
	ErrStructureViolation = errors.New("membrane: illegal hierarchy structure")
)
