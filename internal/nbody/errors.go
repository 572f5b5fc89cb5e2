package nbody

import (
	"errors"
	"fmt"
)

// Domain errors for body and ensemble construction.
var (
	// ErrNonPositiveMass indicates a body mass that is zero, negative or NaN.
	ErrNonPositiveMass = errors.New("nbody: mass must be positive")

	// ErrEmptyEnsemble indicates an ensemble with no bodies.
	ErrEmptyEnsemble = errors.New("nbody: ensemble needs at least one body")

	// ErrTooManyBodies indicates an ensemble larger than the configured maximum.
	ErrTooManyBodies = errors.New("nbody: too many bodies")
)

// BodyError wraps an error with the index of the offending body.
type BodyError struct {
	Index   int
	Wrapped error
}

func (e *BodyError) Error() string {
	return fmt.Sprintf("body %d: %v", e.Index, e.Wrapped)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
