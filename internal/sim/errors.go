package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a run configuration that cannot be simulated.
	ErrInvalidConfig = errors.New("sim: invalid config")

	// ErrNonFinite indicates a body whose position or velocity became NaN or Inf.
	ErrNonFinite = errors.New("sim: non-finite body state")
)

// TickError annotates an error with where in the run it happened.
type TickError struct {
	Tick    int
	Time    float64
	Body    int
	Wrapped error
}

func (e *TickError) Error() string {
	return fmt.Sprintf("tick %d (t=%.4f) body %d: %v", e.Tick, e.Time, e.Body, e.Wrapped)
}

func (e *TickError) Unwrap() error {
	return e.Wrapped
}
