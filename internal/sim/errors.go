package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs.
var (
	// ErrNonFiniteState indicates a state or derivative became NaN or Inf.
	ErrNonFiniteState = errors.New("sim: non-finite state (NaN or Inf)")

	// ErrParameterBounds indicates a model parameter violates a precondition.
	ErrParameterBounds = errors.New("sim: parameter out of valid bounds")

	// ErrInvalidGrid indicates a malformed time grid.
	ErrInvalidGrid = errors.New("sim: invalid time grid")
)

// StepError reports the grid index at which a run failed. The run is
// aborted at that point; no partial trajectory is returned.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6f): %v", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
