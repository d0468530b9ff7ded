package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation setup and runs.
var (
	// ErrDegenerateConstraint indicates a boundary with non-positive or non-finite extents.
	ErrDegenerateConstraint = errors.New("dynamo: constraint width and height must be positive and finite")

	// ErrInvalidHertz indicates a simulation rate that cannot produce a timestep.
	ErrInvalidHertz = errors.New("dynamo: simulation hertz must be positive")

	// ErrInvalidState indicates a particle position became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid particle state (NaN or Inf detected)")

	// ErrInvalidDuration indicates a run length that is not positive.
	ErrInvalidDuration = errors.New("dynamo: run duration must be positive")

	// ErrUnknownPreset indicates a preset name not present in the preset table.
	ErrUnknownPreset = errors.New("dynamo: unknown preset")
)

// StepError wraps an error with the tick that produced it.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
