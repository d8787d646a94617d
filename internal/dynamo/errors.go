package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates the physics step diverged.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrConfigMismatch indicates the renderer's compiled sphere capacity
	// differs from the number of bodies in the scene.
	ErrConfigMismatch = errors.New("dynamo: sphere count does not match renderer capacity")

	// ErrUnknownBody indicates a body handle not issued by the world.
	ErrUnknownBody = errors.New("dynamo: unknown body handle")

	// ErrDimensionMismatch indicates mismatched array lengths.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")
)

// SimulationError wraps an error with frame context.
type SimulationError struct {
	Frame   uint64
	Phase   string
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (%s): %v", e.Frame, e.Phase, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
