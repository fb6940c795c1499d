package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation construction and runs.
var (
	// ErrInvalidMass indicates a body mass that is zero, negative or not finite.
	ErrInvalidMass = errors.New("dynamo: mass must be positive")

	// ErrInvalidRadius indicates a body radius that is zero, negative or not finite.
	ErrInvalidRadius = errors.New("dynamo: radius must be positive")

	// ErrInvalidCoefficient indicates a restitution or damping value outside [0, 1].
	ErrInvalidCoefficient = errors.New("dynamo: coefficient out of [0, 1]")

	// ErrInvalidBoundary indicates a non-positive half-extent, or a body
	// that cannot fit inside the boundary.
	ErrInvalidBoundary = errors.New("dynamo: invalid boundary")

	// ErrInvalidState indicates a body whose position or velocity is NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates vectors of the wrong dimensionality.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch")
)

// SimulationError wraps an error with the frame it was detected on.
type SimulationError struct {
	Frame   int
	Time    float64
	Body    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("frame %d (t=%.4f) body %d: %v", e.Frame, e.Time, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
