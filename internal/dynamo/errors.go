package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for construction and simulation.
var (
	// ErrParameterBounds indicates a physical parameter is outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidStep indicates a non-positive or non-finite integration step.
	ErrInvalidStep = errors.New("dynamo: time step must be positive and finite")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrInvalidState indicates a state vector with NaN or Inf entries.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnknownModel indicates a model variant name that is not registered.
	ErrUnknownModel = errors.New("dynamo: unknown model")

	// ErrUnknownSignal indicates an input signal kind that is not registered.
	ErrUnknownSignal = errors.New("dynamo: unknown signal")
)

// ConfigError reports a rejected construction input.
type ConfigError struct {
	Field   string
	Value   float64
	Wrapped error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s = %g: %v", e.Field, e.Value, e.Wrapped)
}

func (e *ConfigError) Unwrap() error {
	return e.Wrapped
}

// SimulationError wraps an error with the tick at which the driver stopped.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
