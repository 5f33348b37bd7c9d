// Package integrators advances a [dynamo.System] by one fixed time step.
//
// Only the explicit classical RK4 scheme is provided. It has no error
// estimate and no step-size control: Δt must be chosen small enough for the
// fastest mode of the model being integrated.
package integrators
