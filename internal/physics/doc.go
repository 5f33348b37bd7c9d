// Package physics provides the equations of motion of the simulated plants.
//
// Each model implements [dynamo.Observable], mapping (state, input) to the
// state derivative and exposing a linear output map:
//
//   - [Linear]: second-order linear plant ÿ = -a1·ẏ - a0·y + b0·u
//   - [CartPole]: rod-and-cart inverted pendulum, solved from its
//     Lagrangian mass matrix M(θ)·q̈ = P(θ, θ̇, u)
//
// Parameters are perturbed once, at construction, by a uniformly drawn
// factor in [1-α, 1+α] taken from a caller-supplied *rand.Rand. Models are
// immutable afterwards, so Derive is pure.
//
// # Energy
//
// [CartPole] also implements [dynamo.Hamiltonian]:
//
//	dyn, _ := physics.NewCartPole(physics.NominalCartPole(), nil)
//	if h, ok := any(dyn).(dynamo.Hamiltonian); ok {
//	    energy := h.Energy(state)
//	}
package physics
