// Package dynamo provides the core primitives shared by the plant simulator.
//
// The package defines the state vector and the small set of interfaces the
// rest of the module is built on:
//
//   - [State]: ordered vector of generalized coordinates and rates
//   - [System]: equations of motion in state-space form, dx/dt = f(x, u)
//   - [Observable]: a System with a linear output map y = C·x
//   - [Integrator]: fixed-step numerical integrator
//   - [Metric]: per-tick run diagnostic
//
// # Example
//
//	dyn, _ := physics.NewCartPole(physics.NominalCartPole(), nil)
//	p, _ := plant.New(dyn, plant.Config{Dt: 0.01, ForceLimit: 5, Initial: x0})
//	y := p.Update(0.025)
//
// # Thread Safety
//
// Systems are immutable after construction and safe for concurrent Derive
// calls. Integrators own scratch buffers and are NOT safe for concurrent use.
package dynamo
