package integrators

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// RK4 is the classical fourth-order Runge-Kutta scheme. Every stage is
// evaluated on a scratch snapshot built from the unmodified base state, and
// the base state is never written: Step returns a fresh State.
type RK4 struct {
	k1, k2, k3, k4 dynamo.State
	scratch        dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensureScratch(n int) {
	if len(r.k1) != n {
		r.k1 = make(dynamo.State, n)
		r.k2 = make(dynamo.State, n)
		r.k3 = make(dynamo.State, n)
		r.k4 = make(dynamo.State, n)
		r.scratch = make(dynamo.State, n)
	}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u float64, dt float64) dynamo.State {
	n := len(x)
	r.ensureScratch(n)

	copy(r.k1, dyn.Derive(x, u))

	floats.AddScaledTo(r.scratch, x, dt*0.5, r.k1)
	copy(r.k2, dyn.Derive(r.scratch, u))

	floats.AddScaledTo(r.scratch, x, dt*0.5, r.k2)
	copy(r.k3, dyn.Derive(r.scratch, u))

	floats.AddScaledTo(r.scratch, x, dt, r.k3)
	copy(r.k4, dyn.Derive(r.scratch, u))

	// x + dt/6·(k1 + 2k2 + 2k3 + k4), summed left to right.
	incr := r.k1.Add(r.k2.Scale(2)).Add(r.k3.Scale(2)).Add(r.k4)
	return x.Add(incr.Scale(dt / 6.0))
}
