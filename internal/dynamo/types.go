package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// State is an ordered vector of generalized coordinates followed by their
// rates, e.g. (θ, z, θ̇, ż) for the cart-pole or (y, ẏ) for the linear plant.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Add returns s + other. Both must have the same length; like the gonum
// routines it is built on, it panics otherwise.
func (s State) Add(other State) State {
	result := s.Clone()
	floats.Add(result, other)
	return result
}

// Scale returns factor·s.
func (s State) Scale(factor float64) State {
	result := s.Clone()
	floats.Scale(factor, result)
	return result
}

// System is a model in state-space form. Derive must be pure: it reads only
// its arguments and the model's immutable parameters.
type System interface {
	Derive(x State, u float64) State
	StateDim() int
}

// Observable is a System whose measured output is a linear projection of
// the state, y = C·x.
type Observable interface {
	System
	OutputMatrix() mat.Matrix
}

// Hamiltonian is implemented by models with a mechanical energy.
type Hamiltonian interface {
	Energy(x State) float64
}

type Integrator interface {
	Step(dyn System, x State, u float64, dt float64) State
}

// Metric accumulates a diagnostic over the ticks of a run. u is the applied
// (saturated) input.
type Metric interface {
	Name() string
	Observe(x State, u float64, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, u float64, t float64)
}
