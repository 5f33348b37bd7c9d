package physics

import (
	"math/rand"

	"github.com/san-kum/pendsim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// Linear is the single-degree-of-freedom plant ÿ = -a1·ẏ - a0·y + b0·u with
// state (y, ẏ) and output y.
type Linear struct {
	A0 float64
	A1 float64
	B0 float64

	c *mat.Dense
}

func NewLinear(p LinearParams, rng *rand.Rand) (*Linear, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	eff := p.Effective(rng)
	return &Linear{
		A0: eff.A0,
		A1: eff.A1,
		B0: eff.B0,
		c:  mat.NewDense(1, 2, []float64{1, 0}),
	}, nil
}

func (l *Linear) StateDim() int { return 2 }

func (l *Linear) Derive(x dynamo.State, u float64) dynamo.State {
	y, ydot := x[0], x[1]
	yddot := -l.A1*ydot - l.A0*y + l.B0*u
	return dynamo.State{ydot, yddot}
}

func (l *Linear) OutputMatrix() mat.Matrix { return l.c }

func (l *Linear) GetParams() map[string]float64 {
	return map[string]float64{
		"a0": l.A0,
		"a1": l.A1,
		"b0": l.B0,
	}
}
