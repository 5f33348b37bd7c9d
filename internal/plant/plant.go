// Package plant owns the authoritative state of a simulated plant and
// advances it one fixed time step at a time under a saturated input.
package plant

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
)

type Config struct {
	// Dt is the fixed integration step for the life of the plant.
	Dt float64
	// ForceLimit bounds the magnitude of the applied input.
	ForceLimit float64
	// Initial is copied; the caller keeps ownership of the slice.
	Initial dynamo.State
}

func (c Config) validate(dim int) error {
	var errs []error
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		errs = append(errs, &dynamo.ConfigError{Field: "dt", Value: c.Dt, Wrapped: dynamo.ErrInvalidStep})
	}
	if !(c.ForceLimit >= 0) {
		errs = append(errs, &dynamo.ConfigError{Field: "force_limit", Value: c.ForceLimit, Wrapped: dynamo.ErrParameterBounds})
	}
	if len(c.Initial) != dim {
		errs = append(errs, fmt.Errorf("initial state has %d components, model needs %d: %w",
			len(c.Initial), dim, dynamo.ErrDimensionMismatch))
	} else if !c.Initial.IsValid() {
		errs = append(errs, fmt.Errorf("initial state %v: %w", c.Initial, dynamo.ErrInvalidState))
	}
	return errors.Join(errs...)
}

// Plant integrates an [dynamo.Observable] model with RK4.
//
// A Plant is NOT safe for concurrent use: Step replaces the owned state and
// must not overlap with any other call on the same instance.
type Plant struct {
	dyn   dynamo.Observable
	integ dynamo.Integrator
	c     *mat.Dense

	x       dynamo.State
	y       *mat.VecDense
	dt      float64
	limit   float64
	t       float64
	steps   int
	applied float64
}

func New(dyn dynamo.Observable, cfg Config) (*Plant, error) {
	if dyn == nil {
		return nil, fmt.Errorf("plant: nil model")
	}
	if err := cfg.validate(dyn.StateDim()); err != nil {
		return nil, err
	}

	c := mat.DenseCopyOf(dyn.OutputMatrix())
	rows, cols := c.Dims()
	if cols != dyn.StateDim() {
		return nil, fmt.Errorf("output matrix is %dx%d for a %d-state model: %w",
			rows, cols, dyn.StateDim(), dynamo.ErrDimensionMismatch)
	}

	return &Plant{
		dyn:   dyn,
		integ: integrators.NewRK4(),
		c:     c,
		x:     cfg.Initial.Clone(),
		y:     mat.NewVecDense(rows, nil),
		dt:    cfg.Dt,
		limit: cfg.ForceLimit,
	}, nil
}

// Saturate clamps u to [-limit, limit]. NaN passes through unchanged.
func Saturate(u, limit float64) float64 {
	if math.Abs(u) > limit {
		return math.Copysign(limit, u)
	}
	return u
}

// Step saturates u and advances the state by exactly one Dt.
func (p *Plant) Step(u float64) {
	p.applied = Saturate(u, p.limit)
	p.x = p.integ.Step(p.dyn, p.x, p.applied, p.dt)
	p.steps++
	p.t = float64(p.steps) * p.dt
}

// Measure returns y = C·x for the current state.
func (p *Plant) Measure() []float64 {
	p.y.MulVec(p.c, mat.NewVecDense(len(p.x), p.x))
	out := make([]float64, p.y.Len())
	for i := range out {
		out[i] = p.y.AtVec(i)
	}
	return out
}

// Update is Step followed by Measure.
func (p *Plant) Update(u float64) []float64 {
	p.Step(u)
	return p.Measure()
}

// State returns a copy of the current state.
func (p *Plant) State() dynamo.State { return p.x.Clone() }

// Time is the simulated time elapsed since construction.
func (p *Plant) Time() float64 { return p.t }

func (p *Plant) Steps() int { return p.steps }

func (p *Plant) Dt() float64 { return p.dt }

func (p *Plant) ForceLimit() float64 { return p.limit }

// Applied is the saturated input used by the most recent Step.
func (p *Plant) Applied() float64 { return p.applied }

// Model returns the equations of motion the plant integrates.
func (p *Plant) Model() dynamo.Observable { return p.dyn }
