package physics

import (
	"errors"
	"math/rand"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Physical holds the nominal cart-pole parameters and the uncertainty
// fraction used to perturb them. All quantities are SI.
type Physical struct {
	PendulumMass float64 // m1, kg
	CartMass     float64 // m2, kg
	RodLength    float64 // ℓ, m
	Gravity      float64 // g, m/s²
	Damping      float64 // b, N·s/m
	Uncertainty  float64 // α in [0, 1)
}

// NominalCartPole returns the reference parameter set with no uncertainty.
func NominalCartPole() Physical {
	return Physical{
		PendulumMass: 0.25,
		CartMass:     1.0,
		RodLength:    1.0,
		Gravity:      9.8,
		Damping:      0.05,
		Uncertainty:  0.0,
	}
}

func (p Physical) Validate() error {
	return errors.Join(
		positive("pendulum_mass", p.PendulumMass),
		positive("cart_mass", p.CartMass),
		positive("rod_length", p.RodLength),
		positive("gravity", p.Gravity),
		positive("damping", p.Damping),
		fraction("uncertainty", p.Uncertainty),
	)
}

// Effective is the perturbed parameter set a model actually integrates with.
type Effective struct {
	PendulumMass float64
	CartMass     float64
	RodLength    float64
	Gravity      float64
	Damping      float64
}

// Effective draws one perturbation factor in [1-α, 1+α] per quantity from
// rng. A nil rng yields the nominal values.
func (p Physical) Effective(rng *rand.Rand) Effective {
	a := p.Uncertainty
	return Effective{
		PendulumMass: perturb(p.PendulumMass, a, rng),
		CartMass:     perturb(p.CartMass, a, rng),
		RodLength:    perturb(p.RodLength, a, rng),
		Gravity:      perturb(p.Gravity, a, rng),
		Damping:      perturb(p.Damping, a, rng),
	}
}

// LinearParams are the coefficients of ÿ + a1·ẏ + a0·y = b0·u.
type LinearParams struct {
	A0          float64
	A1          float64
	B0          float64
	Uncertainty float64
}

func NominalLinear() LinearParams {
	return LinearParams{A0: 3.0, A1: 2.0, B0: 4.0}
}

func (p LinearParams) Validate() error {
	var a1 error
	if !(p.A1 >= 0) {
		a1 = &dynamo.ConfigError{Field: "a1", Value: p.A1, Wrapped: dynamo.ErrParameterBounds}
	}
	return errors.Join(
		positive("a0", p.A0),
		a1,
		positive("b0", p.B0),
		fraction("uncertainty", p.Uncertainty),
	)
}

// Effective returns a copy with each coefficient perturbed. Uncertainty is
// zeroed on the result so it cannot be perturbed twice.
func (p LinearParams) Effective(rng *rand.Rand) LinearParams {
	a := p.Uncertainty
	return LinearParams{
		A1: perturb(p.A1, a, rng),
		A0: perturb(p.A0, a, rng),
		B0: perturb(p.B0, a, rng),
	}
}

func perturb(nominal, alpha float64, rng *rand.Rand) float64 {
	if rng == nil || alpha == 0 {
		return nominal
	}
	return nominal * (1 + alpha*(2*rng.Float64()-1))
}

func positive(field string, v float64) error {
	if v > 0 {
		return nil
	}
	return &dynamo.ConfigError{Field: field, Value: v, Wrapped: dynamo.ErrParameterBounds}
}

func fraction(field string, v float64) error {
	if v >= 0 && v < 1 {
		return nil
	}
	return &dynamo.ConfigError{Field: field, Value: v, Wrapped: dynamo.ErrParameterBounds}
}
