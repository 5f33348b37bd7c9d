package physics

import (
	"math"
	"math/rand"

	"github.com/san-kum/pendsim/internal/dynamo"
	"gonum.org/v1/gonum/mat"
)

// CartPole is a uniform rod of mass m1 and length ℓ pinned to a cart of mass
// m2, driven by a horizontal force F on the cart. State is (θ, z, θ̇, ż) with
// θ = 0 upright; output is (θ, z).
//
// The mass matrix determinant is m1·ℓ²·(m1/12 + m2/3 + m1·sin²θ/4), strictly
// positive for positive masses and length, so M(θ) is invertible for every
// reachable θ.
type CartPole struct {
	params Effective
	c      *mat.Dense
}

func NewCartPole(p Physical, rng *rand.Rand) (*CartPole, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &CartPole{
		params: p.Effective(rng),
		c: mat.NewDense(2, 4, []float64{
			1, 0, 0, 0,
			0, 1, 0, 0,
		}),
	}, nil
}

func (c *CartPole) StateDim() int { return 4 }

func (c *CartPole) Params() Effective { return c.params }

// MassMatrix returns M(θ) for generalized coordinates q = (θ, z).
func (c *CartPole) MassMatrix(theta float64) [2][2]float64 {
	m1, m2, l := c.params.PendulumMass, c.params.CartMass, c.params.RodLength
	off := m1 * (l / 2) * math.Cos(theta)
	return [2][2]float64{
		{m1 * l * l / 3, off},
		{off, m1 + m2},
	}
}

// GeneralizedForces returns P(θ, θ̇, u), the right-hand side of M·q̈ = P.
func (c *CartPole) GeneralizedForces(x dynamo.State, u float64) [2]float64 {
	theta, thetaDot, zDot := x[0], x[2], x[3]
	m1, l := c.params.PendulumMass, c.params.RodLength
	sint := math.Sin(theta)
	return [2]float64{
		m1 * c.params.Gravity * (l / 2) * sint,
		m1*(l/2)*thetaDot*thetaDot*sint + u - c.params.Damping*zDot,
	}
}

func (c *CartPole) Derive(x dynamo.State, u float64) dynamo.State {
	m := c.MassMatrix(x[0])
	p := c.GeneralizedForces(x, u)

	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	thetaAcc := (m[1][1]*p[0] - m[0][1]*p[1]) / det
	zAcc := (m[0][0]*p[1] - m[1][0]*p[0]) / det

	return dynamo.State{x[2], x[3], thetaAcc, zAcc}
}

func (c *CartPole) OutputMatrix() mat.Matrix { return c.c }

// Energy is ½·q̇ᵀM(θ)q̇ + m1·g·(ℓ/2)·cosθ.
func (c *CartPole) Energy(x dynamo.State) float64 {
	m := c.MassMatrix(x[0])
	thetaDot, zDot := x[2], x[3]
	ke := 0.5 * (m[0][0]*thetaDot*thetaDot + 2*m[0][1]*thetaDot*zDot + m[1][1]*zDot*zDot)
	pe := c.params.PendulumMass * c.params.Gravity * (c.params.RodLength / 2) * math.Cos(x[0])
	return ke + pe
}

func (c *CartPole) GetParams() map[string]float64 {
	return map[string]float64{
		"pendulum_mass": c.params.PendulumMass,
		"cart_mass":     c.params.CartMass,
		"rod_length":    c.params.RodLength,
		"gravity":       c.params.Gravity,
		"damping":       c.params.Damping,
	}
}
