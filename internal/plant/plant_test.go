package plant_test

import (
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/plant"
)

var _ = Describe("Saturate", func() {
	DescribeTable("clamps to the force limit",
		func(u, limit, want float64) {
			Expect(plant.Saturate(u, limit)).To(Equal(want))
		},
		Entry("inside the band", 0.5, 1.0, 0.5),
		Entry("above the limit", 3.0, 1.0, 1.0),
		Entry("below the negative limit", -7.5, 5.0, -5.0),
		Entry("on the limit", 5.0, 5.0, 5.0),
		Entry("zero limit", 2.0, 0.0, 0.0),
	)

	It("is idempotent and bounded", func() {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 5000; i++ {
			u := (rng.Float64()*2 - 1) * 100
			limit := rng.Float64() * 50
			once := plant.Saturate(u, limit)
			Expect(plant.Saturate(once, limit)).To(Equal(once))
			Expect(math.Abs(once)).To(BeNumerically("<=", limit))
		}
	})

	It("propagates NaN", func() {
		Expect(math.IsNaN(plant.Saturate(math.NaN(), 1))).To(BeTrue())
	})
})

var _ = Describe("Plant", func() {
	var linear *physics.Linear

	BeforeEach(func() {
		var err error
		linear, err = physics.NewLinear(physics.NominalLinear(), nil)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("construction", func() {
		It("rejects a non-positive step", func() {
			_, err := plant.New(linear, plant.Config{Dt: 0, ForceLimit: 1, Initial: dynamo.State{0, 0}})
			Expect(errors.Is(err, dynamo.ErrInvalidStep)).To(BeTrue())
		})

		It("rejects a negative force limit", func() {
			_, err := plant.New(linear, plant.Config{Dt: 0.01, ForceLimit: -1, Initial: dynamo.State{0, 0}})
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		})

		It("rejects an initial state of the wrong dimension", func() {
			_, err := plant.New(linear, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: dynamo.State{0, 0, 0, 0}})
			Expect(errors.Is(err, dynamo.ErrDimensionMismatch)).To(BeTrue())
		})

		It("rejects a non-finite initial state", func() {
			_, err := plant.New(linear, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: dynamo.State{math.NaN(), 0}})
			Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		})

		It("reports every violation at once", func() {
			_, err := plant.New(linear, plant.Config{Dt: -1, ForceLimit: -1, Initial: dynamo.State{0}})
			Expect(errors.Is(err, dynamo.ErrInvalidStep)).To(BeTrue())
			Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
			Expect(errors.Is(err, dynamo.ErrDimensionMismatch)).To(BeTrue())
		})

		It("copies the initial state", func() {
			x0 := dynamo.State{1, 2}
			p, err := plant.New(linear, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: x0})
			Expect(err).NotTo(HaveOccurred())
			x0[0] = 99
			Expect(p.State()).To(Equal(dynamo.State{1, 2}))
		})
	})

	Describe("linear plant", func() {
		It("matches the closed-form RK4 step", func() {
			p, err := plant.New(linear, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: dynamo.State{0, 0}})
			Expect(err).NotTo(HaveOccurred())

			y := p.Update(1.0)

			Expect(y).To(HaveLen(1))
			Expect(y[0]).To(BeNumerically("~", 0.00019866833333333334, 1e-15))
			Expect(p.State()[1]).To(BeNumerically("~", 0.039600673333333336, 1e-15))
			Expect(p.Time()).To(BeNumerically("~", 0.01, 1e-15))
			Expect(p.Steps()).To(Equal(1))
		})

		It("saturates the input before integrating", func() {
			clamped, _ := plant.New(linear, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: dynamo.State{0, 0}})
			exact, _ := plant.New(linear, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: dynamo.State{0, 0}})

			clamped.Step(250)
			exact.Step(1)

			Expect(clamped.Applied()).To(Equal(1.0))
			Expect(clamped.State()).To(Equal(exact.State()))
		})

		It("stays at rest under zero input", func() {
			p, _ := plant.New(linear, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: dynamo.State{0, 0}})
			for i := 0; i < 100; i++ {
				p.Update(0)
			}
			Expect(p.State()).To(Equal(dynamo.State{0, 0}))
			Expect(p.Time()).To(BeNumerically("~", 1.0, 1e-12))
		})

		It("settles to the static gain b0/a0 under a constant input", func() {
			p, _ := plant.New(linear, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: dynamo.State{0, 0}})
			var y []float64
			for i := 0; i < 3000; i++ {
				y = p.Update(0.5)
			}
			Expect(y[0]).To(BeNumerically("~", 0.5*4.0/3.0, 1e-6))
		})
	})

	Describe("cart-pole plant", func() {
		var (
			cartpole *physics.CartPole
			x0       dynamo.State
		)

		BeforeEach(func() {
			var err error
			cartpole, err = physics.NewCartPole(physics.NominalCartPole(), nil)
			Expect(err).NotTo(HaveOccurred())
			x0 = dynamo.State{0.01 * math.Pi / 180, 0, 0, 0}
		})

		It("holds the upright equilibrium", func() {
			p, _ := plant.New(cartpole, plant.Config{Dt: 0.01, ForceLimit: 5, Initial: dynamo.State{0, 0, 0, 0}})
			for i := 0; i < 1000; i++ {
				p.Step(0)
			}
			for _, v := range p.State() {
				Expect(math.Abs(v)).To(BeNumerically("<=", 1e-12))
			}
		})

		It("measures angle and cart position", func() {
			p, _ := plant.New(cartpole, plant.Config{Dt: 0.01, ForceLimit: 5, Initial: dynamo.State{0.3, -1.5, 2, 3}})
			Expect(p.Measure()).To(Equal([]float64{0.3, -1.5}))
		})

		It("pushes the cart forward and lets the rod fall under a constant force", func() {
			p, _ := plant.New(cartpole, plant.Config{Dt: 0.01, ForceLimit: 5, Initial: x0})

			prevZ := 0.0
			maxTheta := 0.0
			type checkpoint struct {
				step int
				x    dynamo.State
				tol  float64
			}
			baseline := []checkpoint{
				{100, dynamo.State{-0.056967450927318752, 0.015530076868145951, -0.244706235362421, 0.043809724048049746}, 1e-9},
				{500, dynamo.State{-0.17878650377673927, 0.25203536773237195, 0.37022807084424536, 0.053485913635202519}, 1e-8},
				{1000, dynamo.State{-4.8448605314017303, 0.77866026593048709, -4.9665906470336845, 0.23445452590808499}, 1e-6},
				{2000, dynamo.State{-5.2452522531807002, 3.0296362097299743, -3.6112298996115428, 0.46226565013834559}, 1e-5},
			}
			next := 0

			for i := 1; i <= 2000; i++ {
				y := p.Update(0.025)
				if i <= 150 {
					Expect(y[1]).To(BeNumerically(">", prevZ), "cart moved backwards at step %d", i)
				}
				prevZ = y[1]
				maxTheta = math.Max(maxTheta, math.Abs(y[0]))

				if next < len(baseline) && baseline[next].step == i {
					got := p.State()
					for j, want := range baseline[next].x {
						Expect(got[j]).To(BeNumerically("~", want, baseline[next].tol),
							"component %d at step %d", j, i)
					}
					next++
				}
			}

			Expect(next).To(Equal(len(baseline)))
			Expect(prevZ).To(BeNumerically(">", 0))
			Expect(maxTheta).To(BeNumerically(">", math.Pi/2))
		})

		It("is deterministic for identical parameters and inputs", func() {
			params := physics.NominalCartPole()
			params.Uncertainty = 0.2
			a, _ := physics.NewCartPole(params, rand.New(rand.NewSource(99)))
			b, _ := physics.NewCartPole(params, rand.New(rand.NewSource(99)))

			pa, _ := plant.New(a, plant.Config{Dt: 0.01, ForceLimit: 5, Initial: x0})
			pb, _ := plant.New(b, plant.Config{Dt: 0.01, ForceLimit: 5, Initial: x0})

			for i := 0; i < 500; i++ {
				u := 3 * math.Sin(float64(i)*0.05)
				Expect(pa.Update(u)).To(Equal(pb.Update(u)))
			}
			Expect(pa.State()).To(Equal(pb.State()))
		})

		It("does not dissipate energy it never had", func() {
			p, _ := plant.New(cartpole, plant.Config{Dt: 0.001, ForceLimit: 5, Initial: dynamo.State{0.5, 0, 0, 0.4}})
			e0 := cartpole.Energy(p.State())
			for i := 0; i < 5000; i++ {
				p.Step(0)
			}
			Expect(cartpole.Energy(p.State())).To(BeNumerically("<=", e0+1e-9))
		})

		It("hands out snapshots that cannot alias the owned state", func() {
			p, _ := plant.New(cartpole, plant.Config{Dt: 0.01, ForceLimit: 5, Initial: x0})
			snap := p.State()
			snap[0] = 42
			Expect(p.State()[0]).To(Equal(x0[0]))
		})
	})
})
