package sim_test

import (
	"context"
	"errors"
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/metrics"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/plant"
	"github.com/san-kum/pendsim/internal/signal"
	"github.com/san-kum/pendsim/internal/sim"
)

// diverging produces NaN after the first step.
type diverging struct{}

func (diverging) StateDim() int { return 1 }
func (diverging) Derive(x dynamo.State, u float64) dynamo.State {
	return dynamo.State{math.NaN()}
}
func (diverging) OutputMatrix() mat.Matrix { return mat.NewDense(1, 1, []float64{1}) }

type countingObserver struct{ calls int }

func (c *countingObserver) OnStep(x dynamo.State, u float64, t float64) { c.calls++ }

func linearPlant(x0 dynamo.State) *plant.Plant {
	dyn, err := physics.NewLinear(physics.NominalLinear(), nil)
	Expect(err).NotTo(HaveOccurred())
	p, err := plant.New(dyn, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: x0})
	Expect(err).NotTo(HaveOccurred())
	return p
}

var _ = Describe("Simulator", func() {
	ctx := context.Background()

	It("records every tick plus the initial condition", func() {
		s := sim.New(linearPlant(dynamo.State{0, 0}), signal.Constant(1), nil)

		res, err := s.Run(ctx, sim.Config{Duration: 1.0})
		Expect(err).NotTo(HaveOccurred())

		Expect(res.StepsTaken).To(Equal(100))
		Expect(res.Times).To(HaveLen(101))
		Expect(res.Outputs).To(HaveLen(101))
		Expect(res.States).To(HaveLen(101))
		Expect(res.Times[0]).To(Equal(0.0))
		Expect(res.Times[100]).To(BeNumerically("~", 1.0, 1e-12))
		Expect(res.Outputs[1][0]).To(BeNumerically("~", 0.00019866833333333334, 1e-15))
		Expect(res.Params).To(HaveKeyWithValue("a0", 3.0))
	})

	It("decimates the history without skipping integration", func() {
		s := sim.New(linearPlant(dynamo.State{0, 0}), signal.Constant(1), nil)

		res, err := s.Run(ctx, sim.Config{Duration: 1.05, RecordEvery: 10})
		Expect(err).NotTo(HaveOccurred())

		Expect(res.StepsTaken).To(Equal(105))
		// initial + 10 decimated samples + the final tick
		Expect(res.Times).To(HaveLen(12))
		Expect(res.Times[1]).To(BeNumerically("~", 0.1, 1e-12))
		Expect(res.Times[11]).To(BeNumerically("~", 1.05, 1e-12))
	})

	It("keeps the linear plant at rest under zero input", func() {
		s := sim.New(linearPlant(dynamo.State{0, 0}), signal.Constant(0), nil)

		res, err := s.Run(ctx, sim.Config{Duration: 1.0})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.States[len(res.States)-1]).To(Equal(dynamo.State{0, 0}))
	})

	It("records raw and applied inputs separately", func() {
		s := sim.New(linearPlant(dynamo.State{0, 0}), signal.Constant(-4), nil)
		s.AddMetric(metrics.NewSaturation(1))
		s.AddMetric(metrics.NewControlEffort())

		res, err := s.Run(ctx, sim.Config{Duration: 0.1})
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Inputs[1]).To(Equal(-4.0))
		Expect(res.Applied[1]).To(Equal(-1.0))
		Expect(res.Metrics).To(HaveKeyWithValue("saturation", 1.0))
		Expect(res.Metrics).To(HaveKeyWithValue("control_effort", 1.0))
	})

	It("notifies observers once per tick", func() {
		s := sim.New(linearPlant(dynamo.State{0, 0}), signal.Constant(0), nil)
		obs := &countingObserver{}
		s.AddObserver(obs)

		_, err := s.Run(ctx, sim.Config{Duration: 0.5})
		Expect(err).NotTo(HaveOccurred())
		Expect(obs.calls).To(Equal(50))
	})

	DescribeTable("rejects invalid durations",
		func(duration float64) {
			s := sim.New(linearPlant(dynamo.State{0, 0}), signal.Constant(0), nil)
			_, err := s.Run(ctx, sim.Config{Duration: duration})
			Expect(err).To(HaveOccurred())
		},
		Entry("zero", 0.0),
		Entry("negative", -1.0),
		Entry("NaN", math.NaN()),
	)

	It("rejects a duration that rounds to no steps", func() {
		s := sim.New(linearPlant(dynamo.State{0, 0}), signal.Constant(0), nil)
		res, err := s.Run(ctx, sim.Config{Duration: 0.004})

		Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
		Expect(res).To(BeNil())
		Expect(s.Plant().Steps()).To(Equal(0))
	})

	It("counts only its own steps when the plant is reused", func() {
		p := linearPlant(dynamo.State{0, 0})
		s := sim.New(p, signal.Constant(1), nil)

		_, err := s.Run(ctx, sim.Config{Duration: 0.5})
		Expect(err).NotTo(HaveOccurred())
		res, err := s.Run(ctx, sim.Config{Duration: 0.25})
		Expect(err).NotTo(HaveOccurred())

		Expect(res.StepsTaken).To(Equal(25))
		Expect(p.Steps()).To(Equal(75))
		Expect(res.Times[0]).To(BeNumerically("~", 0.5, 1e-12))
	})

	It("stops at the first non-finite state when validating", func() {
		p, err := plant.New(diverging{}, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: dynamo.State{1}})
		Expect(err).NotTo(HaveOccurred())

		res, err := sim.New(p, signal.Constant(0), nil).Run(ctx, sim.Config{Duration: 1, ValidateState: true})

		Expect(errors.Is(err, dynamo.ErrInvalidState)).To(BeTrue())
		var simErr *dynamo.SimulationError
		Expect(errors.As(err, &simErr)).To(BeTrue())
		Expect(simErr.Step).To(Equal(0))
		Expect(res.StepsTaken).To(Equal(1))
	})

	It("lets non-finite states propagate when not validating", func() {
		p, _ := plant.New(diverging{}, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: dynamo.State{1}})

		res, err := sim.New(p, signal.Constant(0), nil).Run(ctx, sim.Config{Duration: 0.1})

		Expect(err).NotTo(HaveOccurred())
		Expect(math.IsNaN(res.Final()[0])).To(BeTrue())
	})

	It("honours context cancellation", func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		res, err := sim.New(linearPlant(dynamo.State{0, 0}), signal.Constant(0), nil).Run(cctx, sim.Config{Duration: 1})
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
		Expect(res.StepsTaken).To(Equal(0))
	})
})

var _ = Describe("Ensemble", func() {
	build := func(alpha float64) sim.Builder {
		return func(seed int64) (*sim.Simulator, error) {
			params := physics.NominalLinear()
			params.Uncertainty = alpha
			dyn, err := physics.NewLinear(params, rand.New(rand.NewSource(seed)))
			if err != nil {
				return nil, err
			}
			p, err := plant.New(dyn, plant.Config{Dt: 0.01, ForceLimit: 1, Initial: dynamo.State{0, 0}})
			if err != nil {
				return nil, err
			}
			return sim.New(p, signal.Constant(1), nil), nil
		}
	}

	It("runs one member per seed with distinct parameters", func() {
		res, err := sim.NewEnsemble(build(0.2), 8, 100).Run(context.Background(), sim.Config{Duration: 0.5})
		Expect(err).NotTo(HaveOccurred())

		Expect(res.Runs).To(HaveLen(8))
		Expect(res.Seeds).To(Equal([]int64{100, 101, 102, 103, 104, 105, 106, 107}))
		Expect(res.Runs[0].Params["a0"]).NotTo(Equal(res.Runs[1].Params["a0"]))
		Expect(res.FinalMean).To(HaveLen(1))
		Expect(res.FinalStdDev[0]).To(BeNumerically(">", 0))
	})

	It("has no spread without uncertainty", func() {
		res, err := sim.NewEnsemble(build(0), 4, 1).Run(context.Background(), sim.Config{Duration: 0.5})
		Expect(err).NotTo(HaveOccurred())
		Expect(res.FinalStdDev[0]).To(BeNumerically("~", 0, 1e-15))
		Expect(res.FinalMean[0]).To(BeNumerically("~", res.Runs[0].Final()[0], 1e-15))
	})

	It("reproduces a member from its seed", func() {
		a, err := sim.NewEnsemble(build(0.2), 3, 7).Run(context.Background(), sim.Config{Duration: 0.2})
		Expect(err).NotTo(HaveOccurred())
		b, err := sim.NewEnsemble(build(0.2), 3, 7).Run(context.Background(), sim.Config{Duration: 0.2})
		Expect(err).NotTo(HaveOccurred())
		for i := range a.Runs {
			Expect(a.Runs[i].Outputs).To(Equal(b.Runs[i].Outputs))
		}
	})

	It("fails when a member cannot be built", func() {
		failing := func(seed int64) (*sim.Simulator, error) {
			return nil, dynamo.ErrParameterBounds
		}
		_, err := sim.NewEnsemble(failing, 2, 0).Run(context.Background(), sim.Config{Duration: 0.1})
		Expect(errors.Is(err, dynamo.ErrParameterBounds)).To(BeTrue())
	})

	It("rejects an empty ensemble", func() {
		_, err := sim.NewEnsemble(build(0), 0, 0).Run(context.Background(), sim.Config{Duration: 0.1})
		Expect(err).To(HaveOccurred())
	})
})
