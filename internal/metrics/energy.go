package metrics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// EnergyDrift reports the worst-case relative departure of the model's
// energy from its value at the first observed tick, taken over the whole
// run rather than at the final tick. For the damped cart-pole under zero
// input it bounds how much energy the damper has removed. Models that are
// not [dynamo.Hamiltonian] report 0.
type EnergyDrift struct {
	h      dynamo.Hamiltonian
	e0     float64
	worst  float64
	primed bool
}

func NewEnergyDrift(dyn dynamo.System) *EnergyDrift {
	h, _ := dyn.(dynamo.Hamiltonian)
	return &EnergyDrift{h: h}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(x dynamo.State, u float64, t float64) {
	if e.h == nil {
		return
	}
	energy := e.h.Energy(x)
	if !e.primed {
		e.e0, e.primed = energy, true
		return
	}
	if e.e0 != 0 {
		e.worst = math.Max(e.worst, math.Abs(energy-e.e0)/math.Abs(e.e0))
	}
}

func (e *EnergyDrift) Value() float64 { return e.worst }

func (e *EnergyDrift) Reset() {
	e.e0, e.worst, e.primed = 0, 0, false
}
