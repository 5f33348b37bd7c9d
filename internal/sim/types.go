package sim

import "github.com/san-kum/pendsim/internal/dynamo"

type Config struct {
	Duration float64
	// RecordEvery keeps one history sample per RecordEvery ticks; the plant
	// still integrates every tick. Zero or one records every tick.
	RecordEvery int
	// ValidateState stops the run at the first non-finite state.
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Duration:      10.0,
		RecordEvery:   1,
		ValidateState: true,
	}
}

// Result is the recorded history of one run. Index 0 is the initial
// condition, before any input has been applied.
type Result struct {
	Times      []float64
	Inputs     []float64
	Applied    []float64
	Outputs    [][]float64
	States     []dynamo.State
	Metrics    map[string]float64
	Params     map[string]float64
	StepsTaken int
}

// Final returns the last recorded output, or nil for an empty history.
func (r *Result) Final() []float64 {
	if len(r.Outputs) == 0 {
		return nil
	}
	return r.Outputs[len(r.Outputs)-1]
}
