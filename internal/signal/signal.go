package signal

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Source produces the raw input for the tick starting at simulated time t.
type Source interface {
	Value(t float64) float64
}

type Func func(t float64) float64

func (f Func) Value(t float64) float64 { return f(t) }

type Constant float64

func (c Constant) Value(float64) float64 { return float64(c) }

type Kind string

const (
	KindConstant Kind = "constant"
	KindSquare   Kind = "square"
	KindSawtooth Kind = "sawtooth"
	KindStep     Kind = "step"
	KindSine     Kind = "sin"
	KindRandom   Kind = "random"
)

// Generator holds the parameters shared by every waveform.
type Generator struct {
	Amplitude float64
	Frequency float64 // Hz
	Offset    float64
}

// Square is +A for the first half of each period and -A for the second.
func (g Generator) Square(t float64) float64 {
	if math.Mod(t, 1/g.Frequency) <= 0.5/g.Frequency {
		return g.Amplitude + g.Offset
	}
	return -g.Amplitude + g.Offset
}

// Sawtooth ramps from -A to +A every half period.
func (g Generator) Sawtooth(t float64) float64 {
	tmp := math.Mod(t, 0.5/g.Frequency)
	return 4*g.Amplitude*g.Frequency*tmp - g.Amplitude + g.Offset
}

func (g Generator) Step(t float64) float64 {
	if t >= 0 {
		return g.Amplitude + g.Offset
	}
	return g.Offset
}

func (g Generator) Sin(t float64) float64 {
	return g.Amplitude*math.Sin(2*math.Pi*g.Frequency*t) + g.Offset
}

// Random draws gaussian noise with variance Amplitude around Offset.
func (g Generator) Random(rng *rand.Rand) float64 {
	return math.Sqrt(g.Amplitude)*rng.NormFloat64() + g.Offset
}

// Source binds the generator to a waveform. rng is only used by Random; a nil
// rng there falls back to a zero-seeded source so runs stay reproducible.
func (g Generator) Source(kind Kind, rng *rand.Rand) Source {
	switch kind {
	case KindSquare:
		return Func(g.Square)
	case KindSawtooth:
		return Func(g.Sawtooth)
	case KindStep:
		return Func(g.Step)
	case KindSine:
		return Func(g.Sin)
	case KindRandom:
		if rng == nil {
			rng = rand.New(rand.NewSource(0))
		}
		return Func(func(float64) float64 { return g.Random(rng) })
	default:
		return Constant(g.Amplitude + g.Offset)
	}
}

var kinds = map[Kind]bool{
	KindConstant: true,
	KindSquare:   true,
	KindSawtooth: true,
	KindStep:     true,
	KindSine:     true,
	KindRandom:   true,
}

// New validates the generator parameters and returns the named waveform.
func New(kind Kind, g Generator, rng *rand.Rand) (Source, error) {
	if !kinds[kind] {
		return nil, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownSignal, kind, Kinds())
	}
	if kind == KindSquare || kind == KindSawtooth {
		if !(g.Frequency > 0) {
			return nil, &dynamo.ConfigError{Field: "frequency", Value: g.Frequency, Wrapped: dynamo.ErrParameterBounds}
		}
	}
	if kind == KindRandom && !(g.Amplitude >= 0) {
		return nil, &dynamo.ConfigError{Field: "amplitude", Value: g.Amplitude, Wrapped: dynamo.ErrParameterBounds}
	}
	return g.Source(kind, rng), nil
}

func Kinds() []string {
	names := make([]string, 0, len(kinds))
	for k := range kinds {
		names = append(names, string(k))
	}
	sort.Strings(names)
	return names
}
