package experiment

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/metrics"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/signal"
)

// ModelFactory builds a model from the configuration, drawing its effective
// parameters from rng.
type ModelFactory func(cfg *config.Config, rng *rand.Rand) (dynamo.Observable, error)

type Registry struct {
	models map[string]ModelFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]ModelFactory),
	}

	r.models[config.ModelLinear] = func(cfg *config.Config, rng *rand.Rand) (dynamo.Observable, error) {
		return physics.NewLinear(cfg.LinearParams(), rng)
	}
	r.models[config.ModelCartPole] = func(cfg *config.Config, rng *rand.Rand) (dynamo.Observable, error) {
		return physics.NewCartPole(cfg.Physical(), rng)
	}

	return r
}

// Register adds or replaces a model factory.
func (r *Registry) Register(name string, fn ModelFactory) {
	r.models[name] = fn
}

func (r *Registry) GetModel(cfg *config.Config, rng *rand.Rand) (dynamo.Observable, error) {
	fn, ok := r.models[cfg.Model]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", dynamo.ErrUnknownModel, cfg.Model, r.ListModels())
	}
	return fn(cfg, rng)
}

func (r *Registry) GetSignal(cfg *config.Config, rng *rand.Rand) (signal.Source, error) {
	return signal.New(signal.Kind(cfg.Input.Kind), cfg.Generator(), rng)
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the diagnostics attached to every run. The peak
// metric follows the first state component: y for the linear plant, θ for
// the cart-pole.
func (r *Registry) DefaultMetrics(dyn dynamo.System, forceLimit float64) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewControlEffort(),
		metrics.NewSaturation(forceLimit),
		metrics.NewPeak("peak_x0", 0),
		metrics.NewEnergyDrift(dyn),
	}
}
