package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/logging"
	"github.com/san-kum/pendsim/internal/plant"
	"github.com/san-kum/pendsim/internal/signal"
)

// Simulator drives a plant from an input source and records the history.
type Simulator struct {
	plant     *plant.Plant
	source    signal.Source
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	logger    *slog.Logger
}

func New(p *plant.Plant, src signal.Source, logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Simulator{
		plant:     p,
		source:    src,
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
		logger:    logger,
	}
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Plant() *plant.Plant { return s.plant }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.RecordEvery
	if every < 1 {
		every = 1
	}
	steps := int(math.Round(cfg.Duration / s.plant.Dt()))
	capacity := steps/every + 1

	result := &Result{
		Times:   make([]float64, 0, capacity),
		Inputs:  make([]float64, 0, capacity),
		Applied: make([]float64, 0, capacity),
		Outputs: make([][]float64, 0, capacity),
		States:  make([]dynamo.State, 0, capacity),
		Metrics: make(map[string]float64),
	}
	if pc, ok := s.plant.Model().(interface{ GetParams() map[string]float64 }); ok {
		result.Params = pc.GetParams()
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	start := s.plant.Steps()
	s.record(result, 0, 0)
	s.logger.Info("run started", "steps", steps, "dt", s.plant.Dt(), "record_every", every, "from_step", start)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		t := s.plant.Time()
		u := s.source.Value(t)
		s.plant.Step(u)

		x := s.plant.State()
		applied := s.plant.Applied()
		now := s.plant.Time()
		result.StepsTaken = s.plant.Steps() - start

		for _, m := range s.metrics {
			m.Observe(x, applied, now)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, applied, now)
		}
		s.logger.Log(ctx, logging.LevelTrace, "tick", "t", now, "u", u, "applied", applied, "state", []float64(x))

		if cfg.ValidateState && !x.IsValid() {
			s.record(result, u, applied)
			s.collect(result)
			return result, &dynamo.SimulationError{Step: i, Time: now, State: x, Wrapped: dynamo.ErrInvalidState}
		}

		if (i+1)%every == 0 || i == steps-1 {
			s.record(result, u, applied)
		}
	}

	s.collect(result)
	s.logger.Info("run finished", "steps", result.StepsTaken, "t", s.plant.Time(), "output", result.Final())
	return result, nil
}

func (s *Simulator) record(result *Result, u, applied float64) {
	result.Times = append(result.Times, s.plant.Time())
	result.Inputs = append(result.Inputs, u)
	result.Applied = append(result.Applied, applied)
	result.Outputs = append(result.Outputs, s.plant.Measure())
	result.States = append(result.States, s.plant.State())
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if s.plant == nil || s.source == nil {
		return fmt.Errorf("simulator needs a plant and an input source")
	}
	if !(cfg.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if math.Round(cfg.Duration/s.plant.Dt()) < 1 {
		return &dynamo.ConfigError{Field: "duration", Value: cfg.Duration, Wrapped: dynamo.ErrParameterBounds}
	}
	return nil
}
