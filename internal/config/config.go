package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
	"github.com/san-kum/pendsim/internal/signal"
)

const (
	ModelLinear   = "linear"
	ModelCartPole = "cartpole"
)

const (
	DefaultDt          = 0.01
	DefaultDuration    = 20.0
	DefaultRecordEvery = 10
	DefaultForceLimit  = 5.0
	DefaultTheta       = 0.01 * math.Pi / 180
	DefaultAmplitude   = 0.025
	DefaultFrequency   = 0.01
)

type Config struct {
	Model         string          `yaml:"model"`
	Dt            float64         `yaml:"dt"`
	Duration      float64         `yaml:"duration"`
	Seed          int64           `yaml:"seed"`
	RecordEvery   int             `yaml:"record_every"`
	ForceLimit    float64         `yaml:"force_limit"`
	Uncertainty   float64         `yaml:"uncertainty"`
	ValidateState bool            `yaml:"validate_state"`
	Linear        LinearConfig    `yaml:"linear"`
	CartPole      CartPoleConfig  `yaml:"cartpole"`
	InitState     InitStateConfig `yaml:"init_state"`
	Input         InputConfig     `yaml:"input"`
}

type LinearConfig struct {
	A0 float64 `yaml:"a0"`
	A1 float64 `yaml:"a1"`
	B0 float64 `yaml:"b0"`
}

type CartPoleConfig struct {
	PendulumMass float64 `yaml:"pendulum_mass"`
	CartMass     float64 `yaml:"cart_mass"`
	RodLength    float64 `yaml:"rod_length"`
	Gravity      float64 `yaml:"gravity"`
	Damping      float64 `yaml:"damping"`
}

type InitStateConfig struct {
	Y        float64 `yaml:"y"`
	YDot     float64 `yaml:"ydot"`
	Theta    float64 `yaml:"theta"`
	Z        float64 `yaml:"z"`
	ThetaDot float64 `yaml:"theta_dot"`
	ZDot     float64 `yaml:"z_dot"`
	// Values overrides the named fields with a full state vector.
	Values []float64 `yaml:"values,omitempty"`
}

type InputConfig struct {
	Kind      string  `yaml:"kind"`
	Amplitude float64 `yaml:"amplitude"`
	Frequency float64 `yaml:"frequency"`
	Offset    float64 `yaml:"offset"`
}

func DefaultConfig() *Config {
	nominal := physics.NominalCartPole()
	linear := physics.NominalLinear()
	return &Config{
		Model:         ModelCartPole,
		Dt:            DefaultDt,
		Duration:      DefaultDuration,
		RecordEvery:   DefaultRecordEvery,
		ForceLimit:    DefaultForceLimit,
		ValidateState: true,
		Linear: LinearConfig{
			A0: linear.A0,
			A1: linear.A1,
			B0: linear.B0,
		},
		CartPole: CartPoleConfig{
			PendulumMass: nominal.PendulumMass,
			CartMass:     nominal.CartMass,
			RodLength:    nominal.RodLength,
			Gravity:      nominal.Gravity,
			Damping:      nominal.Damping,
		},
		InitState: InitStateConfig{
			Theta: DefaultTheta,
		},
		Input: InputConfig{
			Kind:      string(signal.KindSquare),
			Amplitude: DefaultAmplitude,
			Frequency: DefaultFrequency,
		},
	}
}

// Load reads a YAML file over DefaultConfig, so omitted keys keep their
// defaults.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks the simulation-level fields. Whether the model name is
// registered, and its parameters, are checked when the model is built.
func (c *Config) Validate() error {
	var errs []error
	if c.Model == "" {
		errs = append(errs, fmt.Errorf("%w: model name is empty", dynamo.ErrUnknownModel))
	}
	if !(c.Dt > 0) {
		errs = append(errs, &dynamo.ConfigError{Field: "dt", Value: c.Dt, Wrapped: dynamo.ErrInvalidStep})
	}
	if !(c.Duration > 0) {
		errs = append(errs, &dynamo.ConfigError{Field: "duration", Value: c.Duration, Wrapped: dynamo.ErrParameterBounds})
	}
	if c.RecordEvery < 0 {
		errs = append(errs, &dynamo.ConfigError{Field: "record_every", Value: float64(c.RecordEvery), Wrapped: dynamo.ErrParameterBounds})
	}
	if !(c.ForceLimit >= 0) {
		errs = append(errs, &dynamo.ConfigError{Field: "force_limit", Value: c.ForceLimit, Wrapped: dynamo.ErrParameterBounds})
	}
	return errors.Join(errs...)
}

func (c *Config) Physical() physics.Physical {
	return physics.Physical{
		PendulumMass: c.CartPole.PendulumMass,
		CartMass:     c.CartPole.CartMass,
		RodLength:    c.CartPole.RodLength,
		Gravity:      c.CartPole.Gravity,
		Damping:      c.CartPole.Damping,
		Uncertainty:  c.Uncertainty,
	}
}

func (c *Config) LinearParams() physics.LinearParams {
	return physics.LinearParams{
		A0:          c.Linear.A0,
		A1:          c.Linear.A1,
		B0:          c.Linear.B0,
		Uncertainty: c.Uncertainty,
	}
}

// InitialState returns the initial condition for a model with dim states.
// Values, when set, is used as given. Otherwise the named fields fill the
// (y, ẏ) or (θ, z, θ̇, ż) layout, and any other size starts at rest.
func (c *Config) InitialState(dim int) dynamo.State {
	if len(c.InitState.Values) > 0 {
		return dynamo.State(c.InitState.Values).Clone()
	}
	switch dim {
	case 2:
		return dynamo.State{c.InitState.Y, c.InitState.YDot}
	case 4:
		return dynamo.State{c.InitState.Theta, c.InitState.Z, c.InitState.ThetaDot, c.InitState.ZDot}
	default:
		return make(dynamo.State, dim)
	}
}

func (c *Config) Generator() signal.Generator {
	return signal.Generator{
		Amplitude: c.Input.Amplitude,
		Frequency: c.Input.Frequency,
		Offset:    c.Input.Offset,
	}
}
