package config

import "sort"

// Presets are keyed by model then preset name. Each entry is applied on top
// of DefaultConfig by GetPreset.
var Presets = map[string]map[string]func(c *Config){
	ModelLinear: {
		"step": func(c *Config) {
			c.Duration = 10.0
			c.ForceLimit = 1.0
			c.Input = InputConfig{Kind: "step", Amplitude: 1.0}
		},
		"square": func(c *Config) {
			c.Duration = 20.0
			c.ForceLimit = 1.0
			c.Uncertainty = 0.2
			c.Input = InputConfig{Kind: "square", Amplitude: 0.5, Frequency: 0.1}
		},
		"free": func(c *Config) {
			c.Duration = 10.0
			c.ForceLimit = 1.0
			c.InitState = InitStateConfig{Y: 1.0}
			c.Input = InputConfig{Kind: "constant"}
		},
	},
	ModelCartPole: {
		"nominal": func(c *Config) {},
		"uncertain": func(c *Config) {
			c.Uncertainty = 0.2
		},
		"push": func(c *Config) {
			c.Input = InputConfig{Kind: "constant", Amplitude: DefaultAmplitude}
		},
		"upright": func(c *Config) {
			c.Duration = 10.0
			c.InitState = InitStateConfig{}
			c.Input = InputConfig{Kind: "constant"}
		},
	},
}

// GetPreset returns a fresh config for the named preset, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	apply, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Model = model
	apply(cfg)
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListModels() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
