package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

const (
	formatSummary = "summary"
	formatCSV     = "csv"
	formatJSON    = "json"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pendsim",
		Short: "cart and inverted pendulum simulator",
		Long: `pendsim integrates a linear second-order plant or a nonlinear
cart-pole with fixed-step RK4 under a saturated input force, optionally
with randomly perturbed physical parameters.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("format", formatSummary, "output format (summary, csv, json)")
	rootCmd.PersistentFlags().String("data", "", "directory to save runs into (disabled when empty)")

	rootCmd.AddCommand(
		newRunCmd(),
		newEnsembleCmd(),
		newPresetsCmd(),
		newListCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logging.NewLogger(level, cmd.ErrOrStderr())
}

func outputFormat(cmd *cobra.Command) (string, error) {
	format, _ := cmd.Flags().GetString("format")
	switch format {
	case formatSummary, formatCSV, formatJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unknown format %q (available: %s, %s, %s)", format, formatSummary, formatCSV, formatJSON)
	}
}

// addScenarioFlags registers the flags shared by run and ensemble.
func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "config file path (yaml)")
	cmd.Flags().String("preset", "", "use preset configuration")
	cmd.Flags().Int64("seed", 0, "random seed for parameter draws and random input")
	cmd.Flags().Float64("dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64("time", config.DefaultDuration, "duration")
	cmd.Flags().Int("record-every", config.DefaultRecordEvery, "record one sample every N steps")
	cmd.Flags().Float64("force-limit", config.DefaultForceLimit, "input saturation limit")
	cmd.Flags().Float64("uncertainty", 0, "parameter uncertainty fraction in [0, 1)")
	cmd.Flags().Float64("theta", config.DefaultTheta, "initial angle in rad (cartpole)")
	cmd.Flags().Float64("z", 0, "initial cart position (cartpole)")
	cmd.Flags().Float64("y", 0, "initial output (linear)")
	cmd.Flags().String("input", "", "input kind (constant, step, square, sawtooth, sin, random)")
	cmd.Flags().Float64("amplitude", config.DefaultAmplitude, "input amplitude")
	cmd.Flags().Float64("frequency", config.DefaultFrequency, "input frequency in Hz")
	cmd.Flags().Float64("offset", 0, "input offset")
}

// resolveConfig builds the scenario in order: defaults or preset, then the
// YAML file, then any flags set on the command line.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	model := config.ModelCartPole
	if len(args) > 0 {
		model = args[0]
	}

	cfg := config.DefaultConfig()
	cfg.Model = model

	if preset, _ := cmd.Flags().GetString("preset"); preset != "" {
		cfg = config.GetPreset(model, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadOver(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if len(args) > 0 {
			cfg.Model = model
		}
	}

	flags := cmd.Flags()
	setFloat := func(name string, dst *float64) {
		if flags.Changed(name) {
			*dst, _ = flags.GetFloat64(name)
		}
	}
	setFloat("dt", &cfg.Dt)
	setFloat("time", &cfg.Duration)
	setFloat("force-limit", &cfg.ForceLimit)
	setFloat("uncertainty", &cfg.Uncertainty)
	setFloat("theta", &cfg.InitState.Theta)
	setFloat("z", &cfg.InitState.Z)
	setFloat("y", &cfg.InitState.Y)
	setFloat("amplitude", &cfg.Input.Amplitude)
	setFloat("frequency", &cfg.Input.Frequency)
	setFloat("offset", &cfg.Input.Offset)
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery, _ = flags.GetInt("record-every")
	}
	if flags.Changed("input") {
		cfg.Input.Kind, _ = flags.GetString("input")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
