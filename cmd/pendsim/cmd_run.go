package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/config"
	"github.com/san-kum/pendsim/internal/experiment"
	"github.com/san-kum/pendsim/internal/record"
	"github.com/san-kum/pendsim/internal/sim"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run one simulation (linear or cartpole, default cartpole)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(cmd)
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	logger := newLogger(cmd)
	exp := experiment.New(cfg, logger)

	start := time.Now()
	result, err := exp.Run(cmd.Context())
	if err != nil {
		return err
	}
	logger.Debug("simulation complete", "elapsed", time.Since(start))

	meta := metadataFor(cfg)
	if dataDir, _ := cmd.Flags().GetString("data"); dataDir != "" {
		st := record.NewStore(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(meta, result)
		if err != nil {
			return err
		}
		logger.Info("run saved", "id", runID, "dir", dataDir)
	}

	out := cmd.OutOrStdout()
	switch format {
	case formatCSV:
		return record.WriteCSV(out, result)
	case formatJSON:
		return record.WriteJSON(out, meta, result)
	default:
		printSummary(out, cfg, result)
		return nil
	}
}

func metadataFor(cfg *config.Config) record.Metadata {
	return record.Metadata{
		Model:       cfg.Model,
		Timestamp:   time.Now(),
		Seed:        cfg.Seed,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		ForceLimit:  cfg.ForceLimit,
		Uncertainty: cfg.Uncertainty,
		Input:       cfg.Input.Kind,
	}
}

func printSummary(w io.Writer, cfg *config.Config, result *sim.Result) {
	fmt.Fprintf(w, "model: %s (seed %d, uncertainty %.3g)\n", cfg.Model, cfg.Seed, cfg.Uncertainty)
	fmt.Fprintf(w, "steps: %d\n", result.StepsTaken)
	fmt.Fprintf(w, "samples: %d\n", len(result.Times))
	fmt.Fprintf(w, "final output: %v\n", result.Final())

	fmt.Fprintln(w, "\nparameters:")
	printSorted(w, result.Params)
	fmt.Fprintln(w, "\nmetrics:")
	printSorted(w, result.Metrics)
}

func printSorted(w io.Writer, values map[string]float64) {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6f\n", name, values[name])
	}
}
