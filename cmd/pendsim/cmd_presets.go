package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/config"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets, for one model or all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			models := config.ListModels()
			if len(args) > 0 {
				models = args[:1]
			}

			out := cmd.OutOrStdout()
			for _, model := range models {
				presets := config.ListPresets(model)
				if len(presets) == 0 {
					fmt.Fprintf(out, "no presets for model: %s\n", model)
					continue
				}
				fmt.Fprintf(out, "presets for %s:\n", model)
				for _, p := range presets {
					fmt.Fprintf(out, "  %s\n", p)
				}
			}
			return nil
		},
	}
}
