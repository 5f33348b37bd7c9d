package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/pendsim/internal/record"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs saved under --data",
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data")
			if dataDir == "" {
				return fmt.Errorf("list needs --data")
			}

			runs, err := record.NewStore(dataDir).List()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "no runs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODEL\tSEED\tDURATION\tTIMESTAMP")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n",
					run.ID, run.Model, run.Seed, run.Duration, run.Timestamp.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}
