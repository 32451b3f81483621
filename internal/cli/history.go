package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/canal-matches/internal/history"
	"github.com/pfrederiksen/canal-matches/internal/storage"
)

func newHistoryCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			format, err := ParseFormat(opts.format)
			if err != nil {
				return err
			}

			store, err := storage.New(cfg.DataDir)
			if err != nil {
				return err
			}

			hist, err := history.Open(cmd.Context(), historyPath(cfg, store))
			if err != nil {
				return err
			}
			defer hist.Close()

			runs, err := hist.List(cmd.Context(), opts.limit)
			if err != nil {
				return err
			}

			return writeRuns(cmd, runs, format)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 20, "Maximum number of runs to list (0 = all)")

	return cmd
}

func writeRuns(cmd *cobra.Command, runs []*history.Run, format OutputFormat) error {
	out := cmd.OutOrStdout()

	if format == FormatJSON {
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tTEAM\tMATCHES\tWINDOW\tNOTIFIED\tSTATUS")
	for _, run := range runs {
		status := "ok"
		if !run.Succeeded() {
			status = "error: " + run.Error
		}
		window := fmt.Sprintf("%d", run.WindowCount)
		if run.WindowStart != "" {
			window += " from " + run.WindowStart
		}
		notified := "no"
		if run.Notified {
			notified = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04"), run.Team, run.MatchCount, window, notified, status)
	}
	return w.Flush()
}
