package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/canal-matches/internal/document"
	"github.com/pfrederiksen/canal-matches/internal/filter"
	"github.com/pfrederiksen/canal-matches/internal/logger"
	"github.com/pfrederiksen/canal-matches/internal/match"
	"github.com/pfrederiksen/canal-matches/internal/schedule"
)

func newParseCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Extract matches from local calendar files",
		Long: `Extract matches from one or more local calendar files and print them.
Files are processed in parallel, each with its own extraction state.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.window, "window", false, "Only print the upcoming block of matches")
	f.BoolVar(&opts.allTeams, "all-teams", false, "Do not filter by team")
	f.StringVar(&opts.sort, "sort", "team", "Sort order: team or date")
	f.StringVar(&opts.today, "today", "", "Reference date for --window (YYYY-MM-DD, default today UTC)")
	f.StringVar(&opts.dates, "dates", "", "Date range: '2025-10-18..2025-10-26', '18-26 octubre' or 'octubre'")
	f.StringSliceVar(&opts.sides, "side", nil, "Only matches on this side (local, visiting)")
	f.StringSliceVar(&opts.columns, "column", nil, "Only matches whose column contains this text")
	f.StringSliceVar(&opts.opponents, "opponent", nil, "Only matches against this opponent code")
	f.BoolVar(&opts.weekends, "weekends", false, "Only matches on Saturday or Sunday")

	return cmd
}

func runParse(cmd *cobra.Command, opts *options, files []string) error {
	cfg, err := setup(cmd, opts)
	if err != nil {
		return err
	}

	format, err := ParseFormat(opts.format)
	if err != nil {
		return err
	}
	order, err := ParseSortOrder(opts.sort)
	if err != nil {
		return err
	}

	today := civil.DateOf(time.Now().UTC())
	if opts.today != "" {
		today, err = civil.ParseDate(opts.today)
		if err != nil {
			return fmt.Errorf("invalid --today: %w", err)
		}
	}

	mf, err := buildFilter(opts, today)
	if err != nil {
		return err
	}

	reader, err := document.New(cfg.DocumentReader)
	if err != nil {
		return err
	}

	team := cfg.Team
	if opts.allTeams {
		team = ""
	}

	matches, err := ParseFiles(cmd.Context(), reader, cfg.Markers, files, team)
	if err != nil {
		return err
	}

	if opts.window {
		matches = schedule.WindowToUpcoming(matches, today)
	}
	if !mf.IsEmpty() {
		matches = mf.Apply(matches)
		logger.Debug("Applied filter", logger.Fields{"filter": mf.Description(), "matches": len(matches)})
	}
	sortMatches(matches, order)

	return WriteOutput(cmd.OutOrStdout(), NewOutputResult(team, matches, time.Now()), format)
}

func buildFilter(opts *options, today civil.Date) (*filter.Filter, error) {
	f := filter.NewFilter()
	if opts.dates != "" {
		from, to, err := filter.ParseDateRange(opts.dates, today)
		if err != nil {
			return nil, fmt.Errorf("invalid --dates: %w", err)
		}
		f.DateFrom, f.DateTo = from, to
	}
	for _, s := range opts.sides {
		side, err := filter.ParseSide(s)
		if err != nil {
			return nil, err
		}
		f.Sides = append(f.Sides, side)
	}
	f.Columns = opts.columns
	f.Opponents = opts.opponents
	f.WeekendsOnly = opts.weekends
	return f, nil
}

// ParseFiles extracts matches from each file concurrently and concatenates the
// results in argument order. Every file gets its own engine.
func ParseFiles(ctx context.Context, reader document.Reader, markers schedule.Markers, files []string, team string) ([]*match.Match, error) {
	results := make([][]*match.Match, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range files {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			doc, err := reader.Read(gctx, data)
			if err != nil {
				return fmt.Errorf("decoding %s: %w", path, err)
			}

			engine := &schedule.Engine{Markers: markers, Geometry: doc.Geometry}
			found, err := engine.Extract(doc.Lines, team)
			if err != nil {
				return fmt.Errorf("extracting %s: %w", path, err)
			}

			logger.Debug("Parsed file", logger.Fields{"file": path, "lines": len(doc.Lines), "matches": len(found)})
			results[i] = found
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]*match.Match, 0)
	for _, found := range results {
		all = append(all, found...)
	}
	return all, nil
}
