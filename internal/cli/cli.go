package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/canal-matches/internal/config"
	"github.com/pfrederiksen/canal-matches/internal/logger"
)

const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// options holds flag values for one command tree
type options struct {
	configPath string
	verbose    bool
	team       string
	dataDir    string
	historyDB  string
	reader     string
	format     string

	// run
	pdfURL     string
	sourcePage string
	outputDir  string
	noTelegram bool
	noHistory  bool
	dryRun     bool
	force      bool
	ics        bool
	all        bool

	// parse
	window    bool
	allTeams  bool
	sort      string
	today     string
	dates     string
	sides     []string
	columns   []string
	opponents []string
	weekends  bool

	// history
	limit int
}

// NewRootCmd creates the root command. Without a subcommand it behaves like "run".
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "canal-matches",
		Short: "Extract a team's matches from the league calendar PDF",
		Long: `A CLI tool that downloads the league calendar, extracts the matches of one team,
writes them to matches.json and matches.txt, and announces the upcoming block
of matches on Telegram (and optionally Twitter).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	pf.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging")
	pf.StringVar(&opts.team, "team", "", "Team code to extract (env: TEAM_CODE, default I12)")
	pf.StringVar(&opts.dataDir, "data-dir", "", "Data directory for snapshots and history (env: DATA_DIR)")
	pf.StringVar(&opts.historyDB, "history-db", "", "Run history database (env: HISTORY_DB, default <data-dir>/history.db)")
	pf.StringVar(&opts.reader, "reader", "", "Document reader: pdf or docconv (env: DOCUMENT_READER)")
	pf.StringVar(&opts.format, "format", "text", "Output format: text or json")

	addRunFlags(cmd, opts)

	cmd.AddCommand(
		newRunCmd(opts),
		newParseCmd(opts),
		newLocateCmd(opts),
		newHistoryCmd(opts),
	)

	return cmd
}

// setup loads configuration, applies explicitly set flags on top and installs the logger
func setup(cmd *cobra.Command, opts *options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, value string) {
		if flags.Lookup(name) != nil && flags.Changed(name) {
			*dst = value
		}
	}
	override("team", &cfg.Team, opts.team)
	override("data-dir", &cfg.DataDir, opts.dataDir)
	override("history-db", &cfg.HistoryDB, opts.historyDB)
	override("reader", &cfg.DocumentReader, opts.reader)
	override("pdf-url", &cfg.PDFURL, opts.pdfURL)
	override("source-page", &cfg.SourcePageURL, opts.sourcePage)
	override("output-dir", &cfg.OutputDir, opts.outputDir)

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if opts.verbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Main runs the CLI with args and returns the process exit code
func Main(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if errors.Is(err, ErrNoSource) {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Main(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
