package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/canal-matches/internal/config"
	"github.com/pfrederiksen/canal-matches/internal/document"
	"github.com/pfrederiksen/canal-matches/internal/history"
	"github.com/pfrederiksen/canal-matches/internal/logger"
	"github.com/pfrederiksen/canal-matches/internal/notifier"
	"github.com/pfrederiksen/canal-matches/internal/scraper"
	"github.com/pfrederiksen/canal-matches/internal/storage"
	"github.com/pfrederiksen/canal-matches/internal/telegram"
)

func newRunCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Download the calendar, write outputs and announce the upcoming matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts)
		},
	}
	addRunFlags(cmd, opts)
	return cmd
}

func addRunFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.StringVar(&opts.pdfURL, "pdf-url", "", "Calendar PDF URL (env: PDF_URL)")
	f.StringVar(&opts.sourcePage, "source-page", "", "Web page linking the calendar, used when no PDF URL is set (env: SOURCE_PAGE_URL)")
	f.StringVar(&opts.outputDir, "output-dir", "", "Output directory (env: OUTPUT_DIR, default output)")
	f.BoolVar(&opts.noTelegram, "no-telegram", false, "Disable Telegram notification even if credentials are present")
	f.BoolVar(&opts.noHistory, "no-history", false, "Do not record the run in the history database")
	f.BoolVar(&opts.dryRun, "dry-run", false, "Print notifications instead of sending them")
	f.BoolVar(&opts.force, "force", false, "Notify even when the upcoming matches are unchanged")
	f.BoolVar(&opts.ics, "ics", false, "Also write matches.ics and upload it with the notification")
	f.BoolVar(&opts.all, "all", false, "Announce every match instead of the upcoming block")
}

func runRun(cmd *cobra.Command, opts *options) error {
	cfg, err := setup(cmd, opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	reader, err := document.New(cfg.DocumentReader)
	if err != nil {
		return err
	}

	downloader := scraper.New()

	p := &Pipeline{
		Config:     cfg,
		Options:    RunOptions{Force: opts.force, ICS: opts.ics, All: opts.all},
		Downloader: downloader,
		Locator:    scraper.NewLocator(downloader, reader, cfg.RequiredPhrases),
		Reader:     reader,
		Stdout:     cmd.OutOrStdout(),
	}

	if err := buildNotifier(p, cfg, opts, cmd); err != nil {
		return err
	}

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return err
	}
	p.Storage = store

	if !opts.noHistory {
		hist, err := history.Open(ctx, historyPath(cfg, store))
		if err != nil {
			logger.Warn("Run history unavailable", logger.Fields{"error": err.Error()})
		} else {
			defer hist.Close()
			p.History = hist
		}
	}

	_, err = p.Run(ctx)
	logger.Debug("Run metrics", logger.MetricsFields())
	return err
}

// buildNotifier selects the notification channels for a run
func buildNotifier(p *Pipeline, cfg *config.Config, opts *options, cmd *cobra.Command) error {
	if opts.dryRun {
		p.Notifier = notifier.NewDryRunNotifier(cmd.OutOrStdout())
		return nil
	}

	var channels notifier.Multi

	if !opts.noTelegram && cfg.Telegram.Enabled() {
		client, err := telegram.NewClient(cfg.Telegram.BotToken)
		if err != nil {
			return err
		}
		channels = append(channels, notifier.NewTelegramNotifier(client, cfg.Telegram.ChatID, cfg.MaxMessageLen))
		p.Documents = client
	}

	if cfg.Twitter.Enabled() {
		tw, err := notifier.NewTwitterNotifier(cfg.Twitter)
		if err != nil {
			return err
		}
		channels = append(channels, tw)
	}

	switch len(channels) {
	case 0:
		logger.Debug("No notification channel configured", nil)
	case 1:
		p.Notifier = channels[0]
	default:
		p.Notifier = channels
	}
	return nil
}

func historyPath(cfg *config.Config, store *storage.Storage) string {
	if cfg.HistoryDB != "" {
		if path, err := storage.ExpandHome(cfg.HistoryDB); err == nil {
			return path
		}
		return cfg.HistoryDB
	}
	return filepath.Join(store.Dir(), "history.db")
}
