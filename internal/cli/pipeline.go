package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"cloud.google.com/go/civil"

	"github.com/pfrederiksen/canal-matches/internal/calendar"
	"github.com/pfrederiksen/canal-matches/internal/config"
	"github.com/pfrederiksen/canal-matches/internal/document"
	"github.com/pfrederiksen/canal-matches/internal/history"
	"github.com/pfrederiksen/canal-matches/internal/logger"
	"github.com/pfrederiksen/canal-matches/internal/match"
	"github.com/pfrederiksen/canal-matches/internal/notifier"
	"github.com/pfrederiksen/canal-matches/internal/schedule"
	"github.com/pfrederiksen/canal-matches/internal/storage"
	"github.com/pfrederiksen/canal-matches/internal/telegram"
)

// ErrNoSource is returned when neither a document URL nor a source page is configured
var ErrNoSource = errors.New("PDF_URL is not set; provide --pdf-url, --source-page or set PDF_URL")

// Downloader fetches document bytes
type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Locator resolves a web page to a document URL
type Locator interface {
	Locate(ctx context.Context, pageURL string) (string, error)
}

// DocumentSender uploads a file to the notification channel
type DocumentSender interface {
	SendDocument(ctx context.Context, chatID, filename string, data []byte, caption string) error
}

// RunOptions are the per-invocation switches of the run command
type RunOptions struct {
	// Force notifies even when the window equals the last announced one
	Force bool
	// ICS writes matches.ics and uploads it along with the notification
	ICS bool
	// All announces the full match list instead of the upcoming window
	All bool
}

// Pipeline runs resolve, download, read, extract, write and notify once
type Pipeline struct {
	Config     *config.Config
	Options    RunOptions
	Downloader Downloader
	Locator    Locator
	Reader     document.Reader
	// Notifier is nil when notifications are disabled
	Notifier notifier.Notifier
	// Documents is nil when the channel cannot take file uploads
	Documents DocumentSender
	Storage   *storage.Storage
	History   *history.Store
	Stdout    io.Writer
	Now       func() time.Time
}

// RunResult summarizes a successful run
type RunResult struct {
	DocumentURL string
	Report      *schedule.Report
	Window      []*match.Match
	Files       []string
	Notified    bool
}

// Run executes the pipeline. On failure a single failure message is sent when a
// notifier is configured, and the error is returned. A missing source is a
// configuration error and is not announced.
func (p *Pipeline) Run(ctx context.Context) (*RunResult, error) {
	started := p.now()
	run := &history.Run{StartedAt: started, Team: p.Config.Team}

	result, err := p.run(ctx, run)
	if err != nil {
		run.Error = err.Error()
		logger.Error("Calendar update failed", logger.Fields{"team": p.Config.Team}, err)
		if !errors.Is(err, ErrNoSource) {
			p.notifyFailure(ctx, err)
		}
	}

	p.record(ctx, run)
	logger.RecordTiming("run", time.Since(started))

	return result, err
}

func (p *Pipeline) run(ctx context.Context, run *history.Run) (*RunResult, error) {
	cfg := p.Config

	url, err := p.resolve(ctx)
	if err != nil {
		return nil, err
	}
	run.DocumentURL = url

	start := time.Now()
	data, err := p.Downloader.Download(ctx, url)
	if err != nil {
		return nil, err
	}
	logger.RecordTiming("download", time.Since(start))
	logger.Info("Downloaded calendar", logger.Fields{"url": url, "bytes": len(data)})

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.OutputDir, FileDocument), data, 0644); err != nil {
		return nil, fmt.Errorf("saving document: %w", err)
	}

	start = time.Now()
	doc, err := p.Reader.Read(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	logger.RecordTiming("read", time.Since(start))

	engine := &schedule.Engine{Markers: cfg.Markers, Geometry: doc.Geometry, Now: p.now}
	report, err := engine.Run(doc.Lines, cfg.Team)
	if err != nil {
		return nil, fmt.Errorf("extracting matches: %w", err)
	}
	run.MatchCount = len(report.Matches)

	logger.Info("Calendar parsed", logger.Fields{
		"lines":    len(doc.Lines),
		"year":     report.Year,
		"headings": report.Headings,
		"headers":  report.Headers,
		"rows":     report.Rows,
		"skipped":  report.Skipped,
		"matches":  len(report.Matches),
	})
	logger.AddCounter("matches.extracted", int64(len(report.Matches)))

	out := NewOutputResult(cfg.Team, report.Matches, p.now())
	files, err := WriteFiles(cfg.OutputDir, out, p.Options.ICS)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(p.stdout(), "Wrote %s (%d matches)\n", joinPaths(files), len(report.Matches))

	today := civil.DateOf(p.now().UTC())
	window := schedule.WindowToUpcoming(report.Matches, today)
	match.SortChronological(window)
	run.WindowCount = len(window)
	if windowStart, _, ok := schedule.UpcomingWindow(report.Matches, today); ok {
		run.WindowStart = windowStart.String()
	}

	result := &RunResult{DocumentURL: url, Report: report, Window: window, Files: files}

	if p.Notifier == nil {
		return result, nil
	}

	announce := window
	if p.Options.All {
		announce = make([]*match.Match, len(report.Matches))
		copy(announce, report.Matches)
		match.SortChronological(announce)
	}

	if !p.shouldNotify(window) {
		fmt.Fprintln(p.stdout(), "Upcoming matches unchanged; no notification sent")
		return result, nil
	}

	if err := p.notify(ctx, announce, today); err != nil {
		return result, err
	}
	result.Notified = true
	run.Notified = true

	if p.Storage != nil {
		if err := p.Storage.SaveWindow(cfg.Team, window); err != nil {
			logger.Warn("Failed to save snapshot", logger.Fields{"error": err.Error()})
		}
	}

	return result, nil
}

func (p *Pipeline) resolve(ctx context.Context) (string, error) {
	if p.Config.PDFURL != "" {
		return p.Config.PDFURL, nil
	}
	if p.Config.SourcePageURL == "" || p.Locator == nil {
		return "", ErrNoSource
	}

	url, err := p.Locator.Locate(ctx, p.Config.SourcePageURL)
	if err != nil {
		return "", fmt.Errorf("locating calendar on %s: %w", p.Config.SourcePageURL, err)
	}
	logger.Info("Located calendar", logger.Fields{"page": p.Config.SourcePageURL, "url": url})
	return url, nil
}

// shouldNotify compares the window with the last announced one
func (p *Pipeline) shouldNotify(window []*match.Match) bool {
	if p.Options.Force || p.Storage == nil {
		return true
	}

	previous, err := p.Storage.LoadSnapshot(p.Config.Team)
	if err != nil {
		logger.Warn("Failed to load snapshot", logger.Fields{"error": err.Error()})
		return true
	}
	// never announced before
	if previous.UpdatedAt == "" {
		return true
	}

	diff := match.Diff(previous, window)
	logger.Debug("Compared with last announcement", logger.Fields{
		"added":   len(diff.Added),
		"removed": len(diff.Removed),
	})
	return diff.Changed()
}

func (p *Pipeline) notify(ctx context.Context, matches []*match.Match, today civil.Date) error {
	cfg := p.Config

	var text string
	if len(matches) == 0 {
		text = telegram.FormatEmpty(cfg.Team)
	} else {
		text = telegram.FormatWindow(matches, cfg.Team, today)
	}

	messages := telegram.Chunk(text, cfg.MaxMessageLen)
	errs := notifier.SendAll(ctx, p.Notifier, cfg.Telegram.ChatID, messages)
	failed, first := notifier.Failures(errs)
	logger.AddCounter("notifications.sent", int64(len(messages)-failed))
	if failed > 0 {
		logger.AddCounter("notifications.failed", int64(failed))
		return fmt.Errorf("sending notification (%d of %d messages failed): %w", failed, len(messages), first)
	}

	if p.Options.ICS && p.Documents != nil && len(matches) > 0 {
		ics := calendar.GenerateICS(matches)
		if err := p.Documents.SendDocument(ctx, cfg.Telegram.ChatID, FileICS, []byte(ics), ""); err != nil {
			// the text message already went out
			logger.Warn("Failed to upload calendar file", logger.Fields{"error": err.Error()})
		}
	}

	fmt.Fprintf(p.stdout(), "Notification sent (%d message(s))\n", len(messages))
	return nil
}

func (p *Pipeline) notifyFailure(ctx context.Context, cause error) {
	if p.Notifier == nil {
		return
	}
	if err := p.Notifier.Notify(ctx, p.Config.Telegram.ChatID, telegram.FormatFailure(cause)); err != nil {
		logger.Warn("Failed to send failure notification", logger.Fields{"error": err.Error()})
	}
}

func (p *Pipeline) record(ctx context.Context, run *history.Run) {
	if p.History == nil {
		return
	}
	if err := p.History.Record(ctx, run); err != nil {
		logger.Warn("Failed to record run", logger.Fields{"error": err.Error()})
	}
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) stdout() io.Writer {
	if p.Stdout != nil {
		return p.Stdout
	}
	return os.Stdout
}

func joinPaths(paths []string) string {
	switch len(paths) {
	case 0:
		return ""
	case 1:
		return paths[0]
	}
	out := paths[0]
	for _, p := range paths[1:len(paths)-1] {
		out += ", " + p
	}
	return out + " and " + paths[len(paths)-1]
}
