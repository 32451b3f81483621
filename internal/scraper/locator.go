package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/canal-matches/internal/document"
	"github.com/pfrederiksen/canal-matches/internal/logger"
	"github.com/pfrederiksen/canal-matches/internal/schedule"
)

// ErrNoDocument is returned when no link on the page leads to a valid calendar
var ErrNoDocument = errors.New("no calendar document found")

// validateLimit bounds concurrent candidate downloads
const validateLimit = 4

// DefaultPhrases must all appear on the first page of a calendar
var DefaultPhrases = []string{"CALENDARIO", "CAMPO"}

// Locator finds the calendar document linked from a web page
type Locator struct {
	downloader *Downloader
	reader     document.Reader
	phrases    []string
}

// NewLocator creates a Locator. Empty phrases selects DefaultPhrases.
func NewLocator(d *Downloader, r document.Reader, phrases []string) *Locator {
	if d == nil {
		d = New()
	}
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	return &Locator{downloader: d, reader: r, phrases: phrases}
}

// Locate returns the URL of the first linked document, in page order, whose
// first page contains every required phrase.
func (l *Locator) Locate(ctx context.Context, pageURL string) (string, error) {
	html, err := l.downloader.Download(ctx, pageURL)
	if err != nil {
		return "", fmt.Errorf("fetching source page: %w", err)
	}

	candidates, err := Candidates(strings.NewReader(string(html)), pageURL)
	if err != nil {
		return "", err
	}

	logger.Debug("Found candidate documents", logger.Fields{
		"page":       pageURL,
		"candidates": len(candidates),
	})

	if len(candidates) == 0 {
		return "", ErrNoDocument
	}

	valid := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(validateLimit)
	for i, candidate := range candidates {
		g.Go(func() error {
			ok, err := l.validate(gctx, candidate)
			if err != nil {
				// one unreadable link must not hide the others
				logger.Warn("Skipping candidate document", logger.Fields{
					"url":   candidate,
					"error": err.Error(),
				})
				return nil
			}
			valid[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	for i, ok := range valid {
		if ok {
			return candidates[i], nil
		}
	}

	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	return "", ErrNoDocument
}

func (l *Locator) validate(ctx context.Context, candidate string) (bool, error) {
	data, err := l.downloader.Download(ctx, candidate)
	if err != nil {
		return false, err
	}

	doc, err := l.reader.Read(ctx, data)
	if err != nil {
		return false, fmt.Errorf("reading document: %w", err)
	}

	return HasPhrases(doc.PageText(1), l.phrases), nil
}

// HasPhrases reports whether text contains all phrases, ignoring case and accents
func HasPhrases(text string, phrases []string) bool {
	normalized := schedule.Normalize(text)
	for _, phrase := range phrases {
		if !strings.Contains(normalized, schedule.Normalize(phrase)) {
			return false
		}
	}
	return true
}

// Candidates returns the absolute URLs of links that look like calendar documents,
// in page order and without duplicates.
func Candidates(r io.Reader, pageURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parsing page URL: %w", err)
	}

	seen := make(map[string]bool)
	candidates := make([]string, 0)

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "mailto:") {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}

		if !looksLikeCalendar(abs, sel.Text()) {
			return
		}

		link := abs.String()
		if seen[link] {
			return
		}
		seen[link] = true
		candidates = append(candidates, link)
	})

	return candidates, nil
}

func looksLikeCalendar(u *url.URL, text string) bool {
	path := strings.ToLower(u.Path)
	if strings.HasSuffix(path, ".pdf") {
		return true
	}
	link := strings.ToLower(u.String())
	return strings.Contains(link, "calendario") ||
		strings.Contains(schedule.Normalize(text), "CALENDARIO")
}
