package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/canal-matches/internal/calendar"
	"github.com/pfrederiksen/canal-matches/internal/match"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// Output file names inside the output directory
const (
	FileJSON     = "matches.json"
	FileText     = "matches.txt"
	FileICS      = "matches.ics"
	FileDocument = "calendar.pdf"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", s)
	}
	return format, nil
}

// OutputResult contains data to be output
type OutputResult struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Team        string         `json:"team"`
	Count       int            `json:"count"`
	Matches     []*match.Match `json:"matches"`
}

// NewOutputResult builds a result; a nil slice is written as an empty list
func NewOutputResult(team string, matches []*match.Match, generatedAt time.Time) *OutputResult {
	if matches == nil {
		matches = []*match.Match{}
	}
	return &OutputResult{
		GeneratedAt: generatedAt.UTC(),
		Team:        team,
		Count:       len(matches),
		Matches:     matches,
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(result)
}

// writeText outputs results as one line per match under a short header
func writeText(w io.Writer, result *OutputResult) error {
	fmt.Fprintf(w, "Team: %s\n", result.Team)
	fmt.Fprintf(w, "Generated (UTC): %s\n", result.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Matches: %d\n\n", result.Count)

	for _, m := range result.Matches {
		if _, err := fmt.Fprintln(w, FormatLine(m)); err != nil {
			return err
		}
	}
	return nil
}

// FormatLine renders one match as "- DATE TIME [Side] (Column) :: HOME vs AWAY".
// Without an opponent the raw source line is shown instead of the fixture.
func FormatLine(m *match.Match) string {
	when := strings.TrimSpace(m.DateString() + " " + m.TimeString())
	if when == "" {
		when = "(no date/time)"
	}

	var line strings.Builder
	line.WriteString("- ")
	line.WriteString(when)
	line.WriteString(fmt.Sprintf(" [%s]", m.Side.Label()))
	if col := m.ColumnString(); col != "" {
		line.WriteString(fmt.Sprintf(" (%s)", col))
	}
	line.WriteString(" :: ")

	opp := m.OpponentString()
	switch {
	case opp == "":
		line.WriteString(m.SourceLine)
	case m.Side == match.SideVisiting:
		line.WriteString(fmt.Sprintf("%s vs %s", opp, m.TeamCode))
	default:
		line.WriteString(fmt.Sprintf("%s vs %s", m.TeamCode, opp))
	}

	return line.String()
}

// WriteFiles writes matches.json and matches.txt (and matches.ics when withICS)
// into dir, creating it if needed. It returns the written paths.
func WriteFiles(dir string, result *OutputResult, withICS bool) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var written []string

	writers := []struct {
		name  string
		write func(io.Writer) error
	}{
		{FileJSON, func(w io.Writer) error { return writeJSON(w, result) }},
		{FileText, func(w io.Writer) error { return writeText(w, result) }},
	}
	if withICS {
		writers = append(writers, struct {
			name  string
			write func(io.Writer) error
		}{FileICS, func(w io.Writer) error {
			_, err := io.WriteString(w, calendar.GenerateICS(result.Matches))
			return err
		}})
	}

	for _, wr := range writers {
		path := filepath.Join(dir, wr.name)
		if err := writeFile(path, wr.write); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	return written, nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	return nil
}
