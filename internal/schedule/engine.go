package schedule

import (
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/pfrederiksen/canal-matches/internal/document"
	"github.com/pfrederiksen/canal-matches/internal/match"
)

// ErrNoLines is returned when extraction is given no lines at all
var ErrNoLines = errors.New("no input lines")

// Engine extracts matches from calendar lines. The zero value is usable and
// behaves like New().
type Engine struct {
	Markers Markers
	// Geometry enables the jersey color lookup; nil skips it
	Geometry *document.Geometry
	// Now supplies the fallback year; defaults to time.Now
	Now func() time.Time
}

// New creates an Engine with default markers
func New() *Engine {
	return &Engine{Markers: DefaultMarkers()}
}

// Report is the outcome of one extraction run
type Report struct {
	Matches  []*match.Match
	Year     int
	Headings int
	Headers  int
	Rows     int
	Skipped  int
}

// state is the parser state of one run. It is never shared between runs.
type state struct {
	contextDate *civil.Date
	inSection   bool
	columns     []string
}

// Extract parses lines with default settings and returns sorted, deduplicated matches
func Extract(lines []document.Line, teamFilter string) ([]*match.Match, error) {
	return New().Extract(lines, teamFilter)
}

// Extract parses lines and returns sorted, deduplicated matches.
// teamFilter, when non-empty, keeps only that team (case-insensitive).
func (e *Engine) Extract(lines []document.Line, teamFilter string) ([]*match.Match, error) {
	report, err := e.Run(lines, teamFilter)
	if err != nil {
		return nil, err
	}
	return report.Matches, nil
}

// Run is Extract with counters for logging
func (e *Engine) Run(lines []document.Line, teamFilter string) (*Report, error) {
	if len(lines) == 0 {
		return nil, ErrNoLines
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}

	year := InferYear(lines, now())
	rules := NewRules(e.Markers, year)
	colors := newColorLookup(e.Geometry)
	filter := strings.TrimSpace(teamFilter)

	report := &Report{Matches: make([]*match.Match, 0), Year: year}
	st := &state{}
	seen := make(map[string]bool)

	for _, line := range lines {
		res := rules.Classify(line.Text, st.inSection)

		switch res.Rule {
		case RuleDateHeading:
			st.contextDate = res.Date
			st.inSection = false
			report.Headings++
		case RuleSectionStart:
			st.inSection = true
		case RuleSectionEnd:
			st.inSection = false
		case RuleColumnHeader:
			st.columns = res.Columns
			report.Headers++
		case RuleMatchRow:
			report.Rows++
			for _, m := range assembleRow(line, st, year, filter, colors) {
				if seen[m.ID] {
					continue
				}
				seen[m.ID] = true
				report.Matches = append(report.Matches, m)
			}
		default:
			report.Skipped++
		}

		if res.Rule != RuleMatchRow && colors != nil {
			colors.skip(line.Page, TeamTokens(line.Text))
		}
	}

	match.Sort(report.Matches)
	return report, nil
}

// assembleRow builds one match per retained token of a fixture row
func assembleRow(line document.Line, st *state, year int, filter string, colors *colorLookup) []*match.Match {
	date, clock := ParseDateTime(line.Text, year)
	if date == nil {
		date = st.contextDate
	}

	tokens := TeamTokens(line.Text)
	out := make([]*match.Match, 0, len(tokens))

	for i, token := range tokens {
		// colors are looked up for every token so occurrences stay aligned
		var color *match.Color
		if colors != nil {
			color = colors.next(line.Page, token)
		}

		if filter != "" && !strings.EqualFold(token, filter) {
			continue
		}

		pair := i / 2
		side := match.SideLocal
		if i%2 == 1 {
			side = match.SideVisiting
		}

		var column string
		if pair < len(st.columns) {
			column = st.columns[pair]
		} else {
			column = columnName(pair+1, "")
		}

		m := match.New(token, date, clock, side, &column, line.Text, line.Page)
		if partner := i ^ 1; partner < len(tokens) {
			opponent := tokens[partner]
			m.Opponent = &opponent
		}
		m.Color = color
		out = append(out, m)
	}

	return out
}
