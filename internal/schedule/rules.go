package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
)

// Rule tags the outcome of classifying one line
type Rule int

const (
	// RuleNoise is any line that carries nothing for the engine
	RuleNoise Rule = iota
	// RuleDateHeading sets the contextual date and leaves the section
	RuleDateHeading
	// RuleSectionStart enters the sub-calendar of interest
	RuleSectionStart
	// RuleSectionEnd leaves the sub-calendar of interest
	RuleSectionEnd
	// RuleColumnHeader replaces the current pitch names
	RuleColumnHeader
	// RuleMatchRow is a fixture row eligible for token extraction
	RuleMatchRow
)

func (r Rule) String() string {
	switch r {
	case RuleDateHeading:
		return "date-heading"
	case RuleSectionStart:
		return "section-start"
	case RuleSectionEnd:
		return "section-end"
	case RuleColumnHeader:
		return "column-header"
	case RuleMatchRow:
		return "match-row"
	default:
		return "noise"
	}
}

// Result is the tagged outcome of Classify
type Result struct {
	Rule    Rule
	Date    *civil.Date // RuleDateHeading only
	Columns []string    // RuleColumnHeader only
}

// Rules classifies lines for one document. It holds no per-line state.
type Rules struct {
	start  string
	end    string
	year   int
	header *regexp.Regexp
}

// NewRules compiles the classification rules for markers and the inferred year
func NewRules(m Markers, year int) *Rules {
	m = m.withDefaults()
	return &Rules{
		start:  Normalize(m.SectionStart),
		end:    Normalize(m.SectionEnd),
		year:   year,
		header: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(strings.TrimSpace(m.PitchWord)) + `\s*(\d+)(?:\s*\(([^)]*)\))?`),
	}
}

// Classify applies the rules in precedence order: date heading, section start,
// section end, column header, match row. Header and row rules only apply inside
// the section.
func (r *Rules) Classify(text string, inSection bool) Result {
	if d := parseHeading(text, r.year); d != nil {
		return Result{Rule: RuleDateHeading, Date: d}
	}

	normalized := Normalize(text)
	if r.start != "" && strings.Contains(normalized, r.start) {
		return Result{Rule: RuleSectionStart}
	}
	if r.end != "" && strings.HasPrefix(normalized, r.end) {
		return Result{Rule: RuleSectionEnd}
	}

	if !inSection {
		return Result{Rule: RuleNoise}
	}

	if cols := r.ParseColumnHeader(text); len(cols) > 0 {
		return Result{Rule: RuleColumnHeader, Columns: cols}
	}
	if StartsWithTimeRange(text) {
		return Result{Rule: RuleMatchRow}
	}
	return Result{Rule: RuleNoise}
}

// ParseColumnHeader reads "CAMPO 1 (Norte) CAMPO 2" into
// ["Column 1 (Norte)", "Column 2"]. It returns nil when the line is not a header.
func (r *Rules) ParseColumnHeader(text string) []string {
	found := r.header.FindAllStringSubmatch(text, -1)
	if len(found) == 0 {
		return nil
	}

	cols := make([]string, 0, len(found))
	for _, m := range found {
		index, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		cols = append(cols, columnName(index, strings.TrimSpace(m[2])))
	}
	return cols
}

func columnName(index int, label string) string {
	if label == "" {
		return fmt.Sprintf("Column %d", index)
	}
	return fmt.Sprintf("Column %d (%s)", index, label)
}
