package schedule

import (
	"regexp"
	"strconv"
	"time"

	"cloud.google.com/go/civil"

	"github.com/pfrederiksen/canal-matches/internal/match"
)

var (
	datePattern      = regexp.MustCompile(`\b(\d{1,2})[/.-](\d{1,2})(?:[/.-](\d{2,4}))?\b`)
	timePattern      = regexp.MustCompile(`\b(\d{1,2})[:.](\d{2})\b`)
	timeRangePattern = regexp.MustCompile(`^\s*\d{1,2}:\d{2}\s*-\s*\d{1,2}:\d{2}`)
	teamTokenPattern = regexp.MustCompile(`\b[A-Z]{1,3}\d{1,3}\b`)
	headingPattern   = regexp.MustCompile(`(?i)^\s*(\d{1,2})\s+DE\s+(\p{L}+)\s*$`)
)

var spanishMonths = map[string]int{
	"ENERO":      1,
	"FEBRERO":    2,
	"MARZO":      3,
	"ABRIL":      4,
	"MAYO":       5,
	"JUNIO":      6,
	"JULIO":      7,
	"AGOSTO":     8,
	"SEPTIEMBRE": 9,
	"SETIEMBRE":  9,
	"OCTUBRE":    10,
	"NOVIEMBRE":  11,
	"DICIEMBRE":  12,
}

// normalizeYear maps two-digit years onto 2000-2099
func normalizeYear(y int) int {
	if y >= 0 && y <= 99 {
		return 2000 + y
	}
	return y
}

// resolveDate builds a calendar date, or nil when it does not exist
func resolveDate(day, month, year int) *civil.Date {
	d := civil.Date{Year: normalizeYear(year), Month: time.Month(month), Day: day}
	if !d.IsValid() {
		return nil
	}
	return &d
}

// ParseDateTime extracts the explicit date and time carried by a line.
// The date falls back to defaultYear when the fragment has no year. Fragments that
// match by shape but are numerically impossible yield nil.
func ParseDateTime(text string, defaultYear int) (*civil.Date, *match.Clock) {
	var date *civil.Date
	var clock *match.Clock

	// the leading time range would otherwise read as a day-month pair ("10:05-12:00")
	dateText := text
	if loc := timeRangePattern.FindStringIndex(text); loc != nil {
		dateText = text[loc[1]:]
	}

	if m := datePattern.FindStringSubmatch(dateText); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year := defaultYear
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		date = resolveDate(day, month, year)
	}

	if m := timePattern.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if c, ok := match.ParseClock(hour, minute); ok {
			clock = &c
		}
	}

	return date, clock
}

// parseHeading resolves a "31 DE ENERO" heading with the inferred year
func parseHeading(text string, year int) *civil.Date {
	m := headingPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	month, ok := spanishMonths[Normalize(m[2])]
	if !ok {
		return nil
	}
	day, _ := strconv.Atoi(m[1])
	return resolveDate(day, month, year)
}

// MonthNumber resolves a Spanish month name, accents and case ignored
func MonthNumber(name string) (time.Month, bool) {
	month, ok := spanishMonths[Normalize(name)]
	return time.Month(month), ok
}

// TeamTokens returns the team codes of a row in reading order
func TeamTokens(text string) []string {
	return teamTokenPattern.FindAllString(text, -1)
}

// StartsWithTimeRange reports whether a row begins with "HH:MM-HH:MM"
func StartsWithTimeRange(text string) bool {
	return timeRangePattern.MatchString(text)
}
