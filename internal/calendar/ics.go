// Package calendar exports matches as an iCalendar feed.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/pfrederiksen/canal-matches/internal/match"
)

// MatchDuration is the length given to timed matches
const MatchDuration = time.Hour

// now is replaced in tests
var now = time.Now

// GenerateICS generates an iCalendar (.ics) file with one event per dated match.
// Timed matches use floating local times; untimed matches are all-day events.
func GenerateICS(matches []*match.Match) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Canal Matches//canal-matches//ES\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatICSTime(now())

	for _, m := range matches {
		if m.Date == nil {
			continue
		}
		writeEvent(&ics, m, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

func writeEvent(ics *strings.Builder, m *match.Match, stamp string) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	ics.WriteString(fmt.Sprintf("UID:%s@canal-matches\r\n", m.ID))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))

	if m.Time != nil {
		start := m.Date.In(time.UTC).Add(time.Duration(m.Time.Hour)*time.Hour + time.Duration(m.Time.Minute)*time.Minute)
		end := start.Add(MatchDuration)
		ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatLocalTime(start)))
		ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatLocalTime(end)))
	} else {
		ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(*m.Date)))
		ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(m.Date.AddDays(1))))
	}

	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(summary(m))))

	description := fmt.Sprintf("%s\n%s", m.Side.Label(), m.SourceLine)
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(description)))

	if col := m.ColumnString(); col != "" {
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(col)))
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")

	ics.WriteString("END:VEVENT\r\n")
}

func summary(m *match.Match) string {
	if opp := m.OpponentString(); opp != "" {
		if m.Side == match.SideVisiting {
			return fmt.Sprintf("%s vs %s", opp, m.TeamCode)
		}
		return fmt.Sprintf("%s vs %s", m.TeamCode, opp)
	}
	return fmt.Sprintf("%s (%s)", m.TeamCode, m.Side.Label())
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatLocalTime formats wall-clock fields as a floating datetime
func formatLocalTime(t time.Time) string {
	return t.Format("20060102T150405")
}

func formatICSDate(d civil.Date) string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, int(d.Month), d.Day)
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
