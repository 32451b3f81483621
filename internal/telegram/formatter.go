package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"

	"github.com/pfrederiksen/canal-matches/internal/match"
)

// MaxMessageLength is the Bot API limit for one text message
const MaxMessageLength = 4096

var weekdays = [...]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}

// FormatWindow formats the matches of the upcoming block as one message
func FormatWindow(matches []*match.Match, team string, today civil.Date) string {
	if len(matches) == 0 {
		return FormatEmpty(team)
	}

	var msg strings.Builder

	msg.WriteString(fmt.Sprintf("⚽ <b>Calendario actualizado: %s</b>\n", html.EscapeString(team)))
	msg.WriteString(fmt.Sprintf("Partidos próximos: <b>%d</b>\n\n", len(matches)))

	for _, m := range matches {
		msg.WriteString(FormatMatchLine(m, today))
		msg.WriteString("\n")
	}

	return strings.TrimRight(msg.String(), "\n")
}

// FormatMatchLine formats one match as a bullet line
func FormatMatchLine(m *match.Match, today civil.Date) string {
	var line strings.Builder

	line.WriteString("• ")
	line.WriteString(formatWhen(m, today))

	if opp := m.OpponentString(); opp != "" {
		line.WriteString(fmt.Sprintf(": vs <b>%s</b>", html.EscapeString(opp)))
	} else {
		line.WriteString(": vs (rival desconocido)")
	}

	line.WriteString(" - ")
	line.WriteString(m.Side.Label())

	if col := m.ColumnString(); col != "" {
		line.WriteString(fmt.Sprintf(" (%s)", html.EscapeString(col)))
	}

	return line.String()
}

func formatWhen(m *match.Match, today civil.Date) string {
	var parts []string

	if m.Date != nil {
		d := *m.Date
		label := fmt.Sprintf("%s %02d/%02d", weekdays[d.In(time.UTC).Weekday()], d.Day, int(d.Month))
		if d == today {
			label += " (hoy)"
		}
		parts = append(parts, label)
	}
	if m.Time != nil {
		parts = append(parts, m.Time.String())
	}

	if len(parts) == 0 {
		return "(sin fecha/hora)"
	}
	return strings.Join(parts, " ")
}

// FormatEmpty formats the message sent when no upcoming match was found
func FormatEmpty(team string) string {
	return fmt.Sprintf("⚽ <b>Calendario actualizado: %s</b>\nNo hay partidos próximos.", html.EscapeString(team))
}

// FormatFailure formats the single notification sent when a run fails
func FormatFailure(err error) string {
	return fmt.Sprintf("⚠️ No se pudo actualizar el calendario: %s", html.EscapeString(err.Error()))
}

// Chunk splits text into pieces of at most max bytes, breaking at line boundaries.
// A line longer than max is split at rune boundaries.
func Chunk(text string, max int) []string {
	if max <= 0 {
		max = MaxMessageLength
	}
	if len(text) <= max {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimRight(current.String(), "\n"))
			current.Reset()
		}
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		if current.Len()+len(line) > max {
			flush()
		}
		for len(line) > max {
			cut := max
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			if cut == 0 {
				_, cut = utf8.DecodeRuneInString(line)
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		current.WriteString(line)
	}
	flush()

	return chunks
}
