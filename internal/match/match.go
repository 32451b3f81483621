package match

import (
	"crypto/sha1"
	"fmt"
	"strconv"

	"cloud.google.com/go/civil"
)

// Side is the half of a fixture a team occupies.
type Side string

const (
	SideLocal    Side = "LOCAL"
	SideVisiting Side = "VISITING"
)

// Label returns the Spanish label used in notifications
func (s Side) Label() string {
	switch s {
	case SideLocal:
		return "Local"
	case SideVisiting:
		return "Visitante"
	default:
		return ""
	}
}

// Color is the jersey bucket read from cell shading, when geometry is available.
type Color string

const (
	ColorWhite Color = "white"
	ColorBlue  Color = "blue"
)

// Match represents one team occurrence in a calendar row
type Match struct {
	ID         string      `json:"id"`
	TeamCode   string      `json:"team_code"`
	Date       *civil.Date `json:"date,omitempty"`
	Time       *Clock      `json:"time,omitempty"`
	Side       Side        `json:"side"`
	Column     *string     `json:"column,omitempty"`
	Opponent   *string     `json:"opponent,omitempty"`
	Color      *Color      `json:"color,omitempty"`
	SourceLine string      `json:"source_line"`
	SourcePage int         `json:"source_page"`
}

// GenerateID creates a deterministic ID from the full deduplication key
func GenerateID(team string, date *civil.Date, clock *Clock, side Side, column *string, line string, page int) string {
	h := sha1.New()
	h.Write([]byte(team + "|" + dateKey(date) + "|" + clockKey(clock) + "|" + string(side) + "|" +
		optKey(column) + "|" + line + "|" + strconv.Itoa(page)))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// New creates a Match with its ID populated
func New(team string, date *civil.Date, clock *Clock, side Side, column *string, line string, page int) *Match {
	return &Match{
		ID:         GenerateID(team, date, clock, side, column, line, page),
		TeamCode:   team,
		Date:       date,
		Time:       clock,
		Side:       side,
		Column:     column,
		SourceLine: line,
		SourcePage: page,
	}
}

// DateString returns the ISO date or "" when unknown
func (m *Match) DateString() string {
	return dateKey(m.Date)
}

// TimeString returns "HH:MM" or "" when unknown
func (m *Match) TimeString() string {
	return clockKey(m.Time)
}

// ColumnString returns the column label or "" when unknown
func (m *Match) ColumnString() string {
	return optKey(m.Column)
}

// OpponentString returns the opponent code or "" when unknown
func (m *Match) OpponentString() string {
	return optKey(m.Opponent)
}

func dateKey(d *civil.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func clockKey(c *Clock) string {
	if c == nil {
		return ""
	}
	return c.String()
}

func optKey(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
