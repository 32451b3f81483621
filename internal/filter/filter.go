// Package filter narrows a match list by date range, side, column, opponent or
// weekday.
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Sides = []match.Side{match.SideLocal}
//	f.DateFrom, f.DateTo, _ = filter.ParseDateRange("octubre", today)
//	filtered := f.Apply(matches)
package filter

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/pfrederiksen/canal-matches/internal/match"
)

// Filter represents match filtering criteria
type Filter struct {
	// Date range filtering, inclusive
	DateFrom *civil.Date `json:"date_from,omitempty"`
	DateTo   *civil.Date `json:"date_to,omitempty"`

	Sides []match.Side `json:"sides,omitempty"`

	// Column filtering (case-insensitive substring match)
	Columns []string `json:"columns,omitempty"`

	// Opponent filtering (case-insensitive exact match)
	Opponents []string `json:"opponents,omitempty"`

	// Weekend-only filtering (Saturday/Sunday)
	WeekendsOnly bool `json:"weekends_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all matches until criteria are added.
func NewFilter() *Filter {
	return &Filter{}
}

// IsEmpty checks if the filter has any active criteria
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Sides) == 0 &&
		len(f.Columns) == 0 &&
		len(f.Opponents) == 0 &&
		!f.WeekendsOnly
}

// Matches checks if a match passes all active criteria.
// Date-based criteria reject matches with an unknown date.
func (f *Filter) Matches(m *match.Match) bool {
	if f.IsEmpty() {
		return true
	}

	if f.DateFrom != nil || f.DateTo != nil || f.WeekendsOnly {
		if m.Date == nil {
			return false
		}
		if f.DateFrom != nil && m.Date.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && m.Date.After(*f.DateTo) {
			return false
		}
		if f.WeekendsOnly {
			weekday := m.Date.In(time.UTC).Weekday()
			if weekday != time.Saturday && weekday != time.Sunday {
				return false
			}
		}
	}

	if len(f.Sides) > 0 && !containsSide(f.Sides, m.Side) {
		return false
	}

	if len(f.Columns) > 0 {
		column := strings.ToLower(m.ColumnString())
		found := false
		for _, c := range f.Columns {
			if strings.Contains(column, strings.ToLower(c)) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Opponents) > 0 {
		opponent := m.OpponentString()
		found := false
		for _, o := range f.Opponents {
			if strings.EqualFold(opponent, o) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// Apply returns the matches that pass the filter, in input order
func (f *Filter) Apply(matches []*match.Match) []*match.Match {
	if f.IsEmpty() {
		return matches
	}

	filtered := make([]*match.Match, 0)
	for _, m := range matches {
		if f.Matches(m) {
			filtered = append(filtered, m)
		}
	}
	return filtered
}

// ParseSide accepts "local"/"visiting" and the Spanish labels
func ParseSide(s string) (match.Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local", "l":
		return match.SideLocal, nil
	case "visiting", "visitante", "v":
		return match.SideVisiting, nil
	default:
		return "", fmt.Errorf("invalid side: %q (must be 'local' or 'visiting')", s)
	}
}

func containsSide(sides []match.Side, side match.Side) bool {
	for _, s := range sides {
		if s == side {
			return true
		}
	}
	return false
}

// Description returns a human-readable summary of the active criteria
func (f *Filter) Description() string {
	if f.IsEmpty() {
		return "No filters"
	}

	var parts []string

	if f.DateFrom != nil && f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("%s to %s", f.DateFrom, f.DateTo))
	} else if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("from %s", f.DateFrom))
	} else if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("until %s", f.DateTo))
	}

	if len(f.Sides) > 0 {
		labels := make([]string, len(f.Sides))
		for i, s := range f.Sides {
			labels[i] = s.Label()
		}
		parts = append(parts, strings.Join(labels, "/"))
	}
	if len(f.Columns) > 0 {
		parts = append(parts, "column "+strings.Join(f.Columns, "/"))
	}
	if len(f.Opponents) > 0 {
		parts = append(parts, "vs "+strings.Join(f.Opponents, "/"))
	}
	if f.WeekendsOnly {
		parts = append(parts, "weekends only")
	}

	return strings.Join(parts, ", ")
}
