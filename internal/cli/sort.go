package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/canal-matches/internal/match"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByTeam SortOrder = "team"
	SortByDate SortOrder = "date"
)

// ParseSortOrder validates a --sort value
func ParseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByTeam, SortByDate:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'team' or 'date')", s)
	}
}

// sortMatches sorts matches in place. Team order is the engine's own order.
func sortMatches(matches []*match.Match, order SortOrder) {
	switch order {
	case SortByDate:
		match.SortChronological(matches)
	default:
		match.Sort(matches)
	}
}
