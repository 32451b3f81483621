package schedule

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/pfrederiksen/canal-matches/internal/match"
)

// WindowToUpcoming selects the next block of matches relative to today.
//
// Matches dated today win outright. Otherwise the window starts at the earliest
// future date and runs through the Sunday closing that week. Undated and past
// matches are never returned. Input order is preserved.
func WindowToUpcoming(matches []*match.Match, today civil.Date) []*match.Match {
	start, end, ok := UpcomingWindow(matches, today)
	if !ok {
		return []*match.Match{}
	}

	out := make([]*match.Match, 0)
	for _, m := range matches {
		if m.Date == nil || m.Date.Before(start) || m.Date.After(end) {
			continue
		}
		out = append(out, m)
	}
	return out
}

// UpcomingWindow returns the inclusive date range WindowToUpcoming keeps.
// ok is false when no match is dated today or later.
func UpcomingWindow(matches []*match.Match, today civil.Date) (start, end civil.Date, ok bool) {
	var earliest *civil.Date
	for _, m := range matches {
		if m.Date == nil {
			continue
		}
		if *m.Date == today {
			return today, today, true
		}
		if m.Date.After(today) && (earliest == nil || m.Date.Before(*earliest)) {
			d := *m.Date
			earliest = &d
		}
	}
	if earliest == nil {
		return civil.Date{}, civil.Date{}, false
	}
	return *earliest, EndOfWeek(*earliest), true
}

// EndOfWeek returns the Sunday closing the Monday-first week that contains d
func EndOfWeek(d civil.Date) civil.Date {
	weekday := (int(d.In(time.UTC).Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return d.AddDays(6 - weekday)
}
