package match

import "sort"

// Sort orders matches by team code, then date, then time. Unknown dates and
// times sort after known ones. The sort is stable so equal keys keep scan order.
func Sort(matches []*Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return Less(matches[i], matches[j])
	})
}

// Less is the presentation order used by Sort
func Less(a, b *Match) bool {
	if a.TeamCode != b.TeamCode {
		return a.TeamCode < b.TeamCode
	}
	switch {
	case a.Date == nil && b.Date != nil:
		return false
	case a.Date != nil && b.Date == nil:
		return true
	case a.Date != nil && b.Date != nil && *a.Date != *b.Date:
		return a.Date.Before(*b.Date)
	}
	switch {
	case a.Time == nil && b.Time != nil:
		return false
	case a.Time != nil && b.Time == nil:
		return true
	case a.Time != nil && b.Time != nil:
		return a.Time.Before(*b.Time)
	}
	return false
}

// SortChronological orders matches by date and time, then team code.
// Used for announcements where the reader cares about "what is next".
func SortChronological(matches []*Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.DateString() != b.DateString() {
			if a.Date == nil {
				return false
			}
			if b.Date == nil {
				return true
			}
			return a.Date.Before(*b.Date)
		}
		if a.TimeString() != b.TimeString() {
			if a.Time == nil {
				return false
			}
			if b.Time == nil {
				return true
			}
			return a.Time.Before(*b.Time)
		}
		return a.TeamCode < b.TeamCode
	})
}
