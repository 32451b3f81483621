package match

import (
	"sort"
)

// Snapshot represents the match window that was last announced
type Snapshot struct {
	Team        string            `json:"team"`
	Matches     map[string]*Match `json:"matches"` // keyed by Match.ID
	WindowStart string            `json:"window_start,omitempty"`
	UpdatedAt   string            `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Matches: make(map[string]*Match),
	}
}

// CreateSnapshot creates a snapshot from a list of matches
func CreateSnapshot(team string, matches []*Match, updatedAt string) *Snapshot {
	snap := NewSnapshot()
	snap.Team = team
	snap.UpdatedAt = updatedAt

	for _, m := range matches {
		snap.Matches[m.ID] = m
		if m.Date != nil && (snap.WindowStart == "" || m.Date.String() < snap.WindowStart) {
			snap.WindowStart = m.Date.String()
		}
	}

	return snap
}

// DiffResult contains the results of comparing a window against a snapshot
type DiffResult struct {
	Added   []*Match
	Removed []*Match
}

// Changed reports whether the window differs from the snapshot
func (d *DiffResult) Changed() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// Diff compares the current window against the previously announced one
func Diff(previous *Snapshot, current []*Match) *DiffResult {
	result := &DiffResult{
		Added:   make([]*Match, 0),
		Removed: make([]*Match, 0),
	}

	if previous == nil {
		previous = NewSnapshot()
	}

	seen := make(map[string]bool, len(current))
	for _, m := range current {
		seen[m.ID] = true
		if _, exists := previous.Matches[m.ID]; !exists {
			result.Added = append(result.Added, m)
		}
	}

	for id, m := range previous.Matches {
		if !seen[id] {
			result.Removed = append(result.Removed, m)
		}
	}

	Sort(result.Added)
	// map iteration order is random
	sort.Slice(result.Removed, func(i, j int) bool {
		if Less(result.Removed[i], result.Removed[j]) {
			return true
		}
		if Less(result.Removed[j], result.Removed[i]) {
			return false
		}
		return result.Removed[i].ID < result.Removed[j].ID
	})

	return result
}
