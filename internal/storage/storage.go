package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/canal-matches/internal/match"
)

// Storage handles persistence of announced-window snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	dataDir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// ExpandHome replaces a leading ~/ with the user's home directory
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
}

// Dir returns the data directory
func (s *Storage) Dir() string {
	return s.dataDir
}

// getSnapshotPath returns the path to the snapshot file
func (s *Storage) getSnapshotPath(team string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("snapshot_%s.json", sanitize(team)))
}

// sanitize keeps a team code safe for use in a file name
func sanitize(team string) string {
	team = strings.ToUpper(strings.TrimSpace(team))
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, team)
}

// LoadSnapshot loads the last announced window for team
func (s *Storage) LoadSnapshot(team string) (*match.Snapshot, error) {
	path := s.getSnapshotPath(team)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No previous snapshot, return empty one
			snap := match.NewSnapshot()
			snap.Team = team
			return snap, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot match.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	// Ensure Matches map is initialized
	if snapshot.Matches == nil {
		snapshot.Matches = make(map[string]*match.Match)
	}

	return &snapshot, nil
}

// SaveSnapshot saves a snapshot to disk, replacing the previous one atomically
func (s *Storage) SaveSnapshot(snapshot *match.Snapshot) error {
	path := s.getSnapshotPath(snapshot.Team)

	// Set updated timestamp
	snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// SaveWindow creates and saves a snapshot of the announced window for team
func (s *Storage) SaveWindow(team string, window []*match.Match) error {
	snapshot := match.CreateSnapshot(team, window, time.Now().UTC().Format(time.RFC3339))
	return s.SaveSnapshot(snapshot)
}
