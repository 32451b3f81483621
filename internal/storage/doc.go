// Package storage persists the last announced match window per team.
//
// Snapshots are JSON files named snapshot_<TEAM>.json inside the data directory,
// which is created on first use. A missing snapshot loads as an empty one.
package storage
