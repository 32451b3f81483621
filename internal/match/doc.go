// Package match provides the record types produced by the calendar extraction engine.
//
// A Match is one team occurrence in one fixture row: the team code, the optional date,
// kick-off time and pitch column, and the side (local or visiting) derived from the
// token's position in its pair. Each match carries a deterministic SHA1-based ID built
// from its full deduplication key, enabling reliable comparison across runs.
package match
