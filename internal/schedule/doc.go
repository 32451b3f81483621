// Package schedule implements the calendar extraction engine.
//
// The engine reads the text lines of a league calendar in document order and keeps three
// pieces of context while it goes: the date of the last "31 DE ENERO" style heading, whether
// the lines belong to the sub-calendar of interest, and the pitch names declared by the last
// "CAMPO 1 (...) CAMPO 2 (...)" header. Rows that start with a "HH:MM-HH:MM" time range
// inside that sub-calendar are split into team tokens; each adjacent pair of tokens is one
// fixture, the first team playing as local and the second as visiting.
//
// Extraction is a pure function of its input lines: every call builds its own parser state,
// so independent documents can be processed concurrently without coordination.
//
// The local/visiting convention comes from the layout of the printed calendar, not from any
// label in the text. If the column order of the source ever changes, sides will be swapped
// silently.
package schedule
