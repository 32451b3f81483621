// Package cli implements the command-line interface for canal-matches.
//
// The root command (and its "run" alias) resolves the calendar URL, downloads and
// reads the document, extracts the configured team's matches, writes the output
// files and announces the upcoming block of matches. "parse" works on local files,
// "locate" resolves a web page to its calendar document and "history" lists
// recorded runs.
package cli
