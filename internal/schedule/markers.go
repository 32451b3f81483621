package schedule

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Markers are the literal texts that delimit the sub-calendar of interest
type Markers struct {
	// SectionStart switches extraction on when a line contains it
	SectionStart string `yaml:"section_start"`
	// SectionEnd switches extraction off when a line starts with it
	SectionEnd string `yaml:"section_end"`
	// PitchWord introduces each column in a header row, e.g. "CAMPO 1 (Norte)"
	PitchWord string `yaml:"pitch_word"`
}

// DefaultMarkers returns the markers of the football 7 calendar
func DefaultMarkers() Markers {
	return Markers{
		SectionStart: "FUTBOL 7",
		SectionEnd:   "BALONCESTO",
		PitchWord:    "CAMPO",
	}
}

// withDefaults fills empty markers from DefaultMarkers
func (m Markers) withDefaults() Markers {
	def := DefaultMarkers()
	if strings.TrimSpace(m.SectionStart) == "" {
		m.SectionStart = def.SectionStart
	}
	if strings.TrimSpace(m.SectionEnd) == "" {
		m.SectionEnd = def.SectionEnd
	}
	if strings.TrimSpace(m.PitchWord) == "" {
		m.PitchWord = def.PitchWord
	}
	return m
}

// Normalize strips diacritics, collapses whitespace and upper-cases s.
// "Fútbol  7" and "FUTBOL 7" normalize to the same string.
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.Join(strings.Fields(out), " "))
}
