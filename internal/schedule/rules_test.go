package schedule

import (
	"reflect"
	"testing"
	"time"

	"github.com/pfrederiksen/canal-matches/internal/document"
)

func TestRules_Classify(t *testing.T) {
	rules := NewRules(DefaultMarkers(), 2024)

	tests := []struct {
		name      string
		text      string
		inSection bool
		want      Rule
	}{
		{"date heading", "31 DE ENERO", false, RuleDateHeading},
		{"date heading lower case with accents", "3 de Febrero", true, RuleDateHeading},
		{"unknown month is not a heading", "31 DE FOO", false, RuleNoise},
		{"impossible day is not a heading", "31 DE FEBRERO", false, RuleNoise},
		{"section start", "CALENDARIO FÚTBOL 7", false, RuleSectionStart},
		{"section end", "BALONCESTO ALEVIN", true, RuleSectionEnd},
		{"section end must be a prefix", "PISTA DE BALONCESTO", true, RuleNoise},
		{"column header", "CAMPO 1 (A) CAMPO 2 (B)", true, RuleColumnHeader},
		{"column header outside section", "CAMPO 1 (A)", false, RuleNoise},
		{"match row", "10:00-11:00 AB12 CD34", true, RuleMatchRow},
		{"match row with spaces", "10:00 - 11:00 AB12 CD34", true, RuleMatchRow},
		{"match row outside section", "10:00-11:00 AB12 CD34", false, RuleNoise},
		{"single time is not a row", "10:00 AB12 CD34", true, RuleNoise},
		{"blank", "", true, RuleNoise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rules.Classify(tt.text, tt.inSection)
			if got.Rule != tt.want {
				t.Errorf("Classify(%q, %v) = %s, want %s", tt.text, tt.inSection, got.Rule, tt.want)
			}
		})
	}
}

func TestRules_ClassifyHeadingDate(t *testing.T) {
	rules := NewRules(DefaultMarkers(), 2024)

	got := rules.Classify("31 DE ENERO", false)
	if got.Date == nil || got.Date.String() != "2024-01-31" {
		t.Errorf("heading date = %v, want 2024-01-31", got.Date)
	}

	got = rules.Classify("1 de setiembre", false)
	if got.Date == nil || got.Date.String() != "2024-09-01" {
		t.Errorf("heading date = %v, want 2024-09-01", got.Date)
	}
}

func TestRules_ParseColumnHeader(t *testing.T) {
	rules := NewRules(DefaultMarkers(), 2024)

	tests := []struct {
		text string
		want []string
	}{
		{"CAMPO 1 (Norte) CAMPO 2 (Sur)", []string{"Column 1 (Norte)", "Column 2 (Sur)"}},
		{"CAMPO 1 CAMPO 2", []string{"Column 1", "Column 2"}},
		{"Campo1(Grande) campo 3", []string{"Column 1 (Grande)", "Column 3"}},
		{"CAMPO 2 ( ) CAMPO 4", []string{"Column 2", "Column 4"}},
		{"CAMPO", nil},
		{"no header here", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := rules.ParseColumnHeader(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseColumnHeader(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestRule_String(t *testing.T) {
	if RuleMatchRow.String() != "match-row" {
		t.Errorf("RuleMatchRow.String() = %q", RuleMatchRow.String())
	}
	if Rule(99).String() != "noise" {
		t.Errorf("Rule(99).String() = %q", Rule(99).String())
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fútbol 7", "FUTBOL 7"},
		{"  fútbol    7 ", "FUTBOL 7"},
		{"CAMPEÓN ÑANDÚ", "CAMPEON NANDU"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseDateTime(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantDate string
		wantTime string
	}{
		{"date with four digit year", "10:00-11:00 03/02/2025 AB12", "2025-02-03", "10:00"},
		{"two digit year", "10:00-11:00 03/02/24 AB12", "2024-02-03", "10:00"},
		{"no year uses default", "10:00-11:00 3.2 AB12", "2024-02-03", "10:00"},
		{"dotted time", "Partido 9.30 AB12", "", "09:30"},
		{"time range not read as date", "10:05-12:00 AB12 CD34", "", "10:05"},
		{"invalid day", "10:00-11:00 32/01/24 AB12", "", "10:00"},
		{"invalid month", "10:00-11:00 12/13/24 AB12", "", "10:00"},
		{"invalid hour", "25:00-26:00 01/02/24", "2024-02-01", ""},
		{"nothing", "AB12 CD34", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, c := ParseDateTime(tt.text, 2024)

			gotDate := ""
			if d != nil {
				gotDate = d.String()
			}
			gotTime := ""
			if c != nil {
				gotTime = c.String()
			}

			if gotDate != tt.wantDate {
				t.Errorf("ParseDateTime(%q) date = %q, want %q", tt.text, gotDate, tt.wantDate)
			}
			if gotTime != tt.wantTime {
				t.Errorf("ParseDateTime(%q) time = %q, want %q", tt.text, gotTime, tt.wantTime)
			}
		})
	}
}

func TestTeamTokens(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"10:00-11:00 AB12 CD34", []string{"AB12", "CD34"}},
		{"10:00-11:00 I12 ABC123 X1", []string{"I12", "ABC123", "X1"}},
		{"ABCD12 AB1234 ab12 A12B", nil},
		{"(AB12)-CD34", []string{"AB12", "CD34"}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got := TeamTokens(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TeamTokens(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestInferYear(t *testing.T) {
	now := time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"four digit year", []string{"header", "Actualizado 15/01/2024"}, 2024},
		{"two digit year", []string{"31/01/24"}, 2024},
		{"first candidate wins", []string{"01/09/2023", "01/01/2024"}, 2023},
		{"out of range skipped", []string{"01/01/2500", "01/01/2025"}, 2025},
		{"only first fragment of a line", []string{"3/2 y 1/2/25", "01/01/2024"}, 2024},
		{"first fragment with year", []string{"1/2/25 y 3/2/26"}, 2025},
		{"no year anywhere", []string{"31 DE ENERO", "10:00-11:00 AB12 CD34", "3/2"}, 2026},
		{"empty", nil, 2026},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferYear(lines(1, tt.lines...), now)
			if got != tt.want {
				t.Errorf("InferYear() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClassifyFill(t *testing.T) {
	tests := []struct {
		name string
		fill *document.RGB
		want string
	}{
		{"nil fill", nil, "white"},
		{"pure white", &document.RGB{R: 1, G: 1, B: 1}, "white"},
		{"light grey", &document.RGB{R: 0.9, G: 0.9, B: 0.9}, "white"},
		{"reference blue", &BlueReference, "blue"},
		{"darker blue", &document.RGB{R: 0.2, G: 0.45, B: 0.75}, "blue"},
		{"equidistant", &document.RGB{R: 0.68, G: 0.805, B: 0.92}, "white"},
		{"out of range", &document.RGB{R: 2, G: 0, B: 0}, "white"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyFill(tt.fill); string(got) != tt.want {
				t.Errorf("ClassifyFill(%v) = %s, want %s", tt.fill, got, tt.want)
			}
		})
	}
}
