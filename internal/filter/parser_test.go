package filter

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func timeMonth(m int) time.Month { return time.Month(m) }

func TestParseDateRange(t *testing.T) {
	today := civil.Date{Year: 2025, Month: time.October, Day: 15}

	tests := []struct {
		name     string
		input    string
		wantFrom string
		wantTo   string
		wantErr  bool
	}{
		{"iso day", "2025-10-18", "2025-10-18", "2025-10-18", false},
		{"iso range", "2025-10-18..2025-10-26", "2025-10-18", "2025-10-26", false},
		{"day range", "18-26 octubre", "2025-10-18", "2025-10-26", false},
		{"day range with de", "18-26 de Octubre", "2025-10-18", "2025-10-26", false},
		{"single day", "1 de noviembre", "2025-11-01", "2025-11-01", false},
		{"whole month", "noviembre", "2025-11-01", "2025-11-30", false},
		{"past month rolls over", "febrero", "2026-02-01", "2026-02-28", false},
		{"accented month", "SÉPTIEMBRE", "2026-09-01", "2026-09-30", false},
		{"empty", "", "", "", true},
		{"unknown month", "brumario", "", "", true},
		{"reversed range", "26-18 octubre", "", "", true},
		{"invalid day", "31 de noviembre", "", "", true},
		{"garbage", "next week", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := ParseDateRange(tt.input, today)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDateRange(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if from.String() != tt.wantFrom || to.String() != tt.wantTo {
				t.Errorf("ParseDateRange(%q) = %s..%s, want %s..%s", tt.input, from, to, tt.wantFrom, tt.wantTo)
			}
		})
	}
}
