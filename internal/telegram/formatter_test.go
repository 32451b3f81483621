package telegram

import (
	"errors"
	"strings"
	"testing"

	"cloud.google.com/go/civil"

	"github.com/pfrederiksen/canal-matches/internal/match"
)

func strPtr(s string) *string { return &s }

func clockPtr(h, m int) *match.Clock {
	c, _ := match.ParseClock(h, m)
	return &c
}

func TestFormatWindow(t *testing.T) {
	today := civil.Date{Year: 2025, Month: 10, Day: 18} // Saturday
	tomorrow := today.AddDays(1)

	m1 := match.New("I12", &today, clockPtr(10, 5), match.SideLocal, strPtr("Column 1 (Norte)"), "10:05-11:00 I12 C3", 1)
	m1.Opponent = strPtr("C3")
	m2 := match.New("I12", &tomorrow, nil, match.SideVisiting, nil, "I4 I12 <x>", 1)
	m2.Opponent = strPtr("I4<b>")
	m3 := match.New("I12", nil, nil, match.SideLocal, nil, "I12", 2)

	msg := FormatWindow([]*match.Match{m1, m2, m3}, "I12", today)

	expectedParts := []string{
		"<b>Calendario actualizado: I12</b>",
		"Partidos próximos: <b>3</b>",
		"• sáb 18/10 (hoy) 10:05: vs <b>C3</b> - Local (Column 1 (Norte))",
		"• dom 19/10: vs <b>I4&lt;b&gt;</b> - Visitante",
		"• (sin fecha/hora): vs (rival desconocido) - Local",
	}

	for _, part := range expectedParts {
		if !strings.Contains(msg, part) {
			t.Errorf("FormatWindow() missing %q\ngot:\n%s", part, msg)
		}
	}

	if strings.HasSuffix(msg, "\n") {
		t.Error("FormatWindow() should not end with a newline")
	}
}

func TestFormatWindow_Empty(t *testing.T) {
	today := civil.Date{Year: 2025, Month: 10, Day: 18}
	msg := FormatWindow(nil, "I12", today)
	if msg != FormatEmpty("I12") {
		t.Errorf("FormatWindow(nil) = %q, want FormatEmpty output", msg)
	}
	if !strings.Contains(msg, "No hay partidos próximos") {
		t.Errorf("FormatEmpty() = %q", msg)
	}
}

func TestFormatFailure(t *testing.T) {
	msg := FormatFailure(errors.New("status 500 from <server>"))
	want := "⚠️ No se pudo actualizar el calendario: status 500 from &lt;server&gt;"
	if msg != want {
		t.Errorf("FormatFailure() = %q, want %q", msg, want)
	}
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want []string
	}{
		{
			name: "fits",
			text: "a\nb",
			max:  10,
			want: []string{"a\nb"},
		},
		{
			name: "splits at lines",
			text: "aaaa\nbbbb\ncccc",
			max:  10,
			want: []string{"aaaa\nbbbb", "cccc"},
		},
		{
			name: "long line is hard split",
			text: "abcdefghij\nxy",
			max:  4,
			want: []string{"abcd", "efgh", "ij", "xy"},
		},
		{
			name: "keeps runes whole",
			text: "ñññ",
			max:  3,
			want: []string{"ñ", "ñ", "ñ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.text, tt.max)
			if len(got) != len(tt.want) {
				t.Fatalf("Chunk() = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("chunk[%d] = %q, want %q", i, got[i], tt.want[i])
				}
				if len(got[i]) > tt.max {
					t.Errorf("chunk[%d] length %d exceeds %d", i, len(got[i]), tt.max)
				}
			}
		})
	}
}
