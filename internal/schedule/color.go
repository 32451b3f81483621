package schedule

import (
	"math"
	"strings"

	"github.com/pfrederiksen/canal-matches/internal/document"
	"github.com/pfrederiksen/canal-matches/internal/match"
)

// Reference fills for the two jersey buckets, RGB in [0, 1].
var (
	WhiteReference = document.RGB{R: 1, G: 1, B: 1}
	BlueReference  = document.RGB{R: 0.36, G: 0.61, B: 0.84}
)

// AmbiguityMargin is the minimum difference between the two reference distances
// for a fill to be classified as blue.
const AmbiguityMargin = 0.05

// ClassifyFill buckets a fill color as white or blue by distance to the references.
// A nil fill, or one roughly equidistant from both, is white.
func ClassifyFill(fill *document.RGB) match.Color {
	if fill == nil {
		return match.ColorWhite
	}
	for _, v := range []float64{fill.R, fill.G, fill.B} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return match.ColorWhite
		}
	}

	dWhite := distance(*fill, WhiteReference)
	dBlue := distance(*fill, BlueReference)
	if dWhite-dBlue > AmbiguityMargin {
		return match.ColorBlue
	}
	return match.ColorWhite
}

func distance(a, b document.RGB) float64 {
	dr, dg, db := a.R-b.R, a.G-b.G, a.B-b.B
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

type wordKey struct {
	page int
	text string
}

// colorLookup maps token occurrences to the shading behind them. Tokens are
// matched to words by page and text in reading order: the n-th "AB12" read on a
// page is the n-th "AB12" word of that page. Every line's tokens must be passed
// through next or skip so the occurrence counters stay aligned.
type colorLookup struct {
	words map[wordKey][]document.Word
	rects map[int][]document.Rect
	used  map[wordKey]int
}

func newColorLookup(g *document.Geometry) *colorLookup {
	if g == nil {
		return nil
	}

	l := &colorLookup{
		words: make(map[wordKey][]document.Word),
		rects: make(map[int][]document.Rect),
		used:  make(map[wordKey]int),
	}
	for _, w := range g.Words {
		k := wordKey{page: w.Page, text: strings.Trim(w.Text, ".,;:()[]")}
		l.words[k] = append(l.words[k], w)
	}
	for _, r := range g.Rects {
		l.rects[r.Page] = append(l.rects[r.Page], r)
	}
	return l
}

// skip consumes the occurrences of tokens on a line that yields no matches
func (l *colorLookup) skip(page int, tokens []string) {
	for _, token := range tokens {
		l.used[wordKey{page: page, text: token}]++
	}
}

// next returns the color behind the next unread occurrence of token on page.
// It returns nil when the token sits on no filled rectangle.
func (l *colorLookup) next(page int, token string) *match.Color {
	k := wordKey{page: page, text: token}
	n := l.used[k]
	l.used[k] = n + 1

	words := l.words[k]
	if n >= len(words) {
		return nil
	}

	x, y := words[n].Box.Center()
	var best *document.Rect
	for i := range l.rects[page] {
		r := &l.rects[page][i]
		// stroked borders carry no shading
		if r.Fill == nil || !r.Box.Contains(x, y) {
			continue
		}
		if best == nil || r.Box.Area() < best.Box.Area() {
			best = r
		}
	}
	if best == nil {
		return nil
	}
	c := ClassifyFill(best.Fill)
	return &c
}
