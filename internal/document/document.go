package document

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDocument is returned when there are no bytes to decode
var ErrEmptyDocument = errors.New("document is empty")

// Line is one non-blank text line of a page
type Line struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// Box is an axis-aligned rectangle in page coordinates
type Box struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Center returns the midpoint of the box
func (b Box) Center() (float64, float64) {
	return (b.X0 + b.X1) / 2, (b.Y0 + b.Y1) / 2
}

// Contains reports whether the point lies inside the box, edges included
func (b Box) Contains(x, y float64) bool {
	return x >= b.X0 && x <= b.X1 && y >= b.Y0 && y <= b.Y1
}

// Area returns the box area
func (b Box) Area() float64 {
	return (b.X1 - b.X0) * (b.Y1 - b.Y0)
}

// RGB is a fill color with components in [0, 1]
type RGB struct {
	R, G, B float64
}

// Word is a positioned word on a page
type Word struct {
	Page int
	Text string
	Box  Box
}

// Rect is a filled rectangle on a page. Fill is nil when the backend cannot read it.
type Rect struct {
	Page int
	Box  Box
	Fill *RGB
}

// Geometry holds per-document word and rectangle positions
type Geometry struct {
	Words []Word
	Rects []Rect
}

// Document is the decoded form of a calendar file
type Document struct {
	Lines    []Line
	Geometry *Geometry // nil when the backend has no layout information
}

// PageText joins the lines of one page with newlines
func (d *Document) PageText(page int) string {
	var b strings.Builder
	for _, l := range d.Lines {
		if l.Page != page {
			continue
		}
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

// Reader decodes document bytes
type Reader interface {
	Read(ctx context.Context, data []byte) (*Document, error)
}

// Reader kinds accepted by New
const (
	KindPDF     = "pdf"
	KindDocconv = "docconv"
)

// New returns the reader for kind. An empty kind selects the PDF reader.
func New(kind string) (Reader, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindPDF:
		return NewPDFReader(), nil
	case KindDocconv:
		return NewDocconvReader(), nil
	default:
		return nil, fmt.Errorf("unknown document reader: %q (must be %q or %q)", kind, KindPDF, KindDocconv)
	}
}

// cleanLine collapses runs of whitespace the way the calendar rows are matched
func cleanLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// splitLines appends the non-blank lines of text to lines, tagged with page
func splitLines(lines []Line, page int, text string) []Line {
	for _, raw := range strings.Split(text, "\n") {
		if cleaned := cleanLine(raw); cleaned != "" {
			lines = append(lines, Line{Page: page, Text: cleaned})
		}
	}
	return lines
}
