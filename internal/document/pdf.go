package document

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// wordGapRatio is the horizontal gap, relative to font size, that separates two words
const wordGapRatio = 0.25

// PDFReader reads PDF files page by page, keeping glyph geometry
type PDFReader struct{}

// NewPDFReader creates a new PDFReader
func NewPDFReader() *PDFReader {
	return &PDFReader{}
}

// Read decodes a PDF into ordered lines (top to bottom, pages ascending) and geometry
func (r *PDFReader) Read(ctx context.Context, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}

	doc := &Document{Geometry: &Geometry{}}
	for num := 1; num <= reader.NumPage(); num++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(num)
		if page.V.IsNull() {
			continue
		}

		if err := readPage(doc, page, num); err != nil {
			return nil, fmt.Errorf("reading page %d: %w", num, err)
		}
	}

	return doc, nil
}

func readPage(doc *Document, page pdf.Page, num int) (err error) {
	// the content stream interpreter panics on malformed operators
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("malformed page content: %v", rec)
		}
	}()

	rows, err := page.GetTextByRow()
	if err != nil {
		return fmt.Errorf("extracting rows: %w", err)
	}

	// PDF space grows upwards: the highest row is the first line
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Position > rows[j].Position
	})

	for _, row := range rows {
		words := assembleWords(row.Content, num)
		if len(words) == 0 {
			continue
		}
		parts := make([]string, len(words))
		for i, w := range words {
			parts[i] = w.Text
		}
		doc.Lines = append(doc.Lines, Line{Page: num, Text: strings.Join(parts, " ")})
		doc.Geometry.Words = append(doc.Geometry.Words, words...)
	}

	for _, rect := range page.Content().Rect {
		doc.Geometry.Rects = append(doc.Geometry.Rects, Rect{
			Page: num,
			Box: Box{
				X0: rect.Min.X,
				Y0: rect.Min.Y,
				X1: rect.Max.X,
				Y1: rect.Max.Y,
			},
		})
	}

	return nil
}

// assembleWords merges the glyph runs of one row into positioned words
func assembleWords(texts []pdf.Text, page int) []Word {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var words []Word
	var current strings.Builder
	var box Box
	lastEnd := 0.0

	flush := func() {
		if current.Len() > 0 {
			words = append(words, Word{Page: page, Text: current.String(), Box: box})
			current.Reset()
		}
	}

	for _, t := range sorted {
		if strings.TrimSpace(t.S) == "" {
			flush()
			continue
		}
		if current.Len() > 0 && t.X-lastEnd > t.FontSize*wordGapRatio {
			flush()
		}
		if current.Len() == 0 {
			box = Box{X0: t.X, Y0: t.Y, X1: t.X + t.W, Y1: t.Y + t.FontSize}
		}
		current.WriteString(strings.TrimSpace(t.S))
		if end := t.X + t.W; end > box.X1 {
			box.X1 = end
		}
		lastEnd = t.X + t.W
	}
	flush()

	return words
}
