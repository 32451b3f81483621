package document

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"code.sajari.com/docconv"
)

// DocconvReader extracts text with pdftotext through docconv. It has no geometry.
type DocconvReader struct{}

// NewDocconvReader creates a new DocconvReader
func NewDocconvReader() *DocconvReader {
	return &DocconvReader{}
}

// Read converts a PDF into lines. Pages are split on form feeds when pdftotext emits them.
func (r *DocconvReader) Read(ctx context.Context, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, ErrEmptyDocument
	}

	body, _, err := docconv.ConvertPDF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("converting PDF: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Document{Lines: linesFromText(body)}, nil
}

// linesFromText splits extracted text into pages on '\f' and then into lines
func linesFromText(body string) []Line {
	var lines []Line
	for i, pageText := range strings.Split(body, "\f") {
		lines = splitLines(lines, i+1, pageText)
	}
	return lines
}
