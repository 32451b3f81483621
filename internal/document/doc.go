// Package document turns calendar document bytes into ordered text lines and,
// where the backend exposes it, word and rectangle geometry.
//
// Two backends are provided: PDFReader, built on github.com/ledongthuc/pdf, which keeps
// page numbers and glyph positions, and DocconvReader, which shells out to pdftotext
// through code.sajari.com/docconv and yields text only.
package document
