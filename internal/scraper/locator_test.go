package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/pfrederiksen/canal-matches/internal/document"
)

// textReader treats the downloaded bytes as the first page's text
type textReader struct{}

func (textReader) Read(ctx context.Context, data []byte) (*document.Document, error) {
	if len(data) == 0 {
		return nil, document.ErrEmptyDocument
	}
	if strings.HasPrefix(string(data), "BROKEN") {
		return nil, errors.New("undecodable")
	}
	doc := &document.Document{}
	for _, line := range strings.Split(string(data), "\n") {
		doc.Lines = append(doc.Lines, document.Line{Page: 1, Text: line})
	}
	return doc, nil
}

func TestCandidates(t *testing.T) {
	html := `
		<html><body>
			<a href="#top">Top</a>
			<a href="mailto:info@example.com">Mail</a>
			<a href="/docs/normas.pdf">Normas</a>
			<a href="files/cal.PDF">Descargar</a>
			<a href="https://cdn.example.com/view?id=calendario-2025">Ver</a>
			<a href="/page">Calendario de liga</a>
			<a href="/news">Noticias</a>
			<a href="/docs/normas.pdf">Normas (duplicado)</a>
			<a href="ftp://example.com/cal.pdf">FTP</a>
		</body></html>`

	got, err := Candidates(strings.NewReader(html), "https://league.example.com/deportes/index.html")
	if err != nil {
		t.Fatalf("Candidates() error: %v", err)
	}

	want := []string{
		"https://league.example.com/docs/normas.pdf",
		"https://league.example.com/deportes/files/cal.PDF",
		"https://cdn.example.com/view?id=calendario-2025",
		"https://league.example.com/page",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates() =\n%v\nwant\n%v", got, want)
	}
}

func TestHasPhrases(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"CALENDARIO FÚTBOL 7\nCampo 1", true},
		{"calendário\ncampo", true},
		{"CALENDARIO BALONCESTO\nPista 1", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := HasPhrases(tt.text, DefaultPhrases); got != tt.want {
			t.Errorf("HasPhrases(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func newSite(t *testing.T, files map[string]string, links []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		var b strings.Builder
		b.WriteString("<html><body>")
		for _, l := range links {
			fmt.Fprintf(&b, `<a href="%s">doc</a>`, l)
		}
		b.WriteString("</body></html>")
		w.Write([]byte(b.String()))
	})
	for path, body := range files {
		body := body
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
	}

	t.Cleanup(server.Close)
	return server
}

func TestLocate(t *testing.T) {
	files := map[string]string{
		"/normas.pdf":       "NORMAS DE COMPETICION",
		"/roto.pdf":         "BROKEN",
		"/baloncesto.pdf":   "CALENDARIO BALONCESTO\nPista 2",
		"/futbol.pdf":       "CALENDARIO FUTBOL 7\nCAMPO 1 CAMPO 2",
		"/futbol-copia.pdf": "CALENDARIO FUTBOL 7\nCAMPO 1",
	}
	links := []string{"/normas.pdf", "/missing.pdf", "/roto.pdf", "/baloncesto.pdf", "/futbol.pdf", "/futbol-copia.pdf"}
	server := newSite(t, files, links)

	loc := NewLocator(fastDownloader(), textReader{}, nil)
	got, err := loc.Locate(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}

	if want := server.URL + "/futbol.pdf"; got != want {
		t.Errorf("Locate() = %q, want %q", got, want)
	}
}

func TestLocate_NoDocument(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		links []string
	}{
		{
			name:  "no links",
			files: map[string]string{},
			links: nil,
		},
		{
			name:  "no candidate passes validation",
			files: map[string]string{"/normas.pdf": "NORMAS"},
			links: []string{"/normas.pdf"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newSite(t, tt.files, tt.links)

			loc := NewLocator(fastDownloader(), textReader{}, nil)
			_, err := loc.Locate(context.Background(), server.URL+"/")
			if !errors.Is(err, ErrNoDocument) {
				t.Errorf("Locate() error = %v, want ErrNoDocument", err)
			}
		})
	}
}

func TestLocate_CustomPhrases(t *testing.T) {
	files := map[string]string{
		"/a.pdf": "CALENDARIO FUTBOL 7\nCAMPO 1",
		"/b.pdf": "CALENDARIO FUTBOL SALA\nPISTA 1",
	}
	server := newSite(t, files, []string{"/a.pdf", "/b.pdf"})

	loc := NewLocator(fastDownloader(), textReader{}, []string{"calendario", "pista"})
	got, err := loc.Locate(context.Background(), server.URL+"/")
	if err != nil {
		t.Fatalf("Locate() error: %v", err)
	}
	if want := server.URL + "/b.pdf"; got != want {
		t.Errorf("Locate() = %q, want %q", got, want)
	}
}

func TestLocate_PageError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	loc := NewLocator(fastDownloader(), textReader{}, nil)
	_, err := loc.Locate(context.Background(), server.URL)
	if err == nil || errors.Is(err, ErrNoDocument) {
		t.Errorf("Locate() error = %v, want fetch error", err)
	}
}
