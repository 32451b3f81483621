package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate clears the environment Load reads and runs from an empty directory
func isolate(t *testing.T) string {
	t.Helper()
	for _, key := range []string{
		"PDF_URL", "SOURCE_PAGE_URL", "TEAM_CODE", "OUTPUT_DIR", "DATA_DIR", "HISTORY_DB",
		"DOCUMENT_READER", "LOG_LEVEL", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
		"TWITTER_API_KEY", "TWITTER_API_SECRET", "TWITTER_ACCESS_TOKEN", "TWITTER_ACCESS_SECRET",
	} {
		t.Setenv(key, "")
	}
	return t.TempDir()
}

func TestMain_NoSource(t *testing.T) {
	dir := isolate(t)
	var stdout, stderr bytes.Buffer

	code := Main(context.Background(), []string{
		"--data-dir", filepath.Join(dir, "data"),
		"--output-dir", filepath.Join(dir, "out"),
		"--no-history",
	}, &stdout, &stderr)

	if code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr.String(), "PDF_URL is not set") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestMain_History(t *testing.T) {
	dir := isolate(t)
	var stdout, stderr bytes.Buffer

	code := Main(context.Background(), []string{"history", "--data-dir", dir}, &stdout, &stderr)
	if code != ExitSuccess {
		t.Fatalf("exit code = %d, stderr = %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "No runs recorded.") {
		t.Errorf("stdout = %q", stdout.String())
	}
}

func TestMain_Errors(t *testing.T) {
	dir := isolate(t)

	tests := []struct {
		name string
		args []string
	}{
		{"invalid format", []string{"history", "--data-dir", dir, "--format", "xml"}},
		{"invalid reader", []string{"parse", "--reader", "ocr", "missing.pdf"}},
		{"missing file", []string{"parse", filepath.Join(dir, "missing.pdf")}},
		{"parse without files", []string{"parse"}},
		{"invalid sort", []string{"parse", "--sort", "title", "x.pdf"}},
		{"invalid dates", []string{"parse", "--dates", "someday", "x.pdf"}},
		{"invalid side", []string{"parse", "--side", "away", "x.pdf"}},
		{"unknown command", []string{"frobnicate"}},
		{"locate without page", []string{"locate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := Main(context.Background(), tt.args, &stdout, &stderr); code != ExitError {
				t.Errorf("exit code = %d, want %d (stderr: %s)", code, ExitError, stderr.String())
			}
		})
	}
}

func TestMain_ConfigFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "canal.yaml")
	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Main(context.Background(), []string{"history", "--config", path, "--data-dir", dir}, &stdout, &stderr)
	if code != ExitError || !strings.Contains(stderr.String(), "invalid log level") {
		t.Errorf("exit code = %d, stderr = %q", code, stderr.String())
	}
}
