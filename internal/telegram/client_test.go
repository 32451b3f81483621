package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func testClient(serverURL string) *Client {
	return &Client{
		botToken:        "test-token",
		baseURL:         serverURL + "/bot",
		httpClient:      &http.Client{},
		initialInterval: time.Millisecond,
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Error("NewClient() expected error for empty token")
	}

	client, err := NewClient("test-token")
	if err != nil {
		t.Fatalf("NewClient() unexpected error: %v", err)
	}
	if client.baseURL != defaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, defaultBaseURL)
	}
	if client.httpClient == nil {
		t.Error("httpClient should not be nil")
	}
}

func TestSendMessage_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.URL.Path != "/bottest-token/sendMessage" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}

		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if payload["chat_id"] != "12345" {
			t.Errorf("chat_id = %v, want 12345", payload["chat_id"])
		}
		if payload["parse_mode"] != "HTML" {
			t.Errorf("parse_mode = %v, want HTML", payload["parse_mode"])
		}
		if payload["text"] != "Hola" {
			t.Errorf("text = %v, want Hola", payload["text"])
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer server.Close()

	if err := testClient(server.URL).SendMessage(context.Background(), "12345", "Hola"); err != nil {
		t.Errorf("SendMessage() unexpected error: %v", err)
	}
}

func TestSendMessage_Validation(t *testing.T) {
	client := testClient("http://127.0.0.1:0")

	if err := client.SendMessage(context.Background(), "12345", ""); !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("SendMessage() error = %v, want ErrEmptyMessage", err)
	}
	if err := client.SendMessage(context.Background(), "", "text"); err == nil {
		t.Error("SendMessage() expected error for empty chat ID")
	}
}

func TestSendMessage_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
		wantText  string
	}{
		{
			name:      "ok false",
			status:    http.StatusOK,
			body:      `{"ok":false,"description":"Bad Request: chat not found"}`,
			wantCalls: 1,
			wantText:  "chat not found",
		},
		{
			name:      "client error is not retried",
			status:    http.StatusBadRequest,
			body:      `{"ok":false,"description":"Bad Request: can't parse entities"}`,
			wantCalls: 1,
			wantText:  "can't parse entities",
		},
		{
			name:      "server error is retried",
			status:    http.StatusInternalServerError,
			body:      "boom",
			wantCalls: maxRetries + 1,
			wantText:  "status 500",
		},
		{
			name:      "invalid json",
			status:    http.StatusOK,
			body:      "not json",
			wantCalls: 1,
			wantText:  "parsing response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := testClient(server.URL).SendMessage(context.Background(), "12345", "Hola")
			if err == nil {
				t.Fatal("SendMessage() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("error = %q, should contain %q", err, tt.wantText)
			}
			if got := atomic.LoadInt32(&calls); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestSendMessage_RecoversAfterRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"ok":false,"description":"Too Many Requests"}`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	if err := testClient(server.URL).SendMessage(context.Background(), "12345", "Hola"); err != nil {
		t.Errorf("SendMessage() unexpected error: %v", err)
	}
	if calls := atomic.LoadInt32(&calls); calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestSendDocument_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/bottest-token/sendDocument" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm: %v", err)
		}
		if got := r.FormValue("chat_id"); got != "12345" {
			t.Errorf("chat_id = %q", got)
		}
		if got := r.FormValue("caption"); got != "Calendario" {
			t.Errorf("caption = %q", got)
		}
		file, header, err := r.FormFile("document")
		if err != nil {
			t.Fatalf("FormFile: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "matches.ics" || string(data) != "BEGIN:VCALENDAR" {
			t.Errorf("file = %q %q", header.Filename, data)
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	err := testClient(server.URL).SendDocument(context.Background(), "12345", "matches.ics", []byte("BEGIN:VCALENDAR"), "Calendario")
	if err != nil {
		t.Errorf("SendDocument() unexpected error: %v", err)
	}
}

func TestSendDocument_Validation(t *testing.T) {
	client := testClient("http://127.0.0.1:0")

	if err := client.SendDocument(context.Background(), "1", "a.ics", nil, ""); err == nil {
		t.Error("SendDocument() expected error for empty data")
	}
	if err := client.SendDocument(context.Background(), "1", "", []byte("x"), ""); err == nil {
		t.Error("SendDocument() expected error for empty filename")
	}
}
