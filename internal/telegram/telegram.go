package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultBaseURL = "https://api.telegram.org/bot"
	timeout        = 30 * time.Second
	maxRetries     = 3
)

// ErrEmptyMessage is returned when there is nothing to send
var ErrEmptyMessage = errors.New("message text is required")

// APIError is an error reported by the Bot API
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 && e.StatusCode != http.StatusOK {
		return fmt.Sprintf("telegram API error (status %d): %s", e.StatusCode, e.Description)
	}
	return fmt.Sprintf("telegram API error: %s", e.Description)
}

func (e *APIError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Client represents a Telegram Bot API client
type Client struct {
	botToken        string
	baseURL         string
	httpClient      *http.Client
	initialInterval time.Duration
}

// NewClient creates a new Telegram client
func NewClient(botToken string) (*Client, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	return &Client{
		botToken: botToken,
		baseURL:  defaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		initialInterval: time.Second,
	}, nil
}

// SendMessage sends an HTML text message to chatID
func (c *Client) SendMessage(ctx context.Context, chatID, text string) error {
	if text == "" {
		return ErrEmptyMessage
	}
	if chatID == "" {
		return fmt.Errorf("chat ID is required")
	}

	payload := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	return c.call(ctx, "sendMessage", func() (io.Reader, string, error) {
		return bytes.NewReader(jsonData), "application/json", nil
	})
}

// SendDocument uploads data as a file named filename, with an optional caption
func (c *Client) SendDocument(ctx context.Context, chatID, filename string, data []byte, caption string) error {
	if len(data) == 0 {
		return fmt.Errorf("document data is required")
	}
	if filename == "" {
		return fmt.Errorf("filename is required")
	}

	build := func() (io.Reader, string, error) {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		if err := w.WriteField("chat_id", chatID); err != nil {
			return nil, "", err
		}
		if caption != "" {
			if err := w.WriteField("caption", caption); err != nil {
				return nil, "", err
			}
			if err := w.WriteField("parse_mode", "HTML"); err != nil {
				return nil, "", err
			}
		}
		part, err := w.CreateFormFile("document", filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(data); err != nil {
			return nil, "", err
		}
		if err := w.Close(); err != nil {
			return nil, "", err
		}
		return &buf, w.FormDataContentType(), nil
	}

	return c.call(ctx, "sendDocument", build)
}

// call posts to a Bot API method, retrying rate limits and server errors
func (c *Client) call(ctx context.Context, method string, body func() (io.Reader, string, error)) error {
	url := fmt.Sprintf("%s%s/%s", c.baseURL, c.botToken, method)

	operation := func() error {
		reader, contentType, err := body()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("building request body: %w", err))
		}

		err = c.post(ctx, url, reader, contentType)
		if err == nil {
			return nil
		}

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.retryable() {
			return backoff.Permanent(err)
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)); err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, url string, body io.Reader, contentType string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}

	if resp.StatusCode != http.StatusOK {
		desc := string(respBody)
		if json.Unmarshal(respBody, &result) == nil && result.Description != "" {
			desc = result.Description
		}
		return &APIError{StatusCode: resp.StatusCode, Description: desc}
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return backoff.Permanent(fmt.Errorf("parsing response: %w", err))
	}

	if !result.OK {
		return &APIError{StatusCode: resp.StatusCode, Description: result.Description}
	}

	return nil
}
