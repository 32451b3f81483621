package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	UserAgent  = "canal-matches/1.0 (github.com/pfrederiksen/canal-matches)"
	Timeout    = 45 * time.Second
	MaxRetries = 3

	// maxBodySize caps a downloaded document
	maxBodySize = 64 << 20
)

// StatusError is returned for a non-200 response
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d from %s", e.StatusCode, e.URL)
}

// retryable reports whether a request with this status may succeed later
func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// Downloader fetches documents over HTTP
type Downloader struct {
	client          *http.Client
	maxRetries      uint64
	initialInterval time.Duration
}

// New creates a Downloader with the default timeout and retry policy
func New() *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: Timeout,
		},
		maxRetries:      MaxRetries,
		initialInterval: 500 * time.Millisecond,
	}
}

// Download fetches url using a default Downloader
func Download(ctx context.Context, url string) ([]byte, error) {
	return New().Download(ctx, url)
}

// Download fetches url and returns the response body. Network errors, 5xx and 429
// responses are retried with exponential backoff; other 4xx responses fail at once.
func (d *Downloader) Download(ctx context.Context, url string) ([]byte, error) {
	var body []byte

	operation := func() error {
		data, err := d.get(ctx, url)
		if err != nil {
			var statusErr *StatusError
			if errors.As(err, &statusErr) && !statusErr.retryable() {
				return backoff.Permanent(err)
			}
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		body = data
		return nil
	}

	if err := backoff.Retry(operation, d.backOff(ctx)); err != nil {
		return nil, fmt.Errorf("downloading %s: %w", url, err)
	}

	return body, nil
}

func (d *Downloader) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.initialInterval
	b.MaxElapsedTime = 2 * Timeout
	return backoff.WithContext(backoff.WithMaxRetries(b, d.maxRetries), ctx)
}

func (d *Downloader) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return data, nil
}
