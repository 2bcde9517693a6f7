// Package httpapi is the JSON-over-HTTP plumbing shared by the remote
// embedding adapters.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/overlap-cli/internal/core/domain"
	"github.com/custodia-labs/overlap-cli/internal/logger"
)

const (
	// DefaultRetries is the number of extra attempts after a 429 or 5xx.
	DefaultRetries = 2

	defaultBackoff = 500 * time.Millisecond
	maxRetryAfter  = 30 * time.Second
	maxErrorBody   = 4096
)

// StatusError is a non-2xx response.
type StatusError struct {
	Provider string
	Status   int
	Message  string

	retryAfter time.Duration
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s error (status %d)", e.Provider, e.Status)
	}
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Status, e.Message)
}

// Temporary reports whether the request may succeed when repeated.
func (e *StatusError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// Options configure a Client.
type Options struct {
	// Provider prefixes every error, e.g. "openai".
	Provider string
	BaseURL  string
	Timeout  time.Duration

	// Header is sent with every request.
	Header http.Header

	// Retries is the number of extra attempts after a temporary failure.
	// Negative disables retries; zero means DefaultRetries.
	Retries int

	// Backoff is the first retry delay, doubled per attempt.
	Backoff time.Duration

	// ErrorMessage extracts the provider's message from an error body.
	ErrorMessage func(body []byte) string
}

// Client sends JSON requests to one API.
type Client struct {
	http    *http.Client
	opts    Options
	baseURL string
}

// New creates a client.
func New(opts Options) *Client {
	switch {
	case opts.Retries == 0:
		opts.Retries = DefaultRetries
	case opts.Retries < 0:
		opts.Retries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.ErrorMessage == nil {
		opts.ErrorMessage = func(body []byte) string { return string(bytes.TrimSpace(body)) }
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		opts:    opts,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PostJSON posts in to path and decodes the 2xx response into out.
// Temporary failures are retried.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", c.opts.Provider, err)
	}

	delay := c.opts.Backoff
	for attempt := 0; ; attempt++ {
		body, err := c.do(ctx, http.MethodPost, path, payload)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("%s: decoding response: %w", c.opts.Provider, err)
			}
			return nil
		}

		var se *StatusError
		if attempt >= c.opts.Retries || !errors.As(err, &se) || !se.Temporary() {
			return err
		}
		wait := delay
		if se.retryAfter > 0 {
			wait = se.retryAfter
		}
		logger.Debug("%s: status %d, retrying in %s", c.opts.Provider, se.Status, wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
}

// Probe issues a GET and reports any failure as ErrEmbeddingUnavailable.
func (c *Client) Probe(ctx context.Context, path string) error {
	if _, err := c.do(ctx, http.MethodGet, path, nil); err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return fmt.Errorf("%s: %w: API returned status %d", c.opts.Provider, domain.ErrEmbeddingUnavailable, se.Status)
		}
		return err
	}
	return nil
}

// Close drops idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var body io.Reader = http.NoBody
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: creating request: %w", c.opts.Provider, err)
	}
	for k, v := range c.opts.Header {
		req.Header[k] = v
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", c.opts.Provider, domain.ErrEmbeddingUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // best-effort message
		return nil, &StatusError{
			Provider:   c.opts.Provider,
			Status:     resp.StatusCode,
			Message:    c.opts.ErrorMessage(raw),
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: reading response: %w", c.opts.Provider, err)
	}
	return data, nil
}

func parseRetryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, maxRetryAfter)
}

// Float32s narrows a decoded JSON vector.
func Float32s(raw []float64) []float32 {
	out := make([]float32, len(raw))
	for i, v := range raw {
		out[i] = float32(v)
	}
	return out
}
