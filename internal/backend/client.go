// Package backend is the HTTP client of the KABA REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kaba-chine/kaba-admin/internal/common"
	"github.com/kaba-chine/kaba-admin/internal/service"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

const maxErrorBody = 64 << 10

// Client talks to the KABA backend. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	retry      service.RetryOptions
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryAttempts sets how many times an idempotent GET is attempted.
func WithRetryAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.retry.MaxAttempts = n
		}
	}
}

// NewClient creates a client for the API rooted at baseURL (for example http://localhost:3000/api).
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: service.DefaultRetryOptions(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a request and decodes a JSON answer into out when out is non-nil.
// GET requests go through the retry policy.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if method != http.MethodGet {
		return c.send(ctx, method, path, query, body, out)
	}
	return common.WithRetry(ctx, func() error {
		return c.send(ctx, method, path, query, body, out)
	}, c.retry)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Debug("Failed to close response body", "error", cerr)
		}
	}()

	slog.Debug("Backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &common.APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(raw),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
	}
	return nil
}

// errorMessage extracts the "message" field of a JSON error body. The backend sends
// either a string or a list of validation messages; anything else is returned as text.
func errorMessage(raw []byte) string {
	var envelope struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Message) > 0 {
		var single string
		if err := json.Unmarshal(envelope.Message, &single); err == nil {
			return single
		}
		var many []string
		if err := json.Unmarshal(envelope.Message, &many); err == nil {
			return strings.Join(many, "; ")
		}
	}
	return strings.TrimSpace(string(raw))
}

func escape(id string) string {
	return url.PathEscape(id)
}
