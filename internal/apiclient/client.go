// Package apiclient talks to the remote professionals REST API.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johnwards/professionals/internal/domain"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

// Client is an HTTP client for the /professionals/ resource.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the API rooted at baseURL, e.g.
// "http://localhost:8000/api".
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) endpoint() string {
	return c.baseURL + "/professionals/"
}

// ListProfessionals fetches the directory. An empty source requests every
// record; otherwise the source query parameter is sent.
func (c *Client) ListProfessionals(ctx context.Context, source domain.Source) ([]domain.Professional, error) {
	u := c.endpoint()
	if source != "" {
		u += "?" + url.Values{"source": {string(source)}}.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	status, body, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, &domain.Fault{Status: status, Payload: body}
	}

	var records []domain.Professional
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("decode professionals: %w", err)
	}
	if records == nil {
		records = []domain.Professional{}
	}
	return records, nil
}

// CreateProfessional submits d. Any non-2xx answer is returned as a
// *domain.Fault carrying the raw response body.
func (c *Client) CreateProfessional(ctx context.Context, d domain.Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &domain.Fault{Status: status, Payload: body}
	}
	return nil
}

// do sends req and returns the status and body. Transport failures are
// reported as a *domain.Fault with a zero status.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	corrID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-Id", corrID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("remote api call failed",
			"method", req.Method,
			"url", req.URL.String(),
			"correlation_id", corrID,
			"error", err,
		)
		return 0, nil, &domain.Fault{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, &domain.Fault{Err: fmt.Errorf("read response body: %w", err)}
	}

	slog.Debug("remote api call",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"correlation_id", corrID,
		"duration", time.Since(start).String(),
	)
	return resp.StatusCode, body, nil
}
