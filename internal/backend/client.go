// Package backend talks to the detection server: it polls GET /get_status
// and relays chat questions through POST /ask_gemini.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/muesli/reflow/truncate"

	"github.com/hammamikhairi/moodchat/internal/domain"
	"github.com/hammamikhairi/moodchat/internal/logger"
)

// Endpoint paths served by the detection backend.
const (
	StatusPath = "/get_status"
	AskPath    = "/ask_gemini"
)

// RequestIDHeader carries a per-request UUID for backend log correlation.
const RequestIDHeader = "X-Request-ID"

// Compile-time interface check.
var _ domain.Backend = (*Client)(nil)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// Client is the HTTP transport for both backend endpoints.
type Client struct {
	base string
	http *http.Client
	log  *logger.Logger
}

// NewClient creates a backend client rooted at baseURL
// (e.g. "http://127.0.0.1:5000").
func NewClient(baseURL string, log *logger.Logger, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend: base url %q must be http or https", baseURL)
	}

	c := &Client{
		base: strings.TrimRight(u.String(), "/"),
		http: &http.Client{},
		log:  log,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the normalized server root.
func (c *Client) BaseURL() string { return c.base }

// FetchStatus performs one GET /get_status.
func (c *Client) FetchStatus(ctx context.Context) (*domain.Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+StatusPath, nil)
	if err != nil {
		return nil, fmt.Errorf("backend: create status request: %w", err)
	}

	var status domain.Status
	if err := c.do(req, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Ask performs one POST /ask_gemini. A decoded response whose success
// flag is false is returned together with an error wrapping
// domain.ErrRejected.
func (c *Client) Ask(ctx context.Context, question string) (*domain.Answer, error) {
	body, err := json.Marshal(domain.Question{Question: question})
	if err != nil {
		return nil, fmt.Errorf("backend: marshal question: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+AskPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("backend: create ask request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var answer domain.Answer
	if err := c.do(req, &answer); err != nil {
		return nil, err
	}
	if !answer.Success {
		reason := answer.Error
		if reason == "" {
			reason = "no success flag"
		}
		return &answer, fmt.Errorf("backend: ask: %s: %w", reason, domain.ErrRejected)
	}

	c.log.Debug("ask: reply (%d chars): %s", len(answer.Response), clip(answer.Response, 120))
	return &answer, nil
}

// do sends req and decodes a JSON body into out, classifying failures
// as transport or decode errors.
func (c *Client) do(req *http.Request, out any) error {
	id := uuid.NewString()
	req.Header.Set(RequestIDHeader, id)
	req.Header.Set("Accept", "application/json")

	c.log.Debug("%s %s (id=%s)", req.Method, req.URL.Path, id)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend: %s %s: %v: %w", req.Method, req.URL.Path, err, domain.ErrTransport)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("backend: read %s body: %v: %w", req.URL.Path, err, domain.ErrTransport)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("backend: %s %s: %s: %s: %w",
			req.Method, req.URL.Path, resp.Status, clip(string(body), 200), domain.ErrTransport)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("backend: decode %s: %v: %w", req.URL.Path, err, domain.ErrDecode)
	}
	return nil
}

// clip shortens s to at most width terminal cells for log lines.
func clip(s string, width uint) string {
	return truncate.StringWithTail(strings.TrimSpace(s), width, "...")
}
