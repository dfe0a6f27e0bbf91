// Package gateway is the typed client for the TripTangle backend. Every operation is a
// single JSON request/response round trip; nothing is retried or cached.
package gateway

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
	"unicode/utf8"

	"github.com/mmynk/triptangle/internal/middleware"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// TokenSource yields the current bearer token. It is consulted on every call so a
// logout or re-login takes effect immediately. An empty token means "not logged in".
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Client calls the backend at a single base URL.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. The default client uses the logging
// transport from internal/middleware and no timeout beyond the transport defaults.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithLogger sets the logger used for failed calls.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics enables call metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a gateway client for baseURL (e.g. "http://127.0.0.1:8000").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: want http(s)://host[:port]", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Transport: middleware.NewLoggingTransport(http.DefaultTransport, c.logger)}
	}
	return c, nil
}

// BaseURL returns the backend origin this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

// call describes one backend operation.
type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
	auth   authMode
	// exact200 limits success to 200; otherwise any 2xx succeeds.
	exact200 bool
	// mapStatus may claim a non-success status before the generic server-error mapping.
	mapStatus func(status int) *Error
}

// do executes the call and decodes a successful response into out (if non-nil).
func (c *Client) do(ctx context.Context, cl call, out any) (err error) {
	start := time.Now()
	defer func() {
		c.metrics.observe(cl.op, err, time.Since(start))
		if err != nil {
			var gwErr *Error
			if errors.As(err, &gwErr) {
				c.logger.Warn("Backend call failed", "operation", cl.op, "kind", gwErr.Kind, "status", gwErr.Status, "detail", gwErr.Detail())
			}
		}
	}()

	var token string
	if cl.auth != authNone && c.tokens != nil {
		token, err = c.tokens.Token(ctx)
		if err != nil {
			return &Error{Kind: KindUnknown, Op: cl.op, Err: fmt.Errorf("failed to read token: %w", err)}
		}
	}
	if cl.auth == authRequired && token == "" {
		return &Error{Kind: KindMissingAuth, Op: cl.op}
	}

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return &Error{Kind: KindUnknown, Op: cl.op, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, body)
	if err != nil {
		return &Error{Kind: KindUnknown, Op: cl.op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindUnknown, Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &Error{Kind: KindUnknown, Op: cl.op, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if cl.exact200 {
		ok = resp.StatusCode == http.StatusOK
	}
	if !ok {
		if cl.mapStatus != nil {
			if mapped := cl.mapStatus(resp.StatusCode); mapped != nil {
				mapped.Op = cl.op
				mapped.Status = resp.StatusCode
				return mapped
			}
		}
		return &Error{Kind: KindServer, Op: cl.op, Status: resp.StatusCode, Message: bodyText(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &Error{Kind: KindDecode, Op: cl.op, Status: resp.StatusCode, Err: err}
	}
	return nil
}

// bodyText returns the response body as text, or "" when it is empty or not UTF-8.
func bodyText(data []byte) string {
	if len(data) == 0 || !utf8.Valid(data) {
		return ""
	}
	return string(data)
}
