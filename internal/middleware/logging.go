package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDHeader carries a per-request correlation ID from client to backend.
const RequestIDHeader = "X-Request-ID"

// loggingTransport is an http.RoundTripper that tags every outgoing request with a
// request ID and logs its method, path, status and duration.
type loggingTransport struct {
	next   http.RoundTripper
	logger *slog.Logger
}

// NewLoggingTransport wraps next (http.DefaultTransport when nil). Headers that carry
// credentials are never logged.
func NewLoggingTransport(next http.RoundTripper, logger *slog.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &loggingTransport{next: next, logger: logger}
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	requestID := req.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
		req = req.Clone(req.Context())
		req.Header.Set(RequestIDHeader, requestID)
	}

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(start).Milliseconds()
	if err != nil {
		t.logger.Warn("Backend request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", requestID,
			"error", err,
			"duration_ms", duration,
		)
		return nil, err
	}

	t.logger.Debug("Backend request completed",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration_ms", duration,
	)
	return resp, nil
}

// RequestLogger returns an echo middleware that logs every request the backend serves.
func RequestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info("Request completed",
				"method", req.Method,
				"path", req.URL.Path,
				"status", c.Response().Status,
				"request_id", req.Header.Get(RequestIDHeader),
				"user_id", GetUserID(c),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		}
	}
}
