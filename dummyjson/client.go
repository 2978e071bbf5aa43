package dummyjson

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/qyinm/catadmin/types"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "https://dummyjson.com"
	userAgent      = "catadmin/1.0 (+https://github.com/qyinm/catadmin)"

	// maxBodyBytes caps how much of a response body is read into memory.
	maxBodyBytes = 4 << 20
)

// Client implements types.CatalogSource against the DummyJSON REST API.
type Client struct {
	baseURL string
	client  *http.Client
	log     *logrus.Entry
}

// Compile-time interface check
var _ types.CatalogSource = (*Client)(nil)

// New creates a Client for baseURL. A nil logger discards output.
func New(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger.WithField("component", "dummyjson"),
	}
}

// BaseURL returns the API root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends one request and returns the body of a 2xx response. Any other
// status becomes a *StatusError.
func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-Id", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	entry := c.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})
	start := time.Now()

	resp, err := c.client.Do(req)
	if err != nil {
		entry.WithError(err).Debug("request failed")
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	entry = entry.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{
			Code:    resp.StatusCode,
			Message: describeBody(resp.Header.Get("Content-Type"), data),
		}
		entry.WithError(statusErr).Debug("unexpected status")
		return nil, statusErr
	}
	entry.Debug("request completed")
	return data, nil
}
