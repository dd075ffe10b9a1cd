package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"audio-bridge/domain/notification"
)

// DefaultTimeout bounds a single callback delivery
const DefaultTimeout = 10 * time.Second

const userAgent = "audio-bridge"

// Client implements notification.Notifier by POSTing JSON to the callback URL
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
}

// ClientOption is a functional option for configuring Client
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client (for testing)
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the delivery deadline
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a new callback client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Notify sends the job result to the callback URL
func (c *Client) Notify(ctx context.Context, cb *notification.Callback) error {
	if err := cb.Validate(); err != nil {
		return fmt.Errorf("invalid callback: %w", err)
	}

	body, err := json.Marshal(cb.Result)
	if err != nil {
		return fmt.Errorf("failed to encode callback body: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cb.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", notification.ErrCallbackFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", notification.ErrCallbackFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", notification.ErrCallbackFailed, resp.StatusCode)
	}

	return nil
}

// Ensure Client implements notification.Notifier
var _ notification.Notifier = (*Client)(nil)
