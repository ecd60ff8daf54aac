package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultUserAgent = "BookCatalog"
	defaultTimeout   = 30 * time.Second

	// MaxBodySize caps a downloaded body. Cover art larger than this is rejected.
	MaxBodySize = 10 << 20
)

// Client wraps HTTP operations with the catalog's configuration.
//
// Example usage:
//
//	client := NewClient()
//	cover, err := client.Get(ctx, book.Image)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 30 second timeout
//   - "BookCatalog" User-Agent header
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		userAgent: defaultUserAgent,
	}
}

// StatusError is returned when the server answers with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Retryable reports whether trying again might succeed (timeouts, rate
// limiting and server errors).
func (e *StatusError) Retryable() bool {
	return e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= 500
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK (a *StatusError)
//   - The body is larger than MaxBodySize
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxBodySize {
		return nil, fmt.Errorf("GET %s: body exceeds %d bytes", url, MaxBodySize)
	}

	return body, nil
}
