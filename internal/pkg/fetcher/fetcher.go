// Package fetcher is the HTTP collaborator the extraction core consumes:
// it fetches a page or script body along with its declared content type,
// and classifies transport failures so the retrier can tell transient
// from terminal.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout is the per-request timeout applied when none is
// configured.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent identifies the analyzer to the servers it crawls.
const DefaultUserAgent = "adobe-launch-analyzer"

// FetchError wraps a transport failure with the URL it occurred on.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// StatusError reports a non-success HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
}

// Client wraps an http.Client with the analyzer's request conventions.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// New returns a Client with the given per-request timeout and user
// agent. Non-positive timeout and empty user agent fall back to the
// package defaults.
func New(timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  userAgent,
	}
}

// Fetch retrieves url and returns the response body together with the
// declared content type. Non-2xx responses become a StatusError, other
// failures a FetchError annotated with the URL.
func (c *Client) Fetch(ctx context.Context, url string) (body string, contentType string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return "", "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", &FetchError{URL: url, Err: err}
	}

	return string(raw), resp.Header.Get("Content-Type"), nil
}
