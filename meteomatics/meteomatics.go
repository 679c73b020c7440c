// Package meteomatics implements a minimal client for the Meteomatics
// weather-data API.
package meteomatics

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

// truncatedBodyLen bounds how much of an error response is reported.
const truncatedBodyLen = 500

// Fetcher retrieves the raw response body for a prepared request URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// StatusError is returned when the API responds with a non-200 status.
// Body carries at most the first 500 characters of the response body.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// Client is our implementation of the Fetcher interface. Requests use
// HTTP Basic authentication and a single attempt is made per call.
type Client struct {
	username string
	password string
	client   *http.Client
}

var _ Fetcher = (*Client)(nil)

// New returns a Client bounded by the given timeout.
func New(username, password string, timeout time.Duration) *Client {
	return &Client{
		username: username,
		password: password,
		client:   &http.Client{Timeout: timeout},
	}
}

// Fetch performs the GET request and returns the raw response body.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "performing request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: truncate(string(body), truncatedBodyLen)}
	}

	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
