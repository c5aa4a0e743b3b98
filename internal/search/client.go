// Package search owns the search state and talks to the movie search
// endpoint.
package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// DefaultEndpoint is the public movie search endpoint.
const DefaultEndpoint = "https://imdb.iamidiotareyoutoo.com/search"

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 8 << 20

// Fetcher performs one search request and returns the raw response body.
type Fetcher interface {
	Search(ctx context.Context, term string) ([]byte, error)
}

// Client handles requests to the search endpoint.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a client for endpoint. A nil httpClient uses
// http.DefaultClient.
func NewClient(endpoint string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		client:   httpClient,
	}
}

// URL returns the request URL used for term.
func (c *Client) URL(term string) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint %q: %w", c.endpoint, err)
	}
	q := u.Query()
	q.Set("q", term)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Search issues GET <endpoint>?q=<term>.
func (c *Client) Search(ctx context.Context, term string) ([]byte, error) {
	searchURL, err := c.URL(term)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPStatusError{URL: searchURL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}
	return body, nil
}
