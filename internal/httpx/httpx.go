// Package httpx builds the HTTP clients used for search, detail pages and
// posters.
package httpx

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// DefaultUserAgent is sent when the caller did not set one.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Transport fills in a User-Agent and otherwise defers to Base.
// It never retries: every request is one round trip.
type Transport struct {
	Base      http.RoundTripper
	UserAgent string
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	if t.Base == nil {
		return nil, errors.New("nil base transport")
	}
	if req.Header.Get("User-Agent") != "" || t.UserAgent == "" {
		return t.Base.RoundTrip(req)
	}
	// Clone so the caller's request is left untouched.
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.UserAgent)
	return t.Base.RoundTrip(r)
}

// NewClient returns a client that sets userAgent (or DefaultUserAgent) on
// each request. A zero timeout leaves the request bounded only by its
// context.
func NewClient(timeout time.Duration, userAgent string) *http.Client {
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{
		Transport: &Transport{Base: base, UserAgent: userAgent},
		Timeout:   timeout,
	}
}
