package linkcheck

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// DefaultProbeTimeout bounds a redirect probe when none is configured
const DefaultProbeTimeout = 3 * time.Second

// Prober reports whether a URL answers with a redirect
type Prober interface {
	Redirects(ctx context.Context, rawURL string) (bool, error)
}

// HTTPProber sends a HEAD request without following redirects
type HTTPProber struct {
	client *http.Client
}

// NewHTTPProber builds a prober; timeout <= 0 means DefaultProbeTimeout
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &HTTPProber{client: &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

// Redirects implements Prober
func (p *HTTPProber) Redirects(ctx context.Context, rawURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return false, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	_ = resp.Body.Close()
	return isRedirect(resp.StatusCode), nil
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

// ErrQuotaExceeded is returned by a Reputation provider whose quota is spent.
// It trips the limiter breaker
var ErrQuotaExceeded = errors.New("reputation quota exceeded")

// Reputation looks a URL up with an external provider
type Reputation interface {
	Lookup(ctx context.Context, rawURL string) (malicious bool, err error)
}

// ReputationFunc adapts a function to Reputation
type ReputationFunc func(ctx context.Context, rawURL string) (bool, error)

// Lookup implements Reputation
func (f ReputationFunc) Lookup(ctx context.Context, rawURL string) (bool, error) {
	return f(ctx, rawURL)
}
