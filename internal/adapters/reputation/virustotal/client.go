// Package virustotal looks URLs up with the VirusTotal v3 API. It is a
// linkcheck.Reputation: one submit and one analysis read per lookup, no
// retries and no polling
package virustotal

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"textguard/internal/core/linkcheck"
	perr "textguard/internal/platform/errors"
	"textguard/internal/platform/logger"
)

const (
	baseURLDefault = "https://www.virustotal.com"
	defaultTimeout = 10 * time.Second
	defaultUA      = "textguard-linkcheck"
)

// Options configures the Client
type Options struct {
	BaseURL   string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
}

// Client is a minimal VirusTotal URL scanner
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// New creates a Client with defaults filled in
func New(o Options) *Client {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("virustotal"),
	}
}

var _ linkcheck.Reputation = (*Client)(nil)

type submitResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

type analysisResponse struct {
	Data struct {
		Attributes struct {
			Status string `json:"status"`
			Stats  struct {
				Malicious  int `json:"malicious"`
				Suspicious int `json:"suspicious"`
				Harmless   int `json:"harmless"`
			} `json:"stats"`
		} `json:"attributes"`
	} `json:"data"`
}

// Lookup submits rawURL and reads the analysis back. A URL is malicious when
// at least one engine says so; an analysis still queued reports false
func (c *Client) Lookup(ctx context.Context, rawURL string) (bool, error) {
	form := url.Values{"url": {rawURL}}
	var sub submitResponse
	if err := c.do(ctx, http.MethodPost, "/api/v3/urls", strings.NewReader(form.Encode()), &sub); err != nil {
		return false, err
	}
	if sub.Data.ID == "" {
		return false, perr.Newf(perr.ErrorCodeUnavailable, "virustotal submit returned no analysis id")
	}

	var an analysisResponse
	if err := c.do(ctx, http.MethodGet, "/api/v3/analyses/"+url.PathEscape(sub.Data.ID), nil, &an); err != nil {
		return false, err
	}
	attrs := an.Data.Attributes
	c.log.Debug().
		Str("analysis", sub.Data.ID).
		Str("status", attrs.Status).
		Int("malicious", attrs.Stats.Malicious).
		Msg("virustotal analysis")
	return attrs.Stats.Malicious > 0, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.opts.BaseURL+path, body)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "virustotal new request")
	}
	req.Header.Set("x-apikey", c.opts.APIKey)
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "virustotal %s %s", method, path)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return perr.Wrap(linkcheck.ErrQuotaExceeded, perr.ErrorCodeTooManyRequests, "virustotal quota")
	case resp.StatusCode >= 300:
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return perr.Newf(perr.FromStatus(resp.StatusCode), "virustotal status %d body %s", resp.StatusCode, string(tail))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "virustotal decode")
	}
	return nil
}
