// Package webhook posts reject alerts as JSON to an HTTP endpoint
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	perr "textguard/internal/platform/errors"
	"textguard/internal/services/screen/domain"
)

const defaultTimeout = 5 * time.Second

// Options configures the Sink
type Options struct {
	URL     string
	Token   string // sent as a bearer token when set
	Timeout time.Duration
}

// Sink implements domain.AlertSink. Deliveries are single shot
type Sink struct {
	http *http.Client
	opts Options
}

// New builds a Sink
func New(o Options) *Sink {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Sink{http: &http.Client{Timeout: o.Timeout}, opts: o}
}

var _ domain.AlertSink = (*Sink)(nil)

// Send posts a as {"api_key","analyzer_name","metric"}
func (s *Sink) Send(ctx context.Context, a domain.Alert) error {
	body, err := json.Marshal(a)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode alert")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.URL, bytes.NewReader(body))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeInvalidArgument, "alert request")
	}
	req.Header.Set("Content-Type", "application/json")
	if s.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.opts.Token)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "alert delivery")
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	if resp.StatusCode >= 300 {
		return perr.Newf(perr.FromStatus(resp.StatusCode), "alert endpoint answered %d", resp.StatusCode)
	}
	return nil
}
