// Package service runs a screening call end to end: evaluate, persist the
// result and raise an alert for rejected text
package service

import (
	"context"
	"time"

	"textguard/internal/core/policy"
	perr "textguard/internal/platform/errors"
	"textguard/internal/platform/logger"
	ptime "textguard/internal/platform/time"
	"textguard/internal/services/screen/domain"

	"github.com/google/uuid"
)

// DefaultAlertTimeout bounds one alert delivery
const DefaultAlertTimeout = 5 * time.Second

// Service defines the screen service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the screen service
type Svc struct {
	eval    domain.Evaluator
	results domain.ResultSink
	alerts  domain.AlertSink

	clock        ptime.Clock
	alertTimeout time.Duration
	newID        func() string

	// inflight tracks alert goroutines so Close can wait for them
	inflight chan struct{}
}

// Option configures Svc
type Option func(*Svc)

// WithResults persists every result into sink
func WithResults(sink domain.ResultSink) Option { return func(s *Svc) { s.results = sink } }

// WithAlerts sends rejections to sink
func WithAlerts(sink domain.AlertSink) Option { return func(s *Svc) { s.alerts = sink } }

// WithAlertTimeout bounds each alert delivery; d <= 0 keeps the default
func WithAlertTimeout(d time.Duration) Option {
	return func(s *Svc) {
		if d > 0 {
			s.alertTimeout = d
		}
	}
}

// WithClock overrides the clock used for CreatedAt
func WithClock(c ptime.Clock) Option { return func(s *Svc) { s.clock = ptime.OrSystem(c) } }

// WithMaxInflightAlerts caps concurrent alert deliveries; extra alerts are dropped
func WithMaxInflightAlerts(n int) Option {
	return func(s *Svc) {
		if n > 0 {
			s.inflight = make(chan struct{}, n)
		}
	}
}

// New constructs a screen service
func New(eval domain.Evaluator, opts ...Option) *Svc {
	if eval == nil {
		panic("screen.Service requires a non nil Evaluator")
	}
	s := &Svc{
		eval:         eval,
		clock:        ptime.System,
		alertTimeout: DefaultAlertTimeout,
		newID:        uuid.NewString,
		inflight:     make(chan struct{}, 64),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Screen evaluates in.Text for tenantID. Only policy problems fail the call;
// sink and alert failures are logged
func (s *Svc) Screen(ctx context.Context, dir policy.Direction, tenantID string, in domain.ScreenInput) (domain.ScreenOutput, error) {
	if tenantID == "" {
		return domain.ScreenOutput{}, perr.Unauthorizedf("missing tenant")
	}
	reqID := in.RequestID
	if reqID == "" {
		reqID = s.newID()
	}
	ctx = logger.WithDirection(logger.WithRequest(ctx, reqID, tenantID), string(dir))

	res, err := s.eval.Evaluate(ctx, dir, in.Text, tenantID)
	if err != nil {
		return domain.ScreenOutput{}, err
	}

	if s.results != nil {
		rec := domain.Record{
			RequestID: reqID,
			TenantID:  tenantID,
			Direction: dir,
			Metric:    res.Metric,
			Reject:    res.Reject,
			Reasons:   res.Reasons,
			CreatedAt: s.clock.Now().UTC(),
		}
		if err := s.results.Save(ctx, rec); err != nil {
			logger.C(ctx).Error().Err(err).Str("component", "screen").Msg("result not persisted")
		}
	}
	if res.Reject && s.alerts != nil {
		s.alert(ctx, domain.Alert{TenantIdentity: tenantID, DetectorSetName: res.Policy, Metric: res.Metric})
	}

	return domain.ScreenOutput{
		RequestID: reqID,
		Direction: dir,
		Metric:    res.Metric,
		Reject:    res.Reject,
		Reasons:   res.Reasons,
		Detectors: res.Detectors,
	}, nil
}

// alert delivers a in the background under its own deadline so the caller's
// response never waits on it
func (s *Svc) alert(ctx context.Context, a domain.Alert) {
	log := logger.C(ctx).With().Str("component", "alerts").Logger()
	select {
	case s.inflight <- struct{}{}:
	default:
		log.Warn().Msg("too many alerts in flight; dropped")
		return
	}
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.alertTimeout)
	go func() {
		defer func() { <-s.inflight }()
		defer cancel()
		if err := s.alerts.Send(actx, a); err != nil {
			log.Warn().Err(err).Msg("alert not delivered")
		}
	}()
}

// Close waits for in flight alerts or until ctx is done
func (s *Svc) Close(ctx context.Context) error {
	for i := 0; i < cap(s.inflight); i++ {
		select {
		case s.inflight <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
