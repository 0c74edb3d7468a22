// Package engine runs the detectors a tenant policy enables for one
// direction, concurrently and under a per-request deadline, then combines
// their scores into a single accept or reject decision
package engine

import (
	"context"
	"time"
	"unicode/utf8"

	"textguard/internal/core/detector"
	"textguard/internal/core/policy"
	perr "textguard/internal/platform/errors"
	"textguard/internal/platform/logger"
)

// DefaultTimeout bounds one Evaluate call when none is configured
const DefaultTimeout = 5 * time.Second

// PolicyStore resolves a tenant policy. A missing tenant is perr.ErrorCodeNotFound
type PolicyStore interface {
	Lookup(ctx context.Context, tenantID string) (policy.Policy, error)
}

// PolicyStoreFunc adapts a function to PolicyStore
type PolicyStoreFunc func(ctx context.Context, tenantID string) (policy.Policy, error)

// Lookup implements PolicyStore
func (f PolicyStoreFunc) Lookup(ctx context.Context, tenantID string) (policy.Policy, error) {
	return f(ctx, tenantID)
}

// DetectorResult is one detector's share of a Result. Reject uses the
// detector's own threshold
type DetectorResult struct {
	Kind     policy.Kind       `json:"kind"`
	Metric   float64           `json:"metric"`
	Reasons  []detector.Reason `json:"reasons"`
	Reject   bool              `json:"reject"`
	TimedOut bool              `json:"timed_out,omitempty"`
}

// Result is the verdict of one Evaluate call
type Result struct {
	Policy    string            `json:"-"`
	Metric    float64           `json:"metric"`
	Reasons   []detector.Reason `json:"reasons"`
	Reject    bool              `json:"reject"`
	Detectors []DetectorResult  `json:"detectors"`
}

// Engine is safe for concurrent use
type Engine struct {
	store   PolicyStore
	reg     *Registry
	timeout time.Duration
	metrics *Metrics
}

// Option configures an Engine
type Option func(*Engine)

// WithTimeout sets the per-request deadline; d <= 0 keeps DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithMetrics records evaluations and detector latency into m
func WithMetrics(m *Metrics) Option { return func(e *Engine) { e.metrics = m } }

// New builds an Engine over a policy store and a detector registry
func New(store PolicyStore, reg *Registry, opts ...Option) *Engine {
	e := &Engine{store: store, reg: reg, timeout: DefaultTimeout}
	for _, o := range opts {
		o(e)
	}
	return e
}

type job struct {
	kind policy.Kind
	det  detector.Detector
}

type outcome struct {
	i       int
	score   detector.Score
	elapsed time.Duration
}

// Evaluate screens text for a tenant in one direction. The only error is a
// ConfigError for a missing or invalid policy; detector failures and
// timeouts contribute no signal
func (e *Engine) Evaluate(ctx context.Context, dir policy.Direction, text, tenantID string) (Result, error) {
	pol, err := e.store.Lookup(ctx, tenantID)
	if err == nil {
		err = pol.Validate()
	}
	if err != nil {
		e.metrics.evaluated(dir, outcomeConfig)
		return Result{}, perr.AsConfig(err, tenantID)
	}
	rules := pol.For(dir)
	log := logger.C(ctx).With().Str("component", "engine").Str("policy", pol.Name).Logger()

	jobs := make([]job, 0, len(rules.Enabled))
	for _, k := range rules.Enabled {
		d, ok := e.reg.Get(k)
		if !ok {
			log.Warn().Str("kind", string(k)).Msg("no detector registered for kind; skipped")
			continue
		}
		jobs = append(jobs, job{kind: k, det: d})
	}

	results := e.fanOut(ctx, jobs, text, rules)
	res := combine(rules, results, utf8.RuneCountInString(text))
	res.Policy = pol.Name

	for _, r := range results {
		if r.TimedOut {
			e.metrics.timedOut(r.Kind)
			log.Warn().Str("kind", string(r.Kind)).Dur("timeout", e.timeout).Msg("detector did not finish in time; no signal")
		}
	}
	if res.Reject {
		e.metrics.evaluated(dir, outcomeReject)
	} else {
		e.metrics.evaluated(dir, outcomeAccept)
	}
	log.Debug().Float64("metric", res.Metric).Bool("reject", res.Reject).Int("detectors", len(jobs)).Msg("evaluated")
	return res, nil
}

// fanOut runs every job in its own goroutine and collects from a buffered
// channel until all report or the deadline fires. Late goroutines finish
// into the buffer and are dropped
func (e *Engine) fanOut(ctx context.Context, jobs []job, text string, rules policy.Rules) []DetectorResult {
	out := make([]DetectorResult, len(jobs))
	for i, j := range jobs {
		out[i] = DetectorResult{Kind: j.kind, Reasons: []detector.Reason{}, TimedOut: true}
	}
	if len(jobs) == 0 {
		return out
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	ch := make(chan outcome, len(jobs))
	for i, j := range jobs {
		go func() {
			start := time.Now()
			sc := j.det.Evaluate(ctx, text, rules)
			ch <- outcome{i: i, score: sc, elapsed: time.Since(start)}
		}()
	}

	for range jobs {
		select {
		case o := <-ch:
			r := &out[o.i]
			r.TimedOut = false
			r.Metric = o.score.Metric
			if o.score.Reasons != nil {
				r.Reasons = o.score.Reasons
			}
			r.Reject = r.Metric > rules.ThresholdFor(r.Kind)
			e.metrics.observe(r.Kind, o.elapsed)
		case <-ctx.Done():
			return out
		}
	}
	return out
}
