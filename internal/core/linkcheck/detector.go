package linkcheck

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"textguard/internal/core/detector"
	"textguard/internal/core/policy"
	"textguard/internal/core/rulepack"
	"textguard/internal/platform/logger"
	ptime "textguard/internal/platform/time"
)

// Check names the stage that flagged a link
type Check string

const (
	CheckBlocklist  Check = "blocklist"
	CheckExecutable Check = "executable"
	CheckRedirect   Check = "redirect"
	CheckReputation Check = "reputation"
)

// Detector runs the link checks cheapest first and stops at the first
// positive one. Probe and reputation failures contribute no signal
type Detector struct {
	blocklist  map[string]struct{}
	extensions []string
	prober     Prober
	rep        Reputation
	limiter    *Limiter
	clock      ptime.Clock

	onSkip func(reason string)
	onFlag func(check Check)
}

// Option configures a Detector
type Option func(*Detector)

// WithProber enables the redirect probe
func WithProber(p Prober) Option { return func(d *Detector) { d.prober = p } }

// WithReputation enables the reputation lookup gated by l
func WithReputation(r Reputation, l *Limiter) Option {
	return func(d *Detector) { d.rep, d.limiter = r, l }
}

// WithClock overrides the clock fed to the limiter
func WithClock(c ptime.Clock) Option { return func(d *Detector) { d.clock = c } }

// WithExtensions adds executable extensions on top of the pack list
func WithExtensions(exts ...string) Option {
	return func(d *Detector) {
		for _, e := range exts {
			if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
				if !strings.HasPrefix(e, ".") {
					e = "." + e
				}
				d.extensions = append(d.extensions, e)
			}
		}
	}
}

// WithBlocklist adds scheme://host origins to the blocklist
func WithBlocklist(origins ...string) Option {
	return func(d *Detector) {
		for _, o := range origins {
			if o = strings.ToLower(strings.TrimRight(strings.TrimSpace(o), "/")); o != "" {
				d.blocklist[o] = struct{}{}
			}
		}
	}
}

// WithSkipHook observes reputation calls the limiter refused
func WithSkipHook(fn func(reason string)) Option { return func(d *Detector) { d.onSkip = fn } }

// WithFlagHook observes which check flagged a link
func WithFlagHook(fn func(check Check)) Option { return func(d *Detector) { d.onFlag = fn } }

// New builds a Detector from the pack lists. Without WithProber or
// WithReputation those stages are skipped
func New(p *rulepack.Pack, opts ...Option) *Detector {
	d := &Detector{
		blocklist:  make(map[string]struct{}, len(p.Blocklist)),
		extensions: append([]string(nil), p.Extensions...),
		clock:      ptime.System,
	}
	for _, b := range p.Blocklist {
		d.blocklist[b] = struct{}{}
	}
	for _, o := range opts {
		o(d)
	}
	d.clock = ptime.OrSystem(d.clock)
	return d
}

// Scan implements detector.Scanner; metric is the number of flagged links
func (d *Detector) Scan(ctx context.Context, text string, rules policy.Rules) (detector.Score, error) {
	links := rules.Normalized().Links
	var reasons []detector.Reason
	for _, c := range Extract(text) {
		if err := ctx.Err(); err != nil {
			return detector.Score{}, err
		}
		if check, bad := d.check(ctx, c, links); bad {
			if d.onFlag != nil {
				d.onFlag(check)
			}
			reasons = append(reasons, c.Span)
		}
	}
	return detector.Counted(reasons, utf8.RuneCountInString(text)), nil
}

func (d *Detector) check(ctx context.Context, c Candidate, on policy.LinkParams) (Check, bool) {
	if on.Blocklist {
		if _, hit := d.blocklist[c.Origin()]; hit {
			return CheckBlocklist, true
		}
	}
	if on.Executable {
		path := strings.ToLower(c.URL.Path)
		for _, ext := range d.extensions {
			if strings.HasSuffix(path, ext) {
				return CheckExecutable, true
			}
		}
	}
	log := logger.C(ctx).With().Str("component", "linkcheck").Str("host", c.URL.Host).Logger()
	if on.Redirects && d.prober != nil {
		redirect, err := d.prober.Redirects(ctx, c.Raw)
		if err != nil && ctx.Err() == nil {
			log.Debug().Err(err).Msg("redirect probe failed; no signal")
		}
		if err == nil && redirect {
			return CheckRedirect, true
		}
	}
	// a canceled caller spends neither a limiter slot nor a lookup
	if ctx.Err() != nil {
		return "", false
	}
	if on.Reputation && d.rep != nil && d.limiter != nil {
		ok, skip := d.limiter.Acquire(d.clock.Now())
		if !ok {
			if d.onSkip != nil {
				d.onSkip(skip)
			}
			return "", false
		}
		malicious, err := d.rep.Lookup(ctx, c.Raw)
		if errors.Is(err, ErrQuotaExceeded) {
			d.limiter.Trip()
			log.Warn().Err(err).Msg("reputation quota exhausted; breaker tripped")
			return "", false
		}
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Msg("reputation lookup failed; no signal")
			}
			return "", false
		}
		if malicious {
			return CheckReputation, true
		}
	}
	return "", false
}
