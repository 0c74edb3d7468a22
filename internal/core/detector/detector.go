// Package detector defines the screening contract every detection strategy
// implements and the pattern based strategies built on it
package detector

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"unicode/utf8"

	"textguard/internal/core/policy"
	perr "textguard/internal/platform/errors"
	"textguard/internal/platform/logger"
)

// Reason is a half-open [Start, Stop) span of codepoints in the evaluated text
type Reason struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
}

// Score is what a detector reports for one text
type Score struct {
	Metric  float64  `json:"metric"`
	Reasons []Reason `json:"reasons"`
}

// Detector evaluates text against the rules of one direction.
// Implementations never fail: a broken scan contributes Score{}
type Detector interface {
	Evaluate(ctx context.Context, text string, rules policy.Rules) Score
}

// Scanner is the fallible inner scan a detector is built from
type Scanner interface {
	Scan(ctx context.Context, text string, rules policy.Rules) (Score, error)
}

// ScanFunc adapts a function to Scanner
type ScanFunc func(ctx context.Context, text string, rules policy.Rules) (Score, error)

// Scan implements Scanner
func (f ScanFunc) Scan(ctx context.Context, text string, rules policy.Rules) (Score, error) {
	return f(ctx, text, rules)
}

type guarded struct {
	kind policy.Kind
	s    Scanner
}

// Guard wraps a Scanner into a fail-open Detector: errors and panics are
// logged with the detector kind and turned into Score{}, reasons are clamped
// to the text, deduplicated and sorted
func Guard(kind policy.Kind, s Scanner) Detector { return guarded{kind: kind, s: s} }

func (g guarded) Evaluate(ctx context.Context, text string, rules policy.Rules) (out Score) {
	log := logger.C(ctx).With().Str("component", "detector").Str("kind", string(g.kind)).Logger()
	defer func() {
		if rec := recover(); rec != nil {
			err := perr.Newf(perr.ErrorCodePanic, "detector panic: %v", rec)
			log.Error().Err(err).Bytes("stack", debug.Stack()).Msg("detector panicked; contributing no signal")
			out = Score{}
		}
	}()

	sc, err := g.s.Scan(ctx, text, rules)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn().Err(perr.Wrapf(err, perr.ErrorCodeDetector, "%s scan", g.kind)).Msg("detector failed; contributing no signal")
		}
		return Score{}
	}
	if ctx.Err() != nil {
		return Score{}
	}
	if sc.Metric < 0 {
		sc.Metric = 0
	}
	sc.Reasons = Compact(sc.Reasons, utf8.RuneCountInString(text))
	return sc
}

// String names the guarded detector in logs and tests
func (g guarded) String() string { return fmt.Sprintf("detector(%s)", g.kind) }

// Compact clamps reasons into [0, n], drops inverted spans, dedupes by
// (Start, Stop) and sorts by Start then Stop. It never returns nil
func Compact(in []Reason, n int) []Reason {
	out := make([]Reason, 0, len(in))
	for _, r := range in {
		r.Start = min(max(r.Start, 0), n)
		r.Stop = min(max(r.Stop, 0), n)
		if r.Stop < r.Start {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Reason) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.Stop - b.Stop
	})
	return slices.Compact(out)
}

// Counted builds a Score whose metric is the number of distinct reasons
func Counted(reasons []Reason, n int) Score {
	rs := Compact(reasons, n)
	return Score{Metric: float64(len(rs)), Reasons: rs}
}
