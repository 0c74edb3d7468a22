package detector

import (
	"context"
	"unicode/utf8"

	"textguard/internal/core/policy"
	perr "textguard/internal/platform/errors"
	"textguard/internal/platform/logger"
)

// Part is one switchable member of a Union
type Part struct {
	Name    string
	Enabled func(policy.Rules) bool
	Scanner Scanner
}

// Union runs its enabled parts in order and merges their reasons.
// A failing part is logged and skipped; the others still count
type Union struct {
	parts []Part
}

// NewUnion composes parts
func NewUnion(parts ...Part) *Union { return &Union{parts: parts} }

// Scan implements Scanner; metric is the number of distinct merged reasons
func (u *Union) Scan(ctx context.Context, text string, rules policy.Rules) (Score, error) {
	var reasons []Reason
	for _, p := range u.parts {
		if p.Enabled != nil && !p.Enabled(rules) {
			continue
		}
		sc, err := p.Scanner.Scan(ctx, text, rules)
		if err != nil {
			if ctx.Err() != nil {
				return Score{}, ctx.Err()
			}
			logger.C(ctx).Warn().Err(perr.Wrap(err, perr.ErrorCodeDetector, p.Name)).
				Str("component", "detector").Str("part", p.Name).Msg("detector part failed; skipping")
			continue
		}
		reasons = append(reasons, sc.Reasons...)
	}
	return Counted(reasons, utf8.RuneCountInString(text)), nil
}
