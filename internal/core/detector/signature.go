package detector

import (
	"context"
	"fmt"
	"regexp"

	"textguard/internal/core/policy"
)

// Signature matches an ordered list of case-insensitive patterns; every
// non-empty match is a reason
type Signature struct {
	patterns []*regexp.Regexp
}

// NewSignature compiles the patterns with the (?i) flag
func NewSignature(patterns []string) (*Signature, error) {
	s := &Signature{patterns: make([]*regexp.Regexp, 0, len(patterns))}
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, fmt.Errorf("signature %q: %w", p, err)
		}
		s.patterns = append(s.patterns, re)
	}
	return s, nil
}

// Scan implements Scanner
func (s *Signature) Scan(ctx context.Context, text string, _ policy.Rules) (Score, error) {
	ix := NewOffsets(text)
	var reasons []Reason
	for _, re := range s.patterns {
		if err := ctx.Err(); err != nil {
			return Score{}, err
		}
		for _, m := range re.FindAllStringIndex(text, -1) {
			if m[1] > m[0] {
				reasons = append(reasons, ix.Reason(m[0], m[1]))
			}
		}
	}
	return Counted(reasons, ix.Len()), nil
}
