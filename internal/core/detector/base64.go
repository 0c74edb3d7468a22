package detector

import (
	"context"
	"encoding/base64"
	"regexp"
	"strings"

	"textguard/internal/core/policy"
)

var base64Candidate = regexp.MustCompile(`[A-Za-z0-9+/=]{15,}`)

// Base64 flags runs of 15+ base64 alphabet characters that decode as strict
// standard base64. Plain dictionary words of that length are skipped
type Base64 struct {
	dict map[string]struct{}
}

// NewBase64 builds the detector over a lowercased dictionary
func NewBase64(dict map[string]struct{}) *Base64 { return &Base64{dict: dict} }

// Scan implements Scanner
func (b *Base64) Scan(ctx context.Context, text string, _ policy.Rules) (Score, error) {
	ix := NewOffsets(text)
	var reasons []Reason
	for _, m := range base64Candidate.FindAllStringIndex(text, -1) {
		cand := text[m[0]:m[1]]
		if _, word := b.dict[strings.ToLower(cand)]; word {
			continue
		}
		if _, err := base64.StdEncoding.Strict().DecodeString(cand); err != nil {
			continue
		}
		reasons = append(reasons, ix.Reason(m[0], m[1]))
	}
	if err := ctx.Err(); err != nil {
		return Score{}, err
	}
	return Counted(reasons, ix.Len()), nil
}
