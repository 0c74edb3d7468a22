package fuzzy

import (
	"context"
	"slices"
	"unicode/utf8"

	"textguard/internal/core/detector"
	"textguard/internal/core/policy"

	"github.com/agnivade/levenshtein"
)

// typoMinRunes is the shortest word for which a one-edit typo still counts
const typoMinRunes = 6

// KeywordDetector counts words that are grammar verbs after normalization,
// tolerating one edit on longer words. Each hit is a reason over the word
type KeywordDetector struct {
	lib *Library
}

// NewKeyword builds the detector over a shared library
func NewKeyword(lib *Library) *KeywordDetector { return &KeywordDetector{lib: lib} }

// Scan implements detector.Scanner
func (d *KeywordDetector) Scan(ctx context.Context, text string, rules policy.Rules) (detector.Score, error) {
	corpus, norm, err := d.lib.For(rules.Grammar, text)
	if err != nil {
		return detector.Score{}, err
	}
	var reasons []detector.Reason
	for _, tok := range norm.Tokenize(text) {
		if verbMatch(tok.Norm, corpus.Verbs) {
			reasons = append(reasons, detector.Reason{Start: tok.Start, Stop: tok.Stop})
		}
	}
	if err := ctx.Err(); err != nil {
		return detector.Score{}, err
	}
	return detector.Counted(reasons, utf8.RuneCountInString(text)), nil
}

func verbMatch(word string, verbs []string) bool {
	if slices.Contains(verbs, word) {
		return true
	}
	if utf8.RuneCountInString(word) < typoMinRunes {
		return false
	}
	for _, v := range verbs {
		if utf8.RuneCountInString(v) >= typoMinRunes && levenshtein.ComputeDistance(word, v) <= 1 {
			return true
		}
	}
	return false
}
