package fuzzy

import (
	"context"
	"strings"

	"textguard/internal/core/detector"
	"textguard/internal/core/normalize"
	"textguard/internal/core/policy"

	"github.com/pmezard/go-difflib/difflib"
)

// PhraseDetector scores text by its best window similarity to the corpus of
// rules.Grammar. Metric is the best ratio; the single reason is the span of
// the first window that reached it
type PhraseDetector struct {
	lib *Library
}

// NewPhrase builds the detector over a shared library
func NewPhrase(lib *Library) *PhraseDetector { return &PhraseDetector{lib: lib} }

// Scan implements detector.Scanner
func (d *PhraseDetector) Scan(ctx context.Context, text string, rules policy.Rules) (detector.Score, error) {
	corpus, norm, err := d.lib.For(rules.Grammar, text)
	if err != nil {
		return detector.Score{}, err
	}
	toks := norm.Tokenize(text)
	if len(toks) == 0 {
		return detector.Score{}, nil
	}

	best, win, err := bestWindow(ctx, corpus, toks)
	if err != nil {
		return detector.Score{}, err
	}
	sc := detector.Score{Metric: best, Reasons: []detector.Reason{}}
	if best > 0 {
		sc.Reasons = append(sc.Reasons, win)
	}
	return sc, nil
}

// bestWindow compares every phrase with every window of the same word count.
// The running best only moves on a strict improvement, so the earliest
// phrase and window win ties
func bestWindow(ctx context.Context, c *Corpus, toks []normalize.Token) (float64, detector.Reason, error) {
	var (
		best    float64
		win     detector.Reason
		windows = map[int][][]string{}
		m       = difflib.NewMatcher(nil, nil)
	)
	for _, ph := range c.Phrases {
		k := ph.Words
		if k > len(toks) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, detector.Reason{}, err
		}
		ws, ok := windows[k]
		if !ok {
			ws = buildWindows(toks, k)
			windows[k] = ws
		}

		m.SetSeq2(ph.runes)
		for i, w := range ws {
			m.SetSeq1(w)
			// both are upper bounds of Ratio; skipping is exact under strict >
			if m.RealQuickRatio() <= best || m.QuickRatio() <= best {
				continue
			}
			if r := m.Ratio(); r > best {
				best = r
				win = detector.Reason{Start: toks[i].Start, Stop: toks[i+k-1].Stop}
			}
		}
	}
	return best, win, nil
}

func buildWindows(toks []normalize.Token, k int) [][]string {
	words := normalize.Words(toks)
	out := make([][]string, 0, len(toks)-k+1)
	for i := 0; i+k <= len(toks); i++ {
		out = append(out, splitRunes(strings.Join(words[i:i+k], " ")))
	}
	return out
}
