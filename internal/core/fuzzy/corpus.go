// Package fuzzy detects paraphrased prompt injection: a corpus of attack
// phrases is generated from a small grammar and compared to every same-length
// word window of the input
package fuzzy

import (
	"strings"

	"textguard/internal/core/normalize"
	"textguard/internal/core/rulepack"
)

// Generate expands verbs x modifiers x objects x connectors in that nesting
// order. Empty options collapse, so the result has exactly
// |verbs|*|modifiers|*|objects|*|connectors| entries, duplicates included
func Generate(g rulepack.Grammar) []string {
	out := make([]string, 0, len(g.Verbs)*len(g.Modifiers)*len(g.Objects)*len(g.Connectors))
	for _, v := range g.Verbs {
		for _, m := range g.Modifiers {
			for _, o := range g.Objects {
				for _, c := range g.Connectors {
					out = append(out, normalize.CollapseSpaces(strings.Join([]string{v, m, o, c}, " ")))
				}
			}
		}
	}
	return out
}

// Phrase is one normalized corpus entry
type Phrase struct {
	Text  string   // normalized, space joined
	Words int      // word count k
	runes []string // Text split into codepoints for the matcher
}

// Corpus is the immutable normalized phrase set of one grammar
type Corpus struct {
	Raw     []string // Generate output
	Phrases []Phrase // normalized, deduplicated, first-seen order
	Verbs   []string // normalized single-word verbs
}

// NewCorpus generates and normalizes the phrases of g
func NewCorpus(g rulepack.Grammar, n *normalize.Normalizer) *Corpus {
	c := &Corpus{Raw: Generate(g)}
	seen := make(map[string]struct{}, len(c.Raw))
	for _, raw := range c.Raw {
		toks := n.Tokenize(raw)
		if len(toks) == 0 {
			continue
		}
		text := strings.Join(normalize.Words(toks), " ")
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		c.Phrases = append(c.Phrases, Phrase{Text: text, Words: len(toks), runes: splitRunes(text)})
	}

	vs := make(map[string]struct{}, len(g.Verbs))
	for _, v := range g.Verbs {
		toks := n.Tokenize(v)
		if len(toks) != 1 {
			continue
		}
		if _, dup := vs[toks[0].Norm]; dup {
			continue
		}
		vs[toks[0].Norm] = struct{}{}
		c.Verbs = append(c.Verbs, toks[0].Norm)
	}
	return c
}
