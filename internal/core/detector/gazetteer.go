package detector

import (
	"context"
	"unicode"
	"unicode/utf8"

	"textguard/internal/core/policy"

	"golang.org/x/text/cases"
)

// Gazetteer finds banned terms as case-insensitive substrings. The automaton
// and term table are built once; tenant exclusions only ever produce a
// per-call set of skipped ids
type Gazetteer struct {
	ac    *automaton
	terms []string       // id -> folded term
	ids   map[string]int // folded term -> id
	allow map[string]struct{}

	exclusions bool
}

// GazetteerOption tunes a Gazetteer
type GazetteerOption func(*Gazetteer)

// WithAllowlist loads words that suppress hits inside them. The set only
// applies to rules with Allowlist on
func WithAllowlist(words map[string]struct{}) GazetteerOption {
	return func(g *Gazetteer) {
		g.allow = make(map[string]struct{}, len(words))
		for w := range words {
			g.allow[fold(w)] = struct{}{}
		}
	}
}

// IgnoreExclusions makes the gazetteer a fixed literal set (payload lists)
func IgnoreExclusions() GazetteerOption {
	return func(g *Gazetteer) { g.exclusions = false }
}

// NewGazetteer builds the automaton over the folded terms
func NewGazetteer(terms []string, opts ...GazetteerOption) *Gazetteer {
	g := &Gazetteer{ac: newAutomaton(), ids: make(map[string]int, len(terms)), exclusions: true}
	for _, o := range opts {
		o(g)
	}
	for _, t := range terms {
		f := fold(t)
		if f == "" {
			continue
		}
		if _, dup := g.ids[f]; dup {
			continue
		}
		id := len(g.terms)
		g.terms = append(g.terms, f)
		g.ids[f] = id
		g.ac.add([]byte(f), id)
	}
	g.ac.build()
	return g
}

// Len is the size of the base term set
func (g *Gazetteer) Len() int { return len(g.terms) }

// Scan implements Scanner. Metric is the number of matches, counted before
// reasons that fold onto the same codepoint span are merged
func (g *Gazetteer) Scan(ctx context.Context, text string, rules policy.Rules) (Score, error) {
	excluded := g.excluded(rules.Exclusions)
	allow := g.allow
	if !rules.Allowlist {
		allow = nil
	}
	folded, owner := foldIndex(text)
	fs := string(folded)

	var reasons []Reason
	g.ac.scan(folded, func(start, end, id int) bool {
		if _, skip := excluded[id]; skip {
			return true
		}
		if len(allow) > 0 {
			if _, ok := allow[enclosingWord(fs, start, end)]; ok {
				return true
			}
		}
		reasons = append(reasons, Reason{Start: owner[start], Stop: owner[end-1] + 1})
		return ctx.Err() == nil
	})
	if err := ctx.Err(); err != nil {
		return Score{}, err
	}
	return Score{Metric: float64(len(reasons)), Reasons: Compact(reasons, utf8.RuneCountInString(text))}, nil
}

// excluded resolves tenant exclusions to term ids without touching the base set
func (g *Gazetteer) excluded(words []string) map[int]struct{} {
	if !g.exclusions || len(words) == 0 {
		return nil
	}
	out := make(map[int]struct{}, len(words))
	for _, w := range words {
		if id, ok := g.ids[fold(w)]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

func fold(s string) string { return cases.Fold().String(s) }

// foldIndex case-folds text rune by rune and records, for every output byte,
// the codepoint index of the original rune it came from
func foldIndex(text string) ([]byte, []int) {
	c := cases.Fold()
	out := make([]byte, 0, len(text))
	owner := make([]int, 0, len(text))
	ri := 0
	for _, r := range text {
		f := c.String(string(r))
		out = append(out, f...)
		for range len(f) {
			owner = append(owner, ri)
		}
		ri++
	}
	return out, owner
}

// enclosingWord widens the byte span [start,end) of s to the whole word around
// it. Letters, numbers, combining marks and underscores are word runes
func enclosingWord(s string, start, end int) string {
	inWord := func(r rune) bool {
		return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.In(r, unicode.Mn, unicode.Pc))
	}
	for start > 0 {
		r, w := utf8.DecodeLastRuneInString(s[:start])
		if !inWord(r) {
			break
		}
		start -= w
	}
	for end < len(s) {
		r, w := utf8.DecodeRuneInString(s[end:])
		if !inWord(r) {
			break
		}
		end += w
	}
	return s[start:end]
}
