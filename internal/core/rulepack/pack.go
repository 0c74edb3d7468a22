// Package rulepack loads the detection rules shipped in the embedded rules.json.
// It validates the regex signatures and normalizes term lists for the detectors
package rulepack

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed rules.json
var embedded []byte

// Version is the rules.json schema this package understands
const Version = 3

type rawTerm struct {
	Term     string `json:"term"`
	Category string `json:"category"`
}

type rawGazetteer struct {
	Terms     []rawTerm `json:"terms"`
	Allowlist []string  `json:"allowlist"`
}

type rawSignatures struct {
	Patterns []string `json:"patterns"`
	Payloads []string `json:"payloads,omitempty"`
	Commands []string `json:"commands,omitempty"`
}

type rawLinks struct {
	Blocklist  []string `json:"blocklist"`
	Extensions []string `json:"extensions"`
}

type rawGrammar struct {
	Language   string   `json:"language"`
	Verbs      []string `json:"verbs"`
	Modifiers  []string `json:"modifiers"`
	Objects    []string `json:"objects"`
	Connectors []string `json:"connectors"`
}

type rawPack struct {
	Version    int                   `json:"version"`
	Meta       map[string]any        `json:"meta"`
	Gazetteer  rawGazetteer          `json:"gazetteer"`
	XSS        rawSignatures         `json:"xss"`
	SQL        rawSignatures         `json:"sql"`
	Links      rawLinks              `json:"links"`
	Grammars   map[string]rawGrammar `json:"grammars"`
	Dictionary []string              `json:"dictionary"`
}

// Term is one banned gazetteer entry
type Term struct {
	Term     string
	Category string
}

// Grammar is the word lists a fuzzy phrase corpus is generated from.
// Modifiers and connectors may hold "" for the empty option
type Grammar struct {
	Language   string // snowball stemmer language
	Verbs      []string
	Modifiers  []string
	Objects    []string
	Connectors []string
}

// Pack is the parsed rule set shared by every detector
type Pack struct {
	Version int
	Meta    map[string]any

	Terms     []Term              // sorted by term
	Allowlist map[string]struct{} // lowercased words that suppress gazetteer hits inside them

	XSSPatterns []string
	XSSPayloads []string

	SQLPatterns []string
	SQLCommands []string

	Blocklist  []string // lowercased scheme://host
	Extensions []string // lowercased, dot prefixed

	Grammars map[string]Grammar

	Dictionary map[string]struct{}
}

var (
	defaultOnce sync.Once
	defaultPack *Pack
	defaultErr  error
)

// Default parses the embedded pack once per process
func Default() (*Pack, error) {
	defaultOnce.Do(func() { defaultPack, defaultErr = Parse(embedded) })
	return defaultPack, defaultErr
}

// MustDefault is Default for bootstrap code; it panics on a broken pack
func MustDefault() *Pack {
	p, err := Default()
	if err != nil {
		panic(err)
	}
	return p
}

// Parse decodes and validates a rules document
func Parse(b []byte) (*Pack, error) {
	var rp rawPack
	if err := json.Unmarshal(b, &rp); err != nil {
		return nil, fmt.Errorf("rulepack: parse rules.json: %w", err)
	}
	if rp.Version != Version {
		return nil, fmt.Errorf("rulepack: unsupported rules.json version %d (want %d)", rp.Version, Version)
	}

	p := &Pack{
		Version:     rp.Version,
		Meta:        rp.Meta,
		Allowlist:   toSet(rp.Gazetteer.Allowlist),
		XSSPayloads: lowerList(rp.XSS.Payloads),
		SQLCommands: lowerList(rp.SQL.Commands),
		Extensions:  lowerList(rp.Links.Extensions),
		Grammars:    make(map[string]Grammar, len(rp.Grammars)),
		Dictionary:  toSet(rp.Dictionary),
	}

	seen := make(map[string]struct{}, len(rp.Gazetteer.Terms))
	for _, t := range rp.Gazetteer.Terms {
		term := strings.ToLower(strings.TrimSpace(t.Term))
		if term == "" {
			continue
		}
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		p.Terms = append(p.Terms, Term{Term: term, Category: t.Category})
	}
	sort.Slice(p.Terms, func(i, j int) bool { return p.Terms[i].Term < p.Terms[j].Term })

	// patterns keep their authored order; signatures report in that order
	for _, set := range []struct {
		name string
		in   []string
		out  *[]string
	}{
		{"xss", rp.XSS.Patterns, &p.XSSPatterns},
		{"sql", rp.SQL.Patterns, &p.SQLPatterns},
	} {
		for _, pat := range set.in {
			if _, err := regexp.Compile("(?i)" + pat); err != nil {
				return nil, fmt.Errorf("rulepack: compile %s pattern %q: %w", set.name, pat, err)
			}
			*set.out = append(*set.out, pat)
		}
	}

	for _, b := range rp.Links.Blocklist {
		if b = strings.ToLower(strings.TrimRight(strings.TrimSpace(b), "/")); b != "" {
			p.Blocklist = append(p.Blocklist, b)
		}
	}
	for i, e := range p.Extensions {
		if !strings.HasPrefix(e, ".") {
			p.Extensions[i] = "." + e
		}
	}

	for name, g := range rp.Grammars {
		if len(g.Verbs) == 0 || len(g.Objects) == 0 {
			return nil, fmt.Errorf("rulepack: grammar %q needs verbs and objects", name)
		}
		p.Grammars[strings.ToLower(name)] = Grammar{
			Language:   strings.ToLower(g.Language),
			Verbs:      g.Verbs,
			Modifiers:  orEmpty(g.Modifiers),
			Objects:    g.Objects,
			Connectors: orEmpty(g.Connectors),
		}
	}

	return p, nil
}

// Grammar returns the named grammar, falling back to "en"
func (p *Pack) Grammar(name string) (Grammar, bool) {
	if g, ok := p.Grammars[strings.ToLower(name)]; ok {
		return g, true
	}
	g, ok := p.Grammars["en"]
	return g, ok
}

// TermStrings returns the gazetteer terms in pack order
func (p *Pack) TermStrings() []string {
	out := make([]string, len(p.Terms))
	for i, t := range p.Terms {
		out[i] = t.Term
	}
	return out
}

// lowerList trims, lowercases and dedupes, keeping first-seen order
func lowerList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func toSet(in []string) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for _, s := range lowerList(in) {
		out[s] = struct{}{}
	}
	return out
}

// an empty list still yields one (empty) option so the cross product is not empty
func orEmpty(in []string) []string {
	if len(in) == 0 {
		return []string{""}
	}
	return in
}
