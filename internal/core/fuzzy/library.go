package fuzzy

import (
	"fmt"
	"strings"
	"sync"

	"textguard/internal/core/langhint"
	"textguard/internal/core/normalize"
	"textguard/internal/core/policy"
	"textguard/internal/core/rulepack"
)

// Library builds each grammar's corpus at most once per process and shares
// the read-only result between requests
type Library struct {
	entries map[string]*entry // fixed at construction
}

type entry struct {
	once    sync.Once
	grammar rulepack.Grammar

	norm   *normalize.Normalizer
	corpus *Corpus
	err    error
}

// NewLibrary indexes the grammars of p; nothing is generated yet
func NewLibrary(p *rulepack.Pack) *Library {
	l := &Library{entries: make(map[string]*entry, len(p.Grammars))}
	for name, g := range p.Grammars {
		l.entries[name] = &entry{grammar: g}
	}
	return l
}

// Get returns the corpus and normalizer for a grammar name, "en" when unknown
func (l *Library) Get(name string) (*Corpus, *normalize.Normalizer, error) {
	e, ok := l.entries[strings.ToLower(name)]
	if !ok {
		if e, ok = l.entries["en"]; !ok {
			return nil, nil, fmt.Errorf("fuzzy: no grammar %q and no en fallback", name)
		}
	}
	e.once.Do(e.build)
	return e.corpus, e.norm, e.err
}

// For resolves policy.GrammarAuto against text before Get
func (l *Library) For(name, text string) (*Corpus, *normalize.Normalizer, error) {
	if strings.EqualFold(name, policy.GrammarAuto) {
		name = langhint.Grammar(text, "en")
	}
	return l.Get(name)
}

// Warm builds every corpus up front so the first request does not pay for it
func (l *Library) Warm() error {
	for name := range l.entries {
		if _, _, err := l.Get(name); err != nil {
			return err
		}
	}
	return nil
}

func (e *entry) build() {
	stem := normalize.NoStem
	if e.grammar.Language != "" {
		s, err := normalize.Snowball(e.grammar.Language)
		if err != nil {
			e.err = err
			return
		}
		stem = s
	}
	e.norm = normalize.New(stem)
	e.corpus = NewCorpus(e.grammar, e.norm)
}
