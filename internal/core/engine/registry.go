package engine

import (
	"maps"
	"slices"
	"sync"

	"textguard/internal/core/detector"
	"textguard/internal/core/fuzzy"
	"textguard/internal/core/linkcheck"
	"textguard/internal/core/policy"
	"textguard/internal/core/rulepack"
)

// Registry maps detector kinds to implementations
type Registry struct {
	mu sync.RWMutex
	m  map[policy.Kind]detector.Detector
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{m: map[policy.Kind]detector.Detector{}}
}

// Register binds k to d, replacing any previous binding
func (r *Registry) Register(k policy.Kind, d detector.Detector) {
	r.mu.Lock()
	r.m[k] = d
	r.mu.Unlock()
}

// Get returns the detector bound to k
func (r *Registry) Get(k policy.Kind) (detector.Detector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.m[k]
	return d, ok
}

// Kinds lists the registered kinds in sorted order
func (r *Registry) Kinds() []policy.Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.m))
}

// Default registers every built-in kind over pack p. The fuzzy corpora are
// generated before it returns; linkOpts configure the link detector's
// network stages
func Default(p *rulepack.Pack, linkOpts ...linkcheck.Option) (*Registry, error) {
	builtins, err := detector.Builtins(p)
	if err != nil {
		return nil, err
	}
	lib := fuzzy.NewLibrary(p)
	if err := lib.Warm(); err != nil {
		return nil, err
	}

	r := NewRegistry()
	for k, d := range builtins {
		r.Register(k, d)
	}
	r.Register(policy.KindFuzzyPhrase, detector.Guard(policy.KindFuzzyPhrase, fuzzy.NewPhrase(lib)))
	r.Register(policy.KindKeyword, detector.Guard(policy.KindKeyword, fuzzy.NewKeyword(lib)))
	r.Register(policy.KindLink, detector.Guard(policy.KindLink, linkcheck.New(p, linkOpts...)))
	return r, nil
}
