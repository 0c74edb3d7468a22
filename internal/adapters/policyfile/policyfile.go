// Package policyfile serves tenant policies from a YAML file and reloads it
// when it changes on disk
package policyfile

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strconv"
	"sync/atomic"

	"textguard/internal/core/policy"
	perr "textguard/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

// File is the YAML document shape
//
//	policies:
//	  - tenant_id: acme-key
//	    name: default
//	    input:
//	      enabled: [gazetteer, fuzzy_phrase]
//	      threshold: 0.7
type File struct {
	Policies []policy.Policy `yaml:"policies"`
}

// Store implements engine.PolicyStore over the last good parse of a file
type Store struct {
	path     string
	policies atomic.Pointer[map[string]policy.Policy]
}

// Open parses path; the file must be valid for the store to start
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path is the file the store reads
func (s *Store) Path() string { return s.path }

// Reload re-reads the file. On error the previous policies stay in place
func (s *Store) Reload() error {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeConfig, "read policy file %s", s.path)
	}
	m, err := Parse(b)
	if err != nil {
		return err
	}
	s.policies.Store(&m)
	return nil
}

// Parse decodes and validates a policy document keyed by tenant
func Parse(b []byte) (map[string]policy.Policy, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, perr.Wrap(err, perr.ErrorCodeConfig, "decode policy file")
	}
	out := make(map[string]policy.Policy, len(f.Policies))
	for i, p := range f.Policies {
		if err := p.Validate(); err != nil {
			return nil, perr.WithOp(err, "policies["+strconv.Itoa(i)+"]")
		}
		if _, dup := out[p.TenantID]; dup {
			return nil, perr.Configf("tenant %q defined twice", p.TenantID)
		}
		out[p.TenantID] = p
	}
	return out, nil
}

// Lookup implements engine.PolicyStore
func (s *Store) Lookup(_ context.Context, tenantID string) (policy.Policy, error) {
	m := s.policies.Load()
	if m == nil {
		return policy.Policy{}, perr.NotFoundf("no policy for tenant %q", tenantID)
	}
	p, ok := (*m)[tenantID]
	if !ok {
		return policy.Policy{}, perr.NotFoundf("no policy for tenant %q", tenantID)
	}
	return p, nil
}

// Tenants reports how many tenants are loaded
func (s *Store) Tenants() int {
	if m := s.policies.Load(); m != nil {
		return len(*m)
	}
	return 0
}
