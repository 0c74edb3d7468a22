// Package policy holds the per-tenant screening configuration: which detectors
// run for each direction, their thresholds and how their metrics combine
package policy

import (
	"slices"
	"strings"

	perr "textguard/internal/platform/errors"
	"textguard/internal/platform/net/http/bind"
	pstrings "textguard/internal/platform/strings"
)

// Direction is the side of the conversation being screened
type Direction string

const (
	Input  Direction = "input"
	Output Direction = "output"
)

// ParseDirection accepts "input" or "output" in any case
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(strings.ToLower(strings.TrimSpace(s))); d {
	case Input, Output:
		return d, nil
	default:
		return "", perr.WithField(perr.InvalidArgf("unknown direction %q", s), "direction")
	}
}

// Kind names a detector strategy
type Kind string

const (
	KindGazetteer   Kind = "gazetteer"
	KindBase64      Kind = "base64"
	KindXSS         Kind = "xss"
	KindSQL         Kind = "sql"
	KindFuzzyPhrase Kind = "fuzzy_phrase"
	KindKeyword     Kind = "keyword"
	KindLink        Kind = "link"
)

var kinds = []Kind{KindGazetteer, KindBase64, KindXSS, KindSQL, KindFuzzyPhrase, KindKeyword, KindLink}

// Kinds lists every known detector kind
func Kinds() []Kind { return slices.Clone(kinds) }

// Valid reports whether k is a known kind
func (k Kind) Valid() bool { return slices.Contains(kinds, k) }

// Combine selects how per-detector metrics fold into one
type Combine string

const (
	CombineSum Combine = "sum"
	CombineMax Combine = "max"
	CombineAny Combine = "any"
)

// LinkParams toggles the link checks; a zero block enables all of them
type LinkParams struct {
	Blocklist  bool `json:"blocklist" yaml:"blocklist"`
	Executable bool `json:"executable" yaml:"executable"`
	Redirects  bool `json:"redirects" yaml:"redirects"`
	Reputation bool `json:"reputation" yaml:"reputation"`
}

// XSSParams toggles the parts of the xss composite; a zero block enables all of them
type XSSParams struct {
	Regex    bool `json:"regex" yaml:"regex"`
	Payloads bool `json:"payloads" yaml:"payloads"`
	Parser   bool `json:"parser" yaml:"parser"`
}

// SQLParams toggles the parts of the sql composite
type SQLParams struct {
	Heuristics bool     `json:"heuristics" yaml:"heuristics"`
	Parser     bool     `json:"parser" yaml:"parser"`
	Commands   []string `json:"commands,omitempty" yaml:"commands,omitempty" validate:"omitempty,dive,required"`
}

// Rules is the configuration for one direction
type Rules struct {
	Enabled    []Kind           `json:"enabled" yaml:"enabled" validate:"dive,kind"`
	Thresholds map[Kind]float64 `json:"thresholds,omitempty" yaml:"thresholds,omitempty" validate:"omitempty,dive,keys,kind,endkeys,gte=0"`
	Threshold  float64          `json:"threshold" yaml:"threshold" validate:"gte=0"`
	Combine    Combine          `json:"combine,omitempty" yaml:"combine,omitempty" validate:"omitempty,oneof=sum max any"`
	Exclusions []string         `json:"exclusions,omitempty" yaml:"exclusions,omitempty"`
	Allowlist  bool             `json:"allowlist,omitempty" yaml:"allowlist,omitempty"` // pack allowlist suppresses gazetteer hits inside its words
	Links      LinkParams       `json:"links" yaml:"links"`
	XSS        XSSParams        `json:"xss" yaml:"xss"`
	SQL        SQLParams        `json:"sql" yaml:"sql"`
	Grammar    string           `json:"grammar,omitempty" yaml:"grammar,omitempty" validate:"omitempty,oneof=en ru auto"`
}

// Enables reports whether kind k is switched on
func (r Rules) Enables(k Kind) bool { return slices.Contains(r.Enabled, k) }

// ThresholdFor returns the per-detector threshold, 0 when unset
func (r Rules) ThresholdFor(k Kind) float64 { return r.Thresholds[k] }

// Normalized fills defaults: sum combine, en grammar, all-on toggle blocks,
// lowercased exclusions and commands, deduped enabled kinds
func (r Rules) Normalized() Rules {
	out := r
	if out.Combine == "" {
		out.Combine = CombineSum
	}
	if out.Grammar == "" {
		out.Grammar = "en"
	}
	if out.Links == (LinkParams{}) {
		out.Links = LinkParams{Blocklist: true, Executable: true, Redirects: true, Reputation: true}
	}
	if out.XSS == (XSSParams{}) {
		out.XSS = XSSParams{Regex: true, Payloads: true, Parser: true}
	}
	if !out.SQL.Heuristics && !out.SQL.Parser {
		out.SQL.Heuristics, out.SQL.Parser = true, true
	}
	out.SQL.Commands = pstrings.LowerSet(r.SQL.Commands)
	out.Exclusions = pstrings.LowerSet(r.Exclusions)

	out.Enabled = nil
	for _, k := range r.Enabled {
		if !slices.Contains(out.Enabled, k) {
			out.Enabled = append(out.Enabled, k)
		}
	}
	return out
}

// GrammarAuto picks the fuzzy grammar per text from its script
const GrammarAuto = "auto"

// Policy is everything a tenant configures
type Policy struct {
	TenantID string `json:"tenant_id" yaml:"tenant_id" validate:"required"`
	Name     string `json:"name" yaml:"name"`
	Input    Rules  `json:"input" yaml:"input"`
	Output   Rules  `json:"output" yaml:"output"`
}

// For returns the normalized rules for a direction
func (p Policy) For(d Direction) Rules {
	if d == Output {
		return p.Output.Normalized()
	}
	return p.Input.Normalized()
}

// Validate checks a policy; failures are ConfigErrors naming the bad field
func (p Policy) Validate() error {
	if err := bind.Validate(p); err != nil {
		fe, _ := perr.As(err)
		msg := err.Error()
		field := ""
		if fe != nil {
			field = fe.Field()
		}
		return perr.WithField(perr.Configf("policy for tenant %q: %s", p.TenantID, msg), field)
	}
	return nil
}

func init() {
	if err := bind.RegisterValidation("kind", "{0} must be a known detector kind", func(fl bind.FieldLevel) bool {
		return Kind(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
}
