package detector

import (
	"textguard/internal/core/policy"
	"textguard/internal/core/rulepack"
)

// NewXSS composes the xss signatures, the payload literals and the HTML
// structure check, each switched by rules.XSS
func NewXSS(p *rulepack.Pack) (*Union, error) {
	sig, err := NewSignature(p.XSSPatterns)
	if err != nil {
		return nil, err
	}
	return NewUnion(
		Part{Name: "xss.regex", Enabled: func(r policy.Rules) bool { return r.XSS.Regex }, Scanner: sig},
		Part{Name: "xss.payloads", Enabled: func(r policy.Rules) bool { return r.XSS.Payloads }, Scanner: NewGazetteer(p.XSSPayloads, IgnoreExclusions())},
		Part{Name: "xss.parser", Enabled: func(r policy.Rules) bool { return r.XSS.Parser }, Scanner: HTMLStructure{}},
	), nil
}

// NewSQL composes the sql heuristics and the tokenizer check, switched by rules.SQL
func NewSQL(p *rulepack.Pack) (*Union, error) {
	sig, err := NewSignature(p.SQLPatterns)
	if err != nil {
		return nil, err
	}
	return NewUnion(
		Part{Name: "sql.heuristics", Enabled: func(r policy.Rules) bool { return r.SQL.Heuristics }, Scanner: sig},
		Part{Name: "sql.parser", Enabled: func(r policy.Rules) bool { return r.SQL.Parser }, Scanner: NewSQLStructure(p.SQLCommands)},
	), nil
}

// Builtins returns the guarded pattern detectors backed by the pack
func Builtins(p *rulepack.Pack) (map[policy.Kind]Detector, error) {
	xss, err := NewXSS(p)
	if err != nil {
		return nil, err
	}
	sql, err := NewSQL(p)
	if err != nil {
		return nil, err
	}
	return map[policy.Kind]Detector{
		policy.KindGazetteer: Guard(policy.KindGazetteer, NewGazetteer(p.TermStrings(), WithAllowlist(p.Allowlist))),
		policy.KindBase64:    Guard(policy.KindBase64, NewBase64(p.Dictionary)),
		policy.KindXSS:       Guard(policy.KindXSS, xss),
		policy.KindSQL:       Guard(policy.KindSQL, sql),
	}, nil
}
