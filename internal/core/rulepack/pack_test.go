package rulepack

import (
	"regexp"
	"strings"
	"testing"
)

func TestDefaultPack(t *testing.T) {
	p, err := Default()
	if err != nil {
		t.Fatalf("Default(): %v", err)
	}
	if p.Version != Version {
		t.Fatalf("version = %d", p.Version)
	}
	if p2 := MustDefault(); p2 != p {
		t.Fatalf("Default should be cached")
	}

	var hasBomb bool
	for i, term := range p.Terms {
		if term.Term == "bomb" {
			hasBomb = true
		}
		if i > 0 && p.Terms[i-1].Term >= term.Term {
			t.Fatalf("terms not sorted/deduped at %d: %q >= %q", i, p.Terms[i-1].Term, term.Term)
		}
	}
	if !hasBomb {
		t.Fatalf("gazetteer missing bomb")
	}
	if _, ok := p.Allowlist["scunthorpe"]; !ok {
		t.Fatalf("allowlist missing scunthorpe")
	}

	for _, pat := range append(append([]string{}, p.XSSPatterns...), p.SQLPatterns...) {
		if _, err := regexp.Compile("(?i)" + pat); err != nil {
			t.Fatalf("pattern %q: %v", pat, err)
		}
	}
	if len(p.XSSPayloads) == 0 || len(p.SQLCommands) == 0 {
		t.Fatalf("payloads/commands missing")
	}
	for _, e := range p.Extensions {
		if !strings.HasPrefix(e, ".") {
			t.Fatalf("extension %q lacks dot", e)
		}
	}
	if len(p.Blocklist) != 2 || p.Blocklist[0] != "https://vulnerable.com" {
		t.Fatalf("blocklist = %v", p.Blocklist)
	}
	if _, ok := p.Dictionary["misunderstanding"]; !ok {
		t.Fatalf("dictionary missing misunderstanding")
	}
}

func TestGrammars(t *testing.T) {
	p := MustDefault()
	for _, name := range []string{"en", "ru"} {
		g, ok := p.Grammar(name)
		if !ok {
			t.Fatalf("grammar %s missing", name)
		}
		if len(g.Verbs) == 0 || len(g.Modifiers) == 0 || len(g.Objects) == 0 || len(g.Connectors) == 0 {
			t.Fatalf("grammar %s has an empty list: %+v", name, g)
		}
	}
	ru, _ := p.Grammar("RU")
	if ru.Language != "russian" {
		t.Fatalf("ru language = %q", ru.Language)
	}
	en, _ := p.Grammar("klingon")
	if en.Language != "english" {
		t.Fatalf("unknown grammar should fall back to en, got %q", en.Language)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"bad json":      `{`,
		"wrong version": `{"version": 2}`,
		"bad regex":     `{"version": 3, "xss": {"patterns": ["(unclosed"]}}`,
		"empty grammar": `{"version": 3, "grammars": {"en": {"verbs": []}}}`,
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestParseNormalizes(t *testing.T) {
	p, err := Parse([]byte(`{
		"version": 3,
		"gazetteer": {"terms": [{"term": " Bomb "}, {"term": "bomb"}, {"term": ""}]},
		"links": {"blocklist": ["HTTPS://Evil.example/"], "extensions": ["EXE", ".sh"]},
		"grammars": {"en": {"verbs": ["ignore"], "objects": ["rules"]}}
	}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.Terms) != 1 || p.Terms[0].Term != "bomb" {
		t.Fatalf("terms = %+v", p.Terms)
	}
	if p.Blocklist[0] != "https://evil.example" {
		t.Fatalf("blocklist = %v", p.Blocklist)
	}
	if p.Extensions[0] != ".exe" || p.Extensions[1] != ".sh" {
		t.Fatalf("extensions = %v", p.Extensions)
	}
	g := p.Grammars["en"]
	if len(g.Modifiers) != 1 || g.Modifiers[0] != "" || len(g.Connectors) != 1 {
		t.Fatalf("missing lists should become one empty option: %+v", g)
	}
	if got := p.TermStrings(); len(got) != 1 || got[0] != "bomb" {
		t.Fatalf("TermStrings = %v", got)
	}
}
