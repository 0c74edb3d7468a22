package detector

import (
	"context"
	"errors"
	"sync"
	"testing"
	"unicode/utf8"

	"textguard/internal/core/policy"
	"textguard/internal/core/rulepack"
)

func TestOffsets(t *testing.T) {
	t.Parallel()
	ix := NewOffsets("héllo")
	if ix.Len() != 5 {
		t.Fatalf("Len = %d", ix.Len())
	}
	if got := ix.Reason(1, 3); got != (Reason{1, 2}) {
		t.Fatalf("Reason(1,3) = %+v", got)
	}
	if ix.Rune(2) != 1 || ix.RuneCeil(2) != 2 {
		t.Fatalf("mid-rune mapping: floor %d ceil %d", ix.Rune(2), ix.RuneCeil(2))
	}
	if ix.Rune(-3) != 0 || ix.Rune(99) != 5 {
		t.Fatalf("out of range offsets should clamp")
	}
	if NewOffsets("").Len() != 0 {
		t.Fatalf("empty len")
	}
}

func TestCompact(t *testing.T) {
	t.Parallel()
	got := Compact([]Reason{{5, 9}, {1, 2}, {5, 9}, {-1, 2}, {3, 1}, {4, 40}}, 10)
	want := []Reason{{0, 2}, {1, 2}, {4, 10}, {5, 9}}
	if len(got) != len(want) {
		t.Fatalf("Compact = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Compact[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
	if Compact(nil, 0) == nil {
		t.Fatalf("Compact must not return nil")
	}
}

func TestGuardFailsOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cases := map[string]ScanFunc{
		"panic": func(context.Context, string, policy.Rules) (Score, error) { panic("boom") },
		"error": func(context.Context, string, policy.Rules) (Score, error) {
			return Score{Metric: 3, Reasons: []Reason{{0, 1}}}, errors.New("parse")
		},
	}
	for name, fn := range cases {
		sc := Guard(policy.KindSQL, fn).Evaluate(ctx, "text", policy.Rules{})
		if sc.Metric != 0 || len(sc.Reasons) != 0 {
			t.Fatalf("%s: want Score{}, got %+v", name, sc)
		}
	}

	ok := ScanFunc(func(context.Context, string, policy.Rules) (Score, error) {
		return Score{Metric: 2, Reasons: []Reason{{2, 99}, {0, 1}, {0, 1}}}, nil
	})
	sc := Guard(policy.KindSQL, ok).Evaluate(ctx, "abc", policy.Rules{})
	if sc.Metric != 2 || len(sc.Reasons) != 2 || sc.Reasons[1] != (Reason{2, 3}) {
		t.Fatalf("guarded reasons not compacted: %+v", sc)
	}

	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if sc := Guard(policy.KindSQL, ok).Evaluate(cctx, "abc", policy.Rules{}); sc.Metric != 0 {
		t.Fatalf("canceled ctx should yield no signal, got %+v", sc)
	}
}

func TestGazetteerScenario(t *testing.T) {
	t.Parallel()
	g := Guard(policy.KindGazetteer, NewGazetteer([]string{"bomb"}))
	sc := g.Evaluate(context.Background(), "i have a bomb", policy.Rules{})
	if sc.Metric != 1 || len(sc.Reasons) != 1 || sc.Reasons[0] != (Reason{9, 13}) {
		t.Fatalf("got %+v", sc)
	}
}

func TestGazetteerTenantIsolation(t *testing.T) {
	t.Parallel()
	g := NewGazetteer([]string{"bomb"})
	det := Guard(policy.KindGazetteer, g)
	a := policy.Rules{Exclusions: []string{"bomb"}}
	b := policy.Rules{}

	var wg sync.WaitGroup
	errs := make(chan string, 200)
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if m := det.Evaluate(context.Background(), "there is a bomb", a).Metric; m != 0 {
				errs <- "tenant A saw a hit"
			}
		}()
		go func() {
			defer wg.Done()
			if m := det.Evaluate(context.Background(), "there is a bomb", b).Metric; m != 1 {
				errs <- "tenant B lost its hit"
			}
		}()
	}
	wg.Wait()
	close(errs)
	for e := range errs {
		t.Fatal(e)
	}
	if g.Len() != 1 {
		t.Fatalf("base set mutated: %d terms", g.Len())
	}
}

func TestGazetteerMatching(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cases := []struct {
		name  string
		terms []string
		opts  []GazetteerOption
		rules policy.Rules
		text  string
		want  []Reason
	}{
		{"overlaps", []string{"he", "she", "hers"}, nil, policy.Rules{}, "ushers", []Reason{{1, 4}, {2, 4}, {2, 6}}},
		{"case and cyrillic", []string{"бомба"}, nil, policy.Rules{}, "Это БОМБА!", []Reason{{4, 9}}},
		{"fold expands", []string{"strasse"}, nil, policy.Rules{}, "die Straße", []Reason{{4, 10}}},
		{"allowlist off by default", []string{"cunt"}, []GazetteerOption{WithAllowlist(scunthorpe)}, policy.Rules{}, "The Scunthorpe problem", []Reason{{5, 9}}},
		{"allowlisted word", []string{"cunt"}, []GazetteerOption{WithAllowlist(scunthorpe)}, policy.Rules{Allowlist: true}, "The Scunthorpe problem", nil},
		{"allowlist needs whole word", []string{"cunt"}, []GazetteerOption{WithAllowlist(scunthorpe)}, policy.Rules{Allowlist: true}, "cunt", []Reason{{0, 4}}},
		{"no match", []string{"bomb"}, nil, policy.Rules{}, "all calm", nil},
	}
	for _, c := range cases {
		sc, err := NewGazetteer(c.terms, c.opts...).Scan(ctx, c.text, c.rules)
		if err != nil {
			t.Fatalf("%s: %v", c.name, err)
		}
		if len(sc.Reasons) != len(c.want) || sc.Metric != float64(len(c.want)) {
			t.Fatalf("%s: got %+v", c.name, sc)
		}
		for i := range c.want {
			if sc.Reasons[i] != c.want[i] {
				t.Fatalf("%s: reason %d = %+v, want %+v", c.name, i, sc.Reasons[i], c.want[i])
			}
		}
	}
}

var scunthorpe = map[string]struct{}{"scunthorpe": {}}

func TestGazetteerCountsFoldedMatches(t *testing.T) {
	t.Parallel()
	// ß folds to "ss": two byte matches owned by one codepoint
	sc := Guard(policy.KindGazetteer, NewGazetteer([]string{"s"})).Evaluate(context.Background(), "ß", policy.Rules{})
	if sc.Metric != 2 {
		t.Fatalf("metric = %v, want 2", sc.Metric)
	}
	if len(sc.Reasons) != 1 || sc.Reasons[0] != (Reason{0, 1}) {
		t.Fatalf("reasons = %+v", sc.Reasons)
	}
}

func TestLiteralsIgnoreExclusions(t *testing.T) {
	t.Parallel()
	g := NewGazetteer([]string{"<script>"}, IgnoreExclusions())
	sc, _ := g.Scan(context.Background(), "x<SCRIPT>", policy.Rules{Exclusions: []string{"<script>"}})
	if sc.Metric != 1 {
		t.Fatalf("literal sets must ignore tenant exclusions: %+v", sc)
	}
}

func TestSignature(t *testing.T) {
	t.Parallel()
	s, err := NewSignature([]string{`union\s+select`, `--`, `x*`})
	if err != nil {
		t.Fatal(err)
	}
	sc, _ := s.Scan(context.Background(), "1 UNION SELECT x -- y", policy.Rules{})
	want := []Reason{{2, 14}, {15, 16}, {17, 19}}
	if len(sc.Reasons) != len(want) {
		t.Fatalf("got %+v", sc)
	}
	for i := range want {
		if sc.Reasons[i] != want[i] {
			t.Fatalf("reason %d = %+v, want %+v", i, sc.Reasons[i], want[i])
		}
	}
	if _, err := NewSignature([]string{"("}); err == nil {
		t.Fatalf("bad pattern should fail")
	}
}

func TestHTMLStructure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cases := []struct {
		text string
		want []Reason
	}{
		{`<img src=x onerror=alert(1)>`, []Reason{{0, 28}}},
		{`<script>alert(1)</script>`, []Reason{{0, 25}}},
		{`ok <a href="javascript:alert(1)">x</a>`, []Reason{{3, 33}}},
		{`<p class="a">hi</p> and 3 < 4`, nil},
		{`just words`, nil},
	}
	for _, c := range cases {
		sc, err := HTMLStructure{}.Scan(ctx, c.text, policy.Rules{})
		if err != nil {
			t.Fatalf("%q: %v", c.text, err)
		}
		if len(sc.Reasons) != len(c.want) {
			t.Fatalf("%q: got %+v", c.text, sc.Reasons)
		}
		for i := range c.want {
			if sc.Reasons[i] != c.want[i] {
				t.Fatalf("%q: reason %d = %+v, want %+v", c.text, i, sc.Reasons[i], c.want[i])
			}
		}
	}
}

func TestSQLStructure(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewSQLStructure([]string{"drop", "delete"})

	text := "SELECT * FROM t; DROP TABLE users -- bye"
	sc, err := s.Scan(ctx, text, policy.Rules{})
	if err != nil {
		t.Fatal(err)
	}
	var sawDrop, sawComment bool
	for _, r := range sc.Reasons {
		if r == (Reason{17, 21}) {
			sawDrop = true
		}
		if r.Start == 34 {
			sawComment = true
		}
	}
	if !sawDrop || !sawComment {
		t.Fatalf("reasons = %+v", sc.Reasons)
	}

	sc, _ = s.Scan(ctx, "SELECT 'drop table'", policy.Rules{})
	if sc.Metric != 0 {
		t.Fatalf("quoted keywords must not count: %+v", sc)
	}

	sc, _ = s.Scan(ctx, "please update it", policy.Rules{SQL: policy.SQLParams{Commands: []string{"update"}}})
	if sc.Metric != 1 {
		t.Fatalf("policy commands should override defaults: %+v", sc)
	}

	if _, err := s.Scan(ctx, "don't drop", policy.Rules{}); err != nil {
		t.Fatalf("lexing errors should not fail the scan: %v", err)
	}
}

func TestBase64(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	b := NewBase64(map[string]struct{}{"misunderstanding": {}})

	sc, _ := b.Scan(ctx, "run aGVsbG8gd29ybGQgZnJvbSBiYXNl now", policy.Rules{})
	if sc.Metric != 1 || sc.Reasons[0] != (Reason{4, 32}) {
		t.Fatalf("got %+v", sc)
	}
	if sc, _ := b.Scan(ctx, "a misunderstanding", policy.Rules{}); sc.Metric != 0 {
		t.Fatalf("dictionary words must be skipped: %+v", sc)
	}
	if sc, _ := NewBase64(nil).Scan(ctx, "a misunderstanding", policy.Rules{}); sc.Metric != 1 {
		t.Fatalf("without dictionary the word decodes: %+v", sc)
	}
	if sc, _ := b.Scan(ctx, "abcdefghijklmnop=", policy.Rules{}); sc.Metric != 0 {
		t.Fatalf("non strict base64 must not count: %+v", sc)
	}
}

func TestBuiltinsToggles(t *testing.T) {
	t.Parallel()
	p := rulepack.MustDefault()
	dets, err := Builtins(p)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	text := `<img src=x onerror=alert(1)> <script>alert(document.cookie)</script>`

	all := dets[policy.KindXSS].Evaluate(ctx, text, policy.Rules{}.Normalized())
	if all.Metric != 2 {
		t.Fatalf("xss with every part on should flag several spans: %+v", all)
	}
	for _, r := range all.Reasons {
		if r.Start < 0 || r.Stop > utf8.RuneCountInString(text) || r.Start > r.Stop {
			t.Fatalf("reason out of bounds: %+v", r)
		}
	}

	parserOnly := policy.Rules{XSS: policy.XSSParams{Parser: true}}
	one := dets[policy.KindXSS].Evaluate(ctx, `<img src=x onerror=alert(1)>`, parserOnly)
	if one.Metric != 1 || one.Reasons[0] != (Reason{0, 28}) {
		t.Fatalf("parser only = %+v", one)
	}

	sql := dets[policy.KindSQL].Evaluate(ctx, "x' OR 1=1 --", policy.Rules{}.Normalized())
	if sql.Metric == 0 {
		t.Fatalf("sql should flag tautology: %+v", sql)
	}

	for _, text := range []string{"a bombastic plan", "buy heroine", "SHITAKE"} {
		gz := dets[policy.KindGazetteer].Evaluate(ctx, text, policy.Rules{})
		if gz.Metric < 1 || len(gz.Reasons) == 0 {
			t.Fatalf("%q should match with default rules: %+v", text, gz)
		}
	}
	bomb := dets[policy.KindGazetteer].Evaluate(ctx, "a bombastic plan", policy.Rules{})
	if bomb.Metric != 1 || bomb.Reasons[0] != (Reason{2, 6}) {
		t.Fatalf("bombastic = %+v", bomb)
	}
	gz := dets[policy.KindGazetteer].Evaluate(ctx, "The Scunthorpe problem", policy.Rules{Allowlist: true})
	if gz.Metric != 0 {
		t.Fatalf("pack allowlist not applied when enabled: %+v", gz)
	}
}
