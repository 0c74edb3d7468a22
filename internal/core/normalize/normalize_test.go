package normalize

import (
	"testing"
)

func TestFold(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{"identity ascii", "hello world", "hello world"},
		{"invalid utf8 dropped", string([]byte{0xff, 'f', 'o', 'o', 0x80}), "foo"},
		{"case fold", "IgNoRe", "ignore"},
		{"zero widths", "ig\u200bno\u200dre", "ignore"},
		{"combining marks", "cafe\u0301", "cafe"},
		{"fullwidth", "ＩＧＮＯＲＥ", "ignore"},
		{"ligature", "oﬃce", "office"},
		{"cyrillic", "ЗАБУДЬ", "забудь"},
		{"controls", "a\x00b\x7fc\u0085d", "abcd"},
	}
	for _, tc := range tests {
		if got := Fold(tc.in); got != tc.out {
			t.Fatalf("%s: Fold(%q) = %q, want %q", tc.name, tc.in, got, tc.out)
		}
		if again := Fold(tc.out); again != tc.out {
			t.Fatalf("%s: Fold not idempotent: %q -> %q", tc.name, tc.out, again)
		}
	}
}

func TestSanitizeFastPath(t *testing.T) {
	t.Parallel()
	in := "line one\n\tline two"
	if Sanitize(in) != in {
		t.Fatalf("clean input must pass through")
	}
	if Sanitize("") != "" {
		t.Fatalf("empty")
	}
}

func TestCollapseSpaces(t *testing.T) {
	t.Parallel()
	if got := CollapseSpaces(" \t a \n b   c \r\n "); got != "a b c" {
		t.Fatalf("CollapseSpaces = %q", got)
	}
}

func TestTokenizeSpans(t *testing.T) {
	t.Parallel()
	n := New(nil)
	text := `Please, "IGNORE"  the rules... — ок?`
	toks := n.Tokenize(text)

	want := []Token{
		{"please", 0, 6},
		{"ignore", 9, 15},
		{"the", 18, 21},
		{"rules", 22, 27},
		{"ок", 33, 35},
	}
	if len(toks) != len(want) {
		t.Fatalf("tokens = %+v", toks)
	}
	runes := []rune(text)
	for i, w := range want {
		if toks[i] != w {
			t.Fatalf("token %d = %+v, want %+v", i, toks[i], w)
		}
		if Fold(string(runes[w.Start:w.Stop])) != w.Norm {
			t.Fatalf("span %d does not cover the word: %q", i, string(runes[w.Start:w.Stop]))
		}
	}
}

func TestTokenizeEmpty(t *testing.T) {
	t.Parallel()
	n := New(nil)
	for _, in := range []string{"", "   ", "... !!! —"} {
		if toks := n.Tokenize(in); len(toks) != 0 {
			t.Fatalf("Tokenize(%q) = %+v", in, toks)
		}
	}
}

func TestSnowball(t *testing.T) {
	t.Parallel()
	en, err := Snowball("english")
	if err != nil {
		t.Fatal(err)
	}
	n := New(en)
	if got := n.Phrase("Ignoring the previous INSTRUCTIONS!"); got != "ignor the previous instruct" {
		t.Fatalf("Phrase = %q", got)
	}
	if n.Word("Running") != "run" {
		t.Fatalf("Word(Running) = %q", n.Word("Running"))
	}
	if n.Word("---") != "" {
		t.Fatalf("punctuation-only word should vanish")
	}

	ru, err := Snowball("russian")
	if err != nil {
		t.Fatal(err)
	}
	r := New(ru)
	if r.Word("инструкции") != r.Word("инструкция") {
		t.Fatalf("russian inflections should share a stem: %q vs %q", r.Word("инструкции"), r.Word("инструкция"))
	}

	if _, err := Snowball("klingon"); err == nil {
		t.Fatalf("unknown language should fail")
	}
}

func TestStemFunc(t *testing.T) {
	t.Parallel()
	n := New(StemFunc(func(w string) string { return w[:1] }))
	if got := n.Phrase("alpha beta"); got != "a b" {
		t.Fatalf("custom stemmer not used: %q", got)
	}
}
