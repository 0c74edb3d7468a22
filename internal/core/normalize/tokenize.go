package normalize

import (
	"strings"
	"unicode"
)

// Token is one normalized word and the codepoint span [Start, Stop) of the
// original text it came from
type Token struct {
	Norm  string
	Start int
	Stop  int
}

// Normalizer folds, strips punctuation and stems. Safe for concurrent use
type Normalizer struct {
	stem Stemmer
}

// New builds a Normalizer; a nil stemmer means NoStem
func New(s Stemmer) *Normalizer {
	if s == nil {
		s = NoStem
	}
	return &Normalizer{stem: s}
}

// Word normalizes a single whitespace-free chunk; "" when nothing remains
func (n *Normalizer) Word(w string) string {
	w = alnum(Fold(w))
	if w == "" {
		return ""
	}
	return n.stem.Stem(w)
}

// Tokenize splits text on whitespace and normalizes each chunk. Spans are
// trimmed to the first and last letter or digit of the chunk, so they point
// at the word in the original text rather than at surrounding punctuation.
// Chunks that normalize to nothing are dropped
func (n *Normalizer) Tokenize(text string) []Token {
	var (
		out   []Token
		chunk strings.Builder
		first = -1 // first alnum rune of the chunk
		last  = -1 // last alnum rune of the chunk
	)
	flush := func() {
		if chunk.Len() > 0 && first >= 0 {
			if w := n.Word(chunk.String()); w != "" {
				out = append(out, Token{Norm: w, Start: first, Stop: last + 1})
			}
		}
		chunk.Reset()
		first, last = -1, -1
	}

	i := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			flush()
		} else {
			chunk.WriteRune(r)
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				if first < 0 {
					first = i
				}
				last = i
			}
		}
		i++
	}
	flush()
	return out
}

// Phrase normalizes a whole phrase into its space-joined tokens
func (n *Normalizer) Phrase(s string) string {
	return strings.Join(Words(n.Tokenize(s)), " ")
}

// Words returns the normalized forms of tokens
func Words(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Norm
	}
	return out
}
