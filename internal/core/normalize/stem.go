package normalize

import (
	"fmt"

	"github.com/kljensen/snowball"
)

// Stemmer reduces a folded word to its stem
type Stemmer interface {
	Stem(word string) string
}

// StemFunc adapts a function to Stemmer
type StemFunc func(string) string

// Stem implements Stemmer
func (f StemFunc) Stem(w string) string { return f(w) }

// NoStem leaves words untouched
var NoStem Stemmer = StemFunc(func(w string) string { return w })

type snowballStemmer struct{ lang string }

// Snowball returns a stemmer for one of the snowball languages
// (english, russian, spanish, french, swedish, norwegian, hungarian)
func Snowball(lang string) (Stemmer, error) {
	if _, err := snowball.Stem("test", lang, true); err != nil {
		return nil, fmt.Errorf("normalize: stemmer %q: %w", lang, err)
	}
	return snowballStemmer{lang: lang}, nil
}

func (s snowballStemmer) Stem(w string) string {
	out, err := snowball.Stem(w, s.lang, true)
	if err != nil || out == "" {
		return w
	}
	return out
}
