// Package normalize folds and tokenizes text for phrase matching.
// Fold pipeline:
// 1 drop control runes and invalid UTF-8 (Sanitize)
// 2 Unicode NFKC
// 3 case folding
// 4 strip combining marks and format runes (ZWJ, ZWNJ, FEFF)
// 5 fullwidth forms to ASCII
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKC,
			cases.Fold(),
			runes.Remove(runes.In(unicode.Mn)),
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
		)
	},
}

// Fold runs the pipeline above; it does not touch whitespace
func Fold(s string) string {
	if s == "" {
		return ""
	}
	s = Sanitize(s)

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// CollapseSpaces turns whitespace runs into one space and trims the ends
func CollapseSpaces(s string) string { return strings.Join(strings.Fields(s), " ") }

// alnum keeps letters and digits only
func alnum(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}
