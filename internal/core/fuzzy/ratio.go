package fuzzy

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Ratio is the block alignment similarity 2*M/(len(a)+len(b)) over
// codepoints, M being the total size of the matching blocks. It is 1 for
// equal non-empty strings and 0 when they share no codepoint or either is empty
func Ratio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
