// Package langhint guesses which fuzzy grammar fits a text from the script
// its letters are written in
package langhint

import (
	"unicode"
)

// minLetters is the fewest letters a guess is made from
const minLetters = 8

// scripts is checked in order; ties go to the earlier entry, so Latin loses
var scripts = []struct {
	name  string
	table *unicode.RangeTable
}{
	{"Cyrillic", unicode.Cyrillic},
	{"Greek", unicode.Greek},
	{"Arabic", unicode.Arabic},
	{"Hebrew", unicode.Hebrew},
	{"Han", unicode.Han},
	{"Latin", unicode.Latin},
}

// grammars maps a script to the grammar written in it
var grammars = map[string]string{
	"Cyrillic": "ru",
	"Latin":    "en",
}

// Script returns the predominant script of the letters in s, or "" when s
// has no letter from a known script
func Script(s string) string {
	counts := make([]int, len(scripts))
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		for i, sc := range scripts {
			if unicode.Is(sc.table, r) {
				counts[i]++
				break
			}
		}
	}
	best := -1
	for i, c := range counts {
		if c > 0 && (best < 0 || c > counts[best]) {
			best = i
		}
	}
	if best < 0 {
		return ""
	}
	return scripts[best].name
}

// Grammar picks the grammar for s, or fallback when s is too short to judge
// or its script has no grammar
func Grammar(s, fallback string) string {
	letters := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters < minLetters {
		return fallback
	}
	if g, ok := grammars[Script(s)]; ok {
		return g
	}
	return fallback
}
