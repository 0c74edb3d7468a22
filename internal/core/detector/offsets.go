package detector

import "unicode/utf8"

// Offsets converts byte offsets of one string into codepoint offsets
type Offsets struct {
	owner []int // byte index -> index of the rune that byte belongs to
	n     int   // rune count
}

// NewOffsets indexes s once; lookups are O(1)
func NewOffsets(s string) Offsets {
	owner := make([]int, len(s))
	n := 0
	for i := 0; i < len(s); n++ {
		_, w := utf8.DecodeRuneInString(s[i:])
		for j := i; j < i+w; j++ {
			owner[j] = n
		}
		i += w
	}
	return Offsets{owner: owner, n: n}
}

// Len is the rune count of the indexed string
func (o Offsets) Len() int { return o.n }

// Rune maps a byte offset to the codepoint offset at or before it
func (o Offsets) Rune(b int) int {
	switch {
	case b <= 0:
		return 0
	case b >= len(o.owner):
		return o.n
	}
	return o.owner[b]
}

// RuneCeil maps a byte offset to the first codepoint offset at or after it
func (o Offsets) RuneCeil(b int) int {
	r := o.Rune(b)
	if b > 0 && b < len(o.owner) && o.owner[b] == o.owner[b-1] {
		r++
	}
	return r
}

// Reason maps a byte span [b0, b1) to a codepoint Reason covering it
func (o Offsets) Reason(b0, b1 int) Reason {
	return Reason{Start: o.Rune(b0), Stop: o.RuneCeil(b1)}
}
