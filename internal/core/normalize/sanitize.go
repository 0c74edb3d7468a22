package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops NUL, ASCII controls other than \n \r \t, DEL, C1 controls
// and invalid UTF-8 bytes. Clean input is returned unchanged
func Sanitize(s string) string {
	if clean(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		if !(r == utf8.RuneError && w == 1) && !dropped(r) {
			b.WriteString(s[i : i+w])
		}
		i += w
	}
	return b.String()
}

func clean(s string) bool {
	for i := 0; i < len(s); {
		r, w := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && w == 1) || dropped(r) {
			return false
		}
		i += w
	}
	return true
}

func dropped(r rune) bool {
	switch {
	case r == '\n', r == '\r', r == '\t':
		return false
	case r < 0x20, r == 0x7F:
		return true
	case r >= 0x80 && r <= 0x9F:
		return true
	}
	return false
}
