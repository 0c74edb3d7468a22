// Package strings holds small string and slice helpers shared across packages
package strings

import std "strings"

// IfEmpty returns def if in is empty, otherwise in
func IfEmpty[T any](in []T, def []T) []T {
	if len(in) == 0 {
		return def
	}
	return in
}

// MustPrefix normalizes a mount path like /screen: one leading slash, no trailing slash
// panics when nothing but slashes remain
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), " /")
	if s == "/" {
		panic("root path is required")
	}
	return s
}

// LowerSet trims and lowercases values, drops blanks and duplicates, keeping first-seen order
func LowerSet(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = std.ToLower(std.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
