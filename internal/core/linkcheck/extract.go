// Package linkcheck flags dangerous links with checks ordered by cost: local
// blocklist, executable extension, redirect probe and finally a rate-limited
// reputation lookup
package linkcheck

import (
	"net/url"
	"regexp"
	"strings"

	"textguard/internal/core/detector"
)

var linkPattern = regexp.MustCompile(`(?i)https?://\S+`)

// closing punctuation that usually belongs to the sentence, not the link
const trailing = `.,;:!?)]}'"»>`

// Candidate is one link found in the text
type Candidate struct {
	Raw  string
	URL  *url.URL
	Span detector.Reason
}

// Origin is the lowercased scheme://host used for blocklist lookups
func (c Candidate) Origin() string {
	return strings.ToLower(c.URL.Scheme + "://" + c.URL.Host)
}

// Extract finds http(s) links and keeps those that parse with a scheme and host
func Extract(text string) []Candidate {
	ix := detector.NewOffsets(text)
	var out []Candidate
	for _, m := range linkPattern.FindAllStringIndex(text, -1) {
		raw := strings.TrimRight(text[m[0]:m[1]], trailing)
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			continue
		}
		out = append(out, Candidate{Raw: raw, URL: u, Span: ix.Reason(m[0], m[0]+len(raw))})
	}
	return out
}
