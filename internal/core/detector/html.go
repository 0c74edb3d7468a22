package detector

import (
	"context"
	"errors"
	"io"
	"strings"

	"textguard/internal/core/policy"

	"golang.org/x/net/html"
)

// HTMLStructure tokenizes the text as HTML and flags script elements, on*
// event handler attributes and attribute values that carry script or markup
type HTMLStructure struct{}

// Scan implements Scanner
func (HTMLStructure) Scan(ctx context.Context, text string, _ policy.Rules) (Score, error) {
	ix := NewOffsets(text)
	z := html.NewTokenizer(strings.NewReader(text))

	var (
		reasons     []Reason
		off         int
		scriptStart = -1
	)
	for {
		tt := z.Next()
		start := off
		off += len(z.Raw())

		switch tt {
		case html.ErrorToken:
			if scriptStart >= 0 {
				reasons = append(reasons, ix.Reason(scriptStart, off))
			}
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return Score{}, err
			}
			return Counted(reasons, ix.Len()), nil

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if string(name) == "script" && tt == html.StartTagToken {
				scriptStart = start
			}
			if hasAttr && dangerousAttrs(z) {
				reasons = append(reasons, ix.Reason(start, off))
			}

		case html.EndTagToken:
			if name, _ := z.TagName(); string(name) == "script" && scriptStart >= 0 {
				reasons = append(reasons, ix.Reason(scriptStart, off))
				scriptStart = -1
			}
		}

		if err := ctx.Err(); err != nil {
			return Score{}, err
		}
	}
}

// dangerousAttrs drains the attributes of the current tag
func dangerousAttrs(z *html.Tokenizer) bool {
	bad := false
	for {
		key, val, more := z.TagAttr()
		if strings.HasPrefix(string(key), "on") || scriptValue(string(val)) {
			bad = true
		}
		if !more {
			return bad
		}
	}
}

func scriptValue(v string) bool {
	v = strings.ToLower(strings.Join(strings.Fields(v), ""))
	return strings.Contains(v, "javascript:") ||
		strings.Contains(v, "vbscript:") ||
		strings.Contains(v, "data:text/html") ||
		strings.Contains(v, "<")
}
