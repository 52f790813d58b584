package ingest

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

const defaultFlag = false

// normalizeSpace collapses multiple spaces into one and trims the string.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// flagOr reads an optional source flag.
func flagOr(v RawFlag, def bool) bool {
	if !v.Set {
		return def
	}
	return v.Value
}

// listOrEmpty copies a source list so the normalized record never aliases
// decoder memory and never carries nil.
func listOrEmpty(l StringList) []string {
	if len(l) == 0 {
		return []string{}
	}
	return append([]string(nil), l...)
}

// nonEmpty keeps the strings that carry text.
func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// looksLikeHTML is a cheap check for markup in free-text fields.
func looksLikeHTML(s string) bool {
	i := strings.IndexByte(s, '<')
	return i >= 0 && strings.IndexByte(s[i:], '>') > 0
}

// sanitizeHTML uses bluemonday to strip unsafe tags and attributes from HTML.
func sanitizeHTML(s string) string {
	return bluemonday.UGCPolicy().Sanitize(s)
}

// HTMLToText converts HTML to plain text, collapsing whitespace.
func HTMLToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return normalizeSpace(doc.Text())
}

// cleanDescription flattens marked-up descriptions to text. Plain text is
// returned untouched.
func cleanDescription(s string) string {
	if !looksLikeHTML(s) {
		return s
	}
	return HTMLToText(sanitizeHTML(s))
}
