// internal/app/system/htmlsanitize/htmlsanitize.go
//
// Package htmlsanitize cleans user-entered text before it is persisted.
// Names and titles are reduced to plain text; descriptions may keep a small
// set of formatting tags.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richOnce   sync.Once
	richPolicy *bluemonday.Policy
	strict     = bluemonday.StrictPolicy()
)

func rich() *bluemonday.Policy {
	richOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowElements("p", "br", "strong", "b", "em", "i", "u", "s", "code", "pre",
			"blockquote", "ul", "ol", "li", "h1", "h2", "h3", "h4")
		p.AllowStandardURLs()
		p.AllowAttrs("href").OnElements("a")
		p.RequireNoFollowOnLinks(true)
		richPolicy = p
	})
	return richPolicy
}

// Sanitize strips scripts, handlers and unknown tags from a description,
// keeping basic formatting and safe links.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if IsPlainText(s) {
		return s
	}
	return strings.TrimSpace(rich().Sanitize(s))
}

// Text removes all markup and returns the visible text. Entities are
// decoded so "A &amp; B" is stored as "A & B".
func Text(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !IsPlainText(s) {
		s = strict.Sanitize(s)
	}
	return strings.TrimSpace(html.UnescapeString(s))
}

// IsPlainText reports whether s contains nothing that looks like a tag.
func IsPlainText(s string) bool {
	i := strings.IndexByte(s, '<')
	if i < 0 {
		return true
	}
	rest := s[i+1:]
	if rest == "" {
		return true
	}
	c := rest[0]
	isTagStart := c == '/' || c == '!' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
	if !isTagStart {
		return IsPlainText(rest)
	}
	return !strings.Contains(rest, ">")
}
