package services

import (
	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer rewrites note descriptions before they are stored.
type HTMLSanitizer interface {
	Sanitize(html string) string
}

// PassthroughSanitizer keeps descriptions byte-for-byte.
type PassthroughSanitizer struct{}

func (PassthroughSanitizer) Sanitize(html string) string { return html }

// UGCSanitizer strips scripts, event handlers and other active content while
// keeping the formatting produced by a rich-text editor.
type UGCSanitizer struct {
	policy *bluemonday.Policy
}

func NewUGCSanitizer() *UGCSanitizer {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("style").OnElements("p", "span", "li", "ol", "ul", "h1", "h2", "h3", "strong", "em")
	policy.AllowStyles("color", "background-color", "text-align", "font-weight", "font-style", "text-decoration").Globally()
	return &UGCSanitizer{policy: policy}
}

func (s *UGCSanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
