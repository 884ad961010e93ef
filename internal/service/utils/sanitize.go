package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer strips markup from user-submitted text before it is
// validated and stored. Titles are reduced to plain text; bodies keep
// the tags allowed for user generated content.
type TextSanitizer struct {
	title *bluemonday.Policy
	body  *bluemonday.Policy
}

func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{
		title: bluemonday.StrictPolicy(),
		body:  bluemonday.UGCPolicy(),
	}
}

func (s *TextSanitizer) Title(title string) string {
	// StrictPolicy escapes entities; unescape so plain titles round-trip
	return strings.TrimSpace(html.UnescapeString(s.title.Sanitize(title)))
}

func (s *TextSanitizer) Body(body string) string {
	return strings.TrimSpace(s.body.Sanitize(body))
}
