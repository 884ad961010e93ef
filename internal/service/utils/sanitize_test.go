package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTitleStripsAllMarkup(t *testing.T) {
	s := NewTextSanitizer()

	assert.Equal(t, "hello world", s.Title("<b>hello</b> <script>alert(1)</script>world"))
	assert.Equal(t, "plain title", s.Title("  plain title  "))
	assert.Equal(t, `quotes & "such"`, s.Title(`quotes & "such"`))
}

func TestBodyKeepsUserContentTags(t *testing.T) {
	s := NewTextSanitizer()

	out := s.Body(`<p>hello</p><script>alert(1)</script>`)
	assert.Contains(t, out, "<p>hello</p>")
	assert.NotContains(t, out, "script")

	out = s.Body(`<a href="javascript:evil()">link</a>`)
	assert.NotContains(t, out, "javascript")
}

func TestEmptyInput(t *testing.T) {
	s := NewTextSanitizer()
	assert.Empty(t, s.Title(""))
	assert.Empty(t, s.Body("   "))
}
