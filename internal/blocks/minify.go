package blocks

import (
	"regexp"
	"strings"
)

var (
	whitespaceRun      = regexp.MustCompile(`\s+`)
	whitespaceBetween  = regexp.MustCompile(`>\s+<`)
	cssComment         = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	cssPunctuationGaps = regexp.MustCompile(`\s*([{}:;,])\s*`)
)

// MinifyHTML collapses whitespace runs and removes whitespace between adjacent tags.
// It is not grammar aware: repeated spaces inside attribute values are collapsed too.
func MinifyHTML(html string) string {
	html = whitespaceRun.ReplaceAllString(html, " ")
	html = whitespaceBetween.ReplaceAllString(html, "><")
	return strings.TrimSpace(html)
}

// MinifyCSS strips comments, collapses whitespace and tightens punctuation.
// String literals are not recognised, so comment-like text inside values is removed.
func MinifyCSS(css string) string {
	css = cssComment.ReplaceAllString(css, "")
	css = whitespaceRun.ReplaceAllString(css, " ")
	css = cssPunctuationGaps.ReplaceAllString(css, "$1")
	return strings.TrimSpace(css)
}
