// Package sanitize strips markup from user-supplied free text.
package sanitize

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes every HTML element and attribute from s and trims surrounding
// whitespace. The result is plain text: entities are decoded, so it must be
// escaped by whatever renders it.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Length counts characters the way Postgres VARCHAR(n) does.
func Length(s string) int {
	return utf8.RuneCountInString(s)
}
