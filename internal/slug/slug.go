// Package slug derives URL-safe identifiers from category titles.
package slug

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	invalidRe    = regexp.MustCompile(`[^\w-]`)
	hyphenRunRe  = regexp.MustCompile(`-{2,}`)
)

// Make converts text into a slug: lowercased, whitespace runs replaced by a
// single hyphen, everything that is not a word character or hyphen stripped,
// repeated hyphens collapsed, leading and trailing hyphens trimmed.
//
// Make never fails. It can return an empty string when the input has no
// retained characters; callers that need sibling uniqueness must treat an
// empty slug as a collision risk.
func Make(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = invalidRe.ReplaceAllString(s, "")
	s = hyphenRunRe.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
