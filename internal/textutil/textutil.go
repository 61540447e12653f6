// Package textutil holds the low-level text normalization shared by every
// extractor: locale-formatted number parsing, markup stripping, whitespace
// collapsing, and slug generation.
package textutil

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	tagRe     = regexp.MustCompile(`<[^>]*>`)
	nonSlugRe = regexp.MustCompile(`[^a-z0-9-]`)
	dashRe    = regexp.MustCompile(`-+`)
)

// CollapseSpace trims a string and collapses internal whitespace runs
// (including newlines and tabs) to single spaces.
func CollapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// StripTags removes markup tags and resolves character entities, then
// collapses whitespace. Works on fragments, not just full documents.
func StripTags(s string) string {
	s = tagRe.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return CollapseSpace(s)
}

// ParseAmount parses a locale-formatted amount string ("5,496,093",
// "-286,625", "$1,200", "(42)") into a float. Accounting parentheses
// negate. Returns (0, false) for anything non-numeric, including the
// empty string.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "%", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" || s == "-" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		f = -f
	}
	return f, true
}

// Slugify converts a string to a lowercase identifier containing only
// letters, digits, and single hyphens, with no leading or trailing hyphen.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlugRe.ReplaceAllString(s, "-")
	s = dashRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > 80 {
		s = strings.Trim(s[:80], "-")
	}
	return s
}
