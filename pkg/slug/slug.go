// Package slug turns free text into URL-safe identifiers.
package slug

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxLength bounds generated slugs, suffix included.
const MaxLength = 200

var (
	rePunct     = regexp.MustCompile(`[^a-z0-9_\s-]+`)
	reSeparator = regexp.MustCompile(`[\s-]+`)
)

// Make lowercases s, strips diacritics, drops punctuation and collapses
// whitespace and hyphen runs into single hyphens. It returns "" when nothing
// usable remains.
func Make(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}

	out := rePunct.ReplaceAllString(b.String(), "")
	out = reSeparator.ReplaceAllString(out, "-")
	out = strings.Trim(out, "-")
	return truncate(out, MaxLength)
}

// WithSuffix appends -n to base, trimming base so the result fits MaxLength.
func WithSuffix(base string, n int) string {
	suffix := fmt.Sprintf("-%d", n)
	return truncate(base, MaxLength-len(suffix)) + suffix
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	rs := []rune(s)
	return strings.Trim(string(rs[:max]), "-")
}
