package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen caps generated slugs to the slug column size.
const MaxLen = 255

var (
	nonAlnum  = regexp.MustCompile(`[^a-z0-9]+`)
	validSlug = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// FromTitle derives a URL slug: accents stripped, lowercased, runs of other
// characters collapsed to a single hyphen.
func FromTitle(s string) string {
	s = stripMarks(strings.TrimSpace(s))
	s = strings.ToLower(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > MaxLen {
		s = strings.TrimRight(s[:MaxLen], "-")
	}
	return s
}

// Valid reports whether s is made only of letters, digits, hyphens and
// underscores.
func Valid(s string) bool {
	return len(s) <= MaxLen && validSlug.MatchString(s)
}

func stripMarks(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
