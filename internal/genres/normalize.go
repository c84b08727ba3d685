// Package genres owns the ordered genre → color registry and genre name normalization.
package genres

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalize trims and title-cases a genre name.
// "  science fiction " -> "Science Fiction".
func Normalize(genre string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(genre))
}

// Matches reports whether two genre names are equal ignoring case and surrounding space
func Matches(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
