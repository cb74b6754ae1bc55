// Package slug derives URL-safe article slugs from titles.
package slug

import (
	"strings"
	"unicode"
)

// ToSlug maps a title to its URL form: whitespace becomes '_', letters,
// digits and the literal set -._~ pass through, everything else is dropped.
// Case is preserved and no length limit applies. Slugs are recomputed on
// every read and never stored, so two similar titles may collide; lookups
// take the first match in store order.
func ToSlug(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case unicode.IsSpace(r):
			b.WriteByte('_')
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case strings.ContainsRune("-._~", r):
			b.WriteRune(r)
		}
	}
	return b.String()
}
