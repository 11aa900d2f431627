// Package names normalizes entity names for matching across systems.
package names

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Clean returns name in NFC form with surrounding and repeated inner
// whitespace collapsed.
func Clean(name string) string {
	return strings.Join(strings.Fields(norm.NFC.String(name)), " ")
}

// Key returns a matching key for name: cleaned, accents stripped and case folded.
// "Épicerie " and "epicerie" share a key.
func Key(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, Clean(name))
	if err != nil {
		stripped = Clean(name)
	}
	return cases.Fold().String(stripped)
}

// Equal reports whether a and b name the same entity.
func Equal(a, b string) bool {
	return Key(a) == Key(b)
}
