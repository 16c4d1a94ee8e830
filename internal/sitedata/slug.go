package sitedata

import (
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Slugify turns a document file name into a URL segment: the extension is
// dropped, diacritics are folded ("Amélie" → "amelie"), letters are lowered
// and every run of other characters becomes a single "-".
func Slugify(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	// Chained transformers keep state, so one per call.
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, base)
	if err != nil {
		folded = base
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return strings.ToLower(base)
	}
	return slug
}
