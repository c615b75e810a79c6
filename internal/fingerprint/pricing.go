package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"strings"
	"unicode"
)

// Key identifies a pricing lookup. Two keys that describe the same logical
// card lookup must produce the same fingerprint regardless of field casing,
// stray whitespace, or characteristic ordering.
type Key struct {
	Name            string
	SetName         string
	Number          string
	Finish          string
	Language        string
	Characteristics []string
}

// Fingerprint returns the deterministic cache key for this lookup.
// Fields are normalized and joined in a fixed canonical order before hashing,
// so logically equal requests always fingerprint identically.
func (k Key) Fingerprint() string {
	language := normalizeField(k.Language)
	if language == "" {
		language = "en"
	}

	characteristics := make([]string, 0, len(k.Characteristics))
	for _, c := range k.Characteristics {
		if n := normalizeField(c); n != "" {
			characteristics = append(characteristics, n)
		}
	}
	slices.Sort(characteristics)

	parts := []string{
		normalizeField(k.Name),
		normalizeField(k.SetName),
		normalizeField(k.Number),
		normalizeField(k.Finish),
		language,
		strings.Join(characteristics, ","),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// normalizeField lowercases, strips punctuation, and collapses whitespace so
// cosmetic differences in upstream data never split the cache.
func normalizeField(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Punctuation and symbols are dropped entirely.
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
