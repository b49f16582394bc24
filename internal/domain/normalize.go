package domain

import (
	"strings"
	"unicode"
)

// NormalizeText prepares free text for storage and comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses runs of whitespace into a single space
//
// Punctuation is preserved so "70-200" and "f/2.8" survive intact.
func NormalizeText(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	prevSpace := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteByte(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeSearch is the comparison form of a model name: lowercase with all
// whitespace, underscores, periods and hyphens removed, so "Z6 III", "z6-iii"
// and "Z6III" collapse to "z6iii".
//
// It mirrors the search_norm generated column in the catalog_items table.
func NormalizeSearch(s string) string {
	return strings.Map(func(r rune) rune {
		if isSearchSeparator(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, s)
}

// NormalizeBrandAgnostic removes the item's own brand (case-insensitive,
// as a literal substring) before applying NormalizeSearch. An empty brand
// leaves the name untouched.
func NormalizeBrandAgnostic(searchName, brand string) string {
	lowered := strings.ToLower(searchName)
	if brand != "" {
		lowered = strings.ReplaceAll(lowered, strings.ToLower(brand), "")
	}
	return NormalizeSearch(lowered)
}

func isSearchSeparator(r rune) bool {
	return unicode.IsSpace(r) || r == '_' || r == '.' || r == '-'
}
