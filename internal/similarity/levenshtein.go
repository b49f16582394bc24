package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

// Levenshtein scores strings as 1 - editDistance / max(len(a), len(b)),
// case-insensitively and in runes.
type Levenshtein struct{}

var _ domain.Similarity = Levenshtein{}

func (Levenshtein) Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// ByName returns the similarity implementation registered under name
// ("trigram" or "levenshtein").
func ByName(name string) (domain.Similarity, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "trigram":
		return Trigram{}, true
	case "levenshtein":
		return Levenshtein{}, true
	}
	return nil, false
}
