// Package similarity provides in-process string similarity scores in [0, 1]
// for repositories that cannot delegate to the database.
package similarity

import (
	"strings"
	"unicode"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

// Trigram scores strings the way PostgreSQL pg_trgm's similarity() does:
// each alphanumeric word is lowercased and padded with two leading and one
// trailing space, split into 3-rune grams, and the score is
// |common| / |union| of the two gram sets.
type Trigram struct{}

var _ domain.Similarity = Trigram{}

func (Trigram) Similarity(a, b string) float64 {
	ga, gb := trigrams(a), trigrams(b)
	if len(ga) == 0 || len(gb) == 0 {
		return 0
	}

	common := 0
	for g := range ga {
		if _, ok := gb[g]; ok {
			common++
		}
	}
	union := len(ga) + len(gb) - common
	return float64(common) / float64(union)
}

func trigrams(s string) map[string]struct{} {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	set := make(map[string]struct{}, len(s)+2)
	for _, w := range words {
		padded := []rune("  " + w + " ")
		for i := 0; i+3 <= len(padded); i++ {
			set[string(padded[i:i+3])] = struct{}{}
		}
	}
	return set
}
