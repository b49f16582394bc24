package extractor

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

//go:embed brands.yaml
var defaultBrandsYAML []byte

// minBrandWordLen is the shortest single word of a multi-word brand that is
// recognized on its own ("om" from "OM System" is not).
const minBrandWordLen = 3

// genericBrandWords never identify a brand by themselves.
var genericBrandWords = map[string]struct{}{
	"system": {}, "design": {}, "optics": {}, "one": {},
	"digital": {}, "imaging": {}, "photo": {}, "camera": {},
}

// Vocabulary is an immutable brand lookup. It holds the lowercased names,
// slugs and their words, plus a compact form with every non-alphanumeric
// rune removed so "Fuji-film" and "FUJIFILM" resolve to the same brand.
type Vocabulary struct {
	words   map[string]struct{}
	compact map[string]struct{}
}

// NewVocabulary builds a Vocabulary from brand entries.
func NewVocabulary(brands []domain.Brand) *Vocabulary {
	v := &Vocabulary{
		words:   make(map[string]struct{}, len(brands)*3),
		compact: make(map[string]struct{}, len(brands)*3),
	}
	for _, b := range brands {
		for _, form := range []string{b.Name, b.Slug} {
			v.add(form)
			for _, w := range splitBrandWords(form) {
				if len([]rune(w)) < minBrandWordLen || isStopword(w, defaultStopwords) {
					continue
				}
				if _, generic := genericBrandWords[w]; generic {
					continue
				}
				v.add(w)
			}
		}
	}
	return v
}

func (v *Vocabulary) add(form string) {
	lower := strings.ToLower(strings.TrimSpace(form))
	if lower == "" {
		return
	}
	v.words[lower] = struct{}{}
	if c := compactForm(lower); c != "" {
		v.compact[c] = struct{}{}
	}
}

// Len returns the number of distinct lowercase forms.
func (v *Vocabulary) Len() int { return len(v.words) }

// Contains reports whether a single token names a brand.
func (v *Vocabulary) Contains(token string) bool {
	lower := strings.ToLower(token)
	if _, ok := v.words[lower]; ok {
		return true
	}
	c := compactForm(lower)
	if c == "" {
		return false
	}
	_, ok := v.compact[c]
	return ok
}

// Detect returns the first token, as written, that names a brand.
func (v *Vocabulary) Detect(tokens []string) (string, bool) {
	for _, tok := range tokens {
		if v.Contains(tok) {
			return tok, true
		}
	}
	return "", false
}

// DefaultVocabulary returns the vocabulary built from the embedded brand list.
// It is built once on first use.
func DefaultVocabulary() *Vocabulary {
	return defaultVocabulary()
}

var defaultVocabulary = sync.OnceValue(func() *Vocabulary {
	brands, err := ParseBrands(bytes.NewReader(defaultBrandsYAML))
	if err != nil {
		panic(fmt.Sprintf("extractor: embedded brands.yaml: %v", err))
	}
	return NewVocabulary(brands)
})

// ParseBrands decodes a YAML list of {name, slug} entries. Entries without
// a name are skipped; a missing slug is derived from the name.
func ParseBrands(r io.Reader) ([]domain.Brand, error) {
	var raw []domain.Brand
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return []domain.Brand{}, nil
		}
		return nil, fmt.Errorf("decode brands: %w", err)
	}

	brands := make([]domain.Brand, 0, len(raw))
	for _, b := range raw {
		b.Name = strings.TrimSpace(b.Name)
		if b.Name == "" {
			continue
		}
		if b.Slug == "" {
			b.Slug = Slugify(b.Name)
		}
		brands = append(brands, b)
	}
	return brands, nil
}

// LoadBrandsFile reads a brand list from a YAML file.
func LoadBrandsFile(path string) ([]domain.Brand, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open brands file: %w", err)
	}
	defer f.Close()

	return ParseBrands(f)
}

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	parts := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(parts, "-")
}

func splitBrandWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == '-' || r == '_'
	})
}

func compactForm(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}
