package domain

import (
	"strings"
	"unicode"
)

// SortMode selects the ordering of catalog search results.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortName      SortMode = "name"
	SortNewest    SortMode = "newest"
)

func (s SortMode) String() string { return string(s) }

func (s SortMode) IsValid() bool {
	switch s {
	case SortRelevance, SortName, SortNewest:
		return true
	}
	return false
}

// Similarity scores two strings in [0, 1]; higher means more alike.
type Similarity interface {
	Similarity(a, b string) float64
}

// SimilarityFunc adapts a plain function to Similarity.
type SimilarityFunc func(a, b string) float64

func (f SimilarityFunc) Similarity(a, b string) float64 { return f(a, b) }

// MinStrongTokenLen is the minimum length of a query token that may be used
// for direct substring filtering.
const MinStrongTokenLen = 3

// StrongTokens splits a raw query on whitespace and underscores (hyphens are
// kept so "70-200" stays whole) and returns the tokens that contain a letter
// and are at least MinStrongTokenLen runes long.
func StrongTokens(query string) []string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_'
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if isStrongToken(f) {
			tokens = append(tokens, strings.ToLower(f))
		}
	}
	return tokens
}

func isStrongToken(tok string) bool {
	if len([]rune(tok)) < MinStrongTokenLen {
		return false
	}
	return strings.IndexFunc(tok, unicode.IsLetter) >= 0
}

// CatalogFilter holds the optional structured constraints of a search.
// Nil fields impose no constraint.
type CatalogFilter struct {
	Brand         *string // substring, case-insensitive
	Mount         *string // substring, case-insensitive
	GearType      *GearType
	PriceMinCents *int64
	PriceMaxCents *int64
}

// Accepts reports whether the item satisfies every set constraint.
func (f CatalogFilter) Accepts(item *CatalogItem) bool {
	if f.Brand != nil && !containsFold(item.Brand(), *f.Brand) {
		return false
	}
	if f.Mount != nil {
		if item.MountValue == nil || !containsFold(*item.MountValue, *f.Mount) {
			return false
		}
	}
	if f.GearType != nil && item.GearType != *f.GearType {
		return false
	}
	if f.PriceMinCents != nil || f.PriceMaxCents != nil {
		if item.PriceCents == nil {
			return false
		}
		if f.PriceMinCents != nil && *item.PriceCents < *f.PriceMinCents {
			return false
		}
		if f.PriceMaxCents != nil && *item.PriceCents > *f.PriceMaxCents {
			return false
		}
	}
	return true
}

// MatchThresholds are the minimum similarity scores for the fuzzy branches
// of the matching predicate.
type MatchThresholds struct {
	BrandAgnostic float64
	Normalized    float64
}

// DefaultMatchThresholds returns the tuned fuzzy-match thresholds.
func DefaultMatchThresholds() MatchThresholds {
	return MatchThresholds{BrandAgnostic: 0.4, Normalized: 0.5}
}

// CatalogSearch is a fully composed catalog query: predicate inputs,
// filters, ordering and the page window. Repositories execute it; the
// methods below are the reference semantics for the matching predicate and
// the relevance expression.
type CatalogSearch struct {
	// Query is the raw query after NormalizeText. Empty means "no predicate".
	Query        string
	Normalized   string
	StrongTokens []string
	Thresholds   MatchThresholds
	Signals      []RelevanceSignal
	Filter       CatalogFilter
	Sort         SortMode
	Offset       int
	Limit        int
}

// NewCatalogSearch composes the query-derived fields of a search.
func NewCatalogSearch(query string, thresholds MatchThresholds, signals []RelevanceSignal) CatalogSearch {
	q := NormalizeText(query)
	return CatalogSearch{
		Query:        q,
		Normalized:   NormalizeSearch(q),
		StrongTokens: StrongTokens(q),
		Thresholds:   thresholds,
		Signals:      signals,
	}
}

// HasQuery reports whether the search carries a text predicate. A query made
// only of separators normalizes to "" and counts as no query.
func (s CatalogSearch) HasQuery() bool {
	return s.Normalized != ""
}

// RankByRelevance reports whether results are ordered by relevance score.
func (s CatalogSearch) RankByRelevance() bool {
	return s.Sort == SortRelevance && s.HasQuery() && len(s.Signals) > 0
}

// Matches applies the text predicate and the filters to one item.
func (s CatalogSearch) Matches(item *CatalogItem, sim Similarity) bool {
	if !s.Filter.Accepts(item) {
		return false
	}
	if !s.HasQuery() {
		return true
	}
	return s.matchesQuery(item, sim)
}

func (s CatalogSearch) matchesQuery(item *CatalogItem, sim Similarity) bool {
	name := strings.ToLower(item.SearchName)

	switch n := len(s.StrongTokens); {
	case n >= 2:
		hits := 0
		for _, tok := range s.StrongTokens {
			if strings.Contains(name, tok) {
				hits++
			}
		}
		if hits >= 2 {
			return true
		}
	case n == 1:
		if strings.Contains(name, s.StrongTokens[0]) {
			return true
		}
	}

	norm := NormalizeSearch(item.SearchName)
	agnostic := NormalizeBrandAgnostic(item.SearchName, item.Brand())

	if strings.Contains(norm, s.Normalized) || strings.Contains(agnostic, s.Normalized) {
		return true
	}
	if sim.Similarity(agnostic, s.Normalized) > s.Thresholds.BrandAgnostic {
		return true
	}
	return sim.Similarity(norm, s.Normalized) > s.Thresholds.Normalized
}

// Relevance evaluates every signal independently and returns the maximum.
func (s CatalogSearch) Relevance(item *CatalogItem, sim Similarity) float64 {
	in := signalInput{
		raw:      strings.ToLower(item.SearchName),
		norm:     NormalizeSearch(item.SearchName),
		agnostic: NormalizeBrandAgnostic(item.SearchName, item.Brand()),
		query:    s.Query,
		normQ:    s.Normalized,
	}

	best := 0.0
	for _, sig := range s.Signals {
		if v := sig.score(in, sim); v > best {
			best = v
		}
	}
	return best
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
