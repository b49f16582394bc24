// Package memory implements an in-process catalog repository. It evaluates
// domain.CatalogSearch with the reference predicate and relevance semantics
// and backs offline search (gearctl search --catalog) and the memory server
// backend.
package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
	"github.com/heartmarshall/gearcatalog-backend/internal/similarity"
)

// CatalogRepo holds catalog items in memory. It is safe for concurrent use.
type CatalogRepo struct {
	mu     sync.RWMutex
	items  []domain.CatalogItem
	bySlug map[string]int
	sim    domain.Similarity
}

// NewCatalogRepo creates an empty repository. A nil sim selects the trigram
// similarity used by the PostgreSQL repository.
func NewCatalogRepo(sim domain.Similarity) *CatalogRepo {
	if sim == nil {
		sim = similarity.Trigram{}
	}
	return &CatalogRepo{
		bySlug: make(map[string]int),
		sim:    sim,
	}
}

// Put stores items, replacing any stored item with the same slug. Items
// without an id get a new one; a replaced item keeps its stored id.
func (r *CatalogRepo) Put(items ...domain.CatalogItem) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		item.Relevance = nil
		if i, ok := r.bySlug[item.Slug]; ok {
			item.ID = r.items[i].ID
			r.items[i] = item
			continue
		}
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		r.bySlug[item.Slug] = len(r.items)
		r.items = append(r.items, item)
	}
}

// Len returns the number of stored items.
func (r *CatalogRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items)
}

// Find returns one page of items matching the search, ordered by its sort
// mode. Relevance is set on each item when the search ranks by relevance.
func (r *CatalogRepo) Find(ctx context.Context, search domain.CatalogSearch) ([]domain.CatalogItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := r.match(search)

	ranked := search.RankByRelevance()
	if ranked {
		for i := range matched {
			score := search.Relevance(&matched[i], r.sim)
			matched[i].Relevance = &score
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return less(search.Sort, ranked, &matched[i], &matched[j])
	})

	start := min(max(search.Offset, 0), len(matched))
	end := len(matched)
	if search.Limit > 0 {
		end = min(start+search.Limit, end)
	}

	page := make([]domain.CatalogItem, end-start)
	copy(page, matched[start:end])
	return page, nil
}

// Count returns the number of items matching the search predicate and filters.
func (r *CatalogRepo) Count(ctx context.Context, search domain.CatalogSearch) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(r.match(search)), nil
}

// match returns copies of the matching items.
func (r *CatalogRepo) match(search domain.CatalogSearch) []domain.CatalogItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CatalogItem, 0)
	for i := range r.items {
		if search.Matches(&r.items[i], r.sim) {
			out = append(out, r.items[i])
		}
	}
	return out
}

// less mirrors the ORDER BY of the PostgreSQL repository.
func less(mode domain.SortMode, ranked bool, a, b *domain.CatalogItem) bool {
	switch {
	case ranked:
		if *a.Relevance != *b.Relevance {
			return *a.Relevance > *b.Relevance
		}
	case mode == domain.SortNewest:
		switch {
		case a.ReleaseDate == nil && b.ReleaseDate != nil:
			return false
		case a.ReleaseDate != nil && b.ReleaseDate == nil:
			return true
		case a.ReleaseDate != nil && !a.ReleaseDate.Equal(*b.ReleaseDate):
			return a.ReleaseDate.After(*b.ReleaseDate)
		}
	}

	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c < 0
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}
