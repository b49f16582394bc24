package catalog

import "github.com/heartmarshall/gearcatalog-backend/internal/domain"

// SearchResult is one page of catalog search results.
type SearchResult struct {
	Items      []domain.CatalogItem
	Total      int
	TotalPages int
	Page       int
	PageSize   int
}

// ResolveResult pairs the extracted query with its search result. Query is
// empty when the message held no gear-like text.
type ResolveResult struct {
	Query  string
	Search *SearchResult
}

// totalPages is never less than 1, even for an empty result.
func totalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
