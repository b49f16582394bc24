package catalog

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

// Resolve runs free text through the candidate extractor and searches the
// catalog for the top candidate, ranked by relevance. A message with no
// gear-like text yields an empty query and an empty first page; the
// repository is not queried.
func (s *Service) Resolve(ctx context.Context, input ResolveInput) (*ResolveResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	pageSize := clampPageSize(input.PageSize, s.cfg.MaxPageSize, s.cfg.DefaultPageSize)

	query, ok := s.extractor.ExtractTop(input.Message)
	if !ok {
		return &ResolveResult{
			Search: &SearchResult{
				Items:      []domain.CatalogItem{},
				TotalPages: 1,
				Page:       1,
				PageSize:   pageSize,
			},
		}, nil
	}

	s.log.DebugContext(ctx, "resolved candidate", slog.String("query", query))

	result, err := s.Search(ctx, SearchInput{
		Query:    query,
		Sort:     domain.SortRelevance,
		Page:     1,
		PageSize: pageSize,
		Filters:  input.Filters,
	})
	if err != nil {
		return nil, err
	}

	return &ResolveResult{Query: query, Search: result}, nil
}
