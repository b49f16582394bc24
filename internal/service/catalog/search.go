package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

// Search matches the query against the catalog and returns one page of
// results. Count and page are read concurrently; if either read fails the
// whole call fails with domain.ErrSearchFailed.
func (s *Service) Search(ctx context.Context, input SearchInput) (*SearchResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	search := s.compose(input)
	page := max(input.Page, 1)

	var (
		items []domain.CatalogItem
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = s.items.Count(gctx, search)
		if err != nil {
			return fmt.Errorf("count: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		items, err = s.items.Find(gctx, search)
		if err != nil {
			return fmt.Errorf("find: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.ErrorContext(ctx, "catalog search failed",
			slog.String("query", search.Query),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("%w: %w", domain.ErrSearchFailed, err)
	}

	if items == nil {
		items = []domain.CatalogItem{}
	}

	return &SearchResult{
		Items:      items,
		Total:      total,
		TotalPages: totalPages(total, search.Limit),
		Page:       page,
		PageSize:   search.Limit,
	}, nil
}

// compose turns validated input into a repository query.
func (s *Service) compose(input SearchInput) domain.CatalogSearch {
	search := domain.NewCatalogSearch(input.Query, s.cfg.Thresholds, s.signals)

	search.Sort = input.Sort
	if search.Sort == "" {
		search.Sort = domain.SortRelevance
	}
	search.Filter = input.Filters.toDomain()

	pageSize := clampPageSize(input.PageSize, s.cfg.MaxPageSize, s.cfg.DefaultPageSize)
	page := max(input.Page, 1)
	search.Limit = pageSize
	search.Offset = pageOffset(page, pageSize)

	return search
}

// pageOffset saturates at math.MaxInt, so an absurd page number reads past
// the end instead of wrapping around.
func pageOffset(page, pageSize int) int {
	if pageSize <= 0 || page <= 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}
