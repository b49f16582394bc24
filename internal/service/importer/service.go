// Package importer loads parsed catalog files into the catalog store.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/gearcatalog-backend/internal/catalogfile"
	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

type brandWriter interface {
	Upsert(ctx context.Context, brand domain.Brand) (bool, error)
}

type itemWriter interface {
	Upsert(ctx context.Context, item *domain.CatalogItem) (bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service imports catalogs.
type Service struct {
	log    *slog.Logger
	brands brandWriter
	items  itemWriter
	tx     txManager
}

// NewService creates a new importer service.
func NewService(
	logger *slog.Logger,
	brands brandWriter,
	items itemWriter,
	tx txManager,
) *Service {
	return &Service{
		log:    logger.With("service", "importer"),
		brands: brands,
		items:  items,
		tx:     tx,
	}
}

// Result counts the rows written by one import.
type Result struct {
	BrandsInserted int
	BrandsUpdated  int
	ItemsInserted  int
	ItemsUpdated   int
}

// Import upserts the catalog's brands, then its items, in one transaction.
// Items are matched by slug. Nothing is written if any upsert fails.
func (s *Service) Import(ctx context.Context, cat *catalogfile.Catalog) (*Result, error) {
	start := time.Now()
	var res Result

	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, b := range cat.Brands {
			inserted, err := s.brands.Upsert(txCtx, b)
			if err != nil {
				return fmt.Errorf("upsert brand %q: %w", b.Name, err)
			}
			count(inserted, &res.BrandsInserted, &res.BrandsUpdated)
		}

		for i := range cat.Items {
			item := cat.Items[i]
			inserted, err := s.items.Upsert(txCtx, &item)
			if err != nil {
				return fmt.Errorf("upsert item %q: %w", item.Slug, err)
			}
			count(inserted, &res.ItemsInserted, &res.ItemsUpdated)
		}
		return nil
	})
	if err != nil {
		s.log.ErrorContext(ctx, "catalog import failed", slog.String("error", err.Error()))
		return nil, err
	}

	s.log.InfoContext(ctx, "catalog imported",
		slog.Int("brands_inserted", res.BrandsInserted),
		slog.Int("brands_updated", res.BrandsUpdated),
		slog.Int("items_inserted", res.ItemsInserted),
		slog.Int("items_updated", res.ItemsUpdated),
		slog.Duration("duration", time.Since(start)),
	)
	return &res, nil
}

func count(inserted bool, ins, upd *int) {
	if inserted {
		*ins++
	} else {
		*upd++
	}
}
