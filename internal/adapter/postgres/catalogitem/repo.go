// Package catalogitem implements the catalog item repository using PostgreSQL.
// Search queries are composed with squirrel from a domain.CatalogSearch; the
// fuzzy branches of the predicate and the relevance score use pg_trgm's
// similarity().
package catalogitem

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

// Repo provides catalog item persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog item repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// Find returns one page of items matching the search, ordered by its sort
// mode. Relevance is set on each item when the search ranks by relevance.
func (r *Repo) Find(ctx context.Context, search domain.CatalogSearch) ([]domain.CatalogItem, error) {
	query, args, err := buildFind(search)
	if err != nil {
		return nil, fmt.Errorf("build find query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "catalog search", search.Query)
	}
	defer rows.Close()

	ranked := search.RankByRelevance()
	items := make([]domain.CatalogItem, 0, search.Limit)
	for rows.Next() {
		item, err := scanItem(rows, ranked)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "catalog search", search.Query)
	}

	return items, nil
}

// Count returns the number of items matching the search predicate and filters.
func (r *Repo) Count(ctx context.Context, search domain.CatalogSearch) (int, error) {
	query, args, err := buildCount(search)
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, postgres.MapError(err, "catalog count", search.Query)
	}
	return total, nil
}

func scanItem(rows pgx.Rows, ranked bool) (domain.CatalogItem, error) {
	var (
		item     domain.CatalogItem
		gearType string
		score    float64
	)

	dest := []any{
		&item.ID, &item.Name, &item.Slug, &item.SearchName, &item.BrandName,
		&item.MountValue, &gearType, &item.PriceCents, &item.ThumbnailURL,
		&item.ReleaseDate, &item.CreatedAt, &item.UpdatedAt,
	}
	if ranked {
		dest = append(dest, &score)
	}

	if err := rows.Scan(dest...); err != nil {
		return domain.CatalogItem{}, err
	}

	item.GearType = domain.GearType(gearType)
	if ranked {
		item.Relevance = &score
	}
	return item, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

const upsertSQL = `
INSERT INTO catalog_items (
    id, name, slug, search_name, brand_id, mount_value,
    gear_type, price_cents, thumbnail_url, release_date
)
VALUES (
    $1, $2, $3, $4, (SELECT id FROM brands WHERE lower(name) = lower($5)), $6,
    $7, $8, $9, $10
)
ON CONFLICT (slug) DO UPDATE SET
    name          = EXCLUDED.name,
    search_name   = EXCLUDED.search_name,
    brand_id      = EXCLUDED.brand_id,
    mount_value   = EXCLUDED.mount_value,
    gear_type     = EXCLUDED.gear_type,
    price_cents   = EXCLUDED.price_cents,
    thumbnail_url = EXCLUDED.thumbnail_url,
    release_date  = EXCLUDED.release_date,
    updated_at    = now()
RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`

// Upsert inserts an item or updates the existing item with the same slug.
// The brand is resolved by case-insensitive name and must already exist to
// be linked. ID, CreatedAt and UpdatedAt are filled from the stored row.
// It reports whether a new row was inserted.
func (r *Repo) Upsert(ctx context.Context, item *domain.CatalogItem) (bool, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}

	var inserted bool
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, upsertSQL,
		item.ID, item.Name, item.Slug, item.SearchName, item.BrandName, item.MountValue,
		string(item.GearType), item.PriceCents, item.ThumbnailURL, item.ReleaseDate,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt, &inserted)
	if err != nil {
		return false, postgres.MapError(err, "catalog item", item.Slug)
	}

	return inserted, nil
}
