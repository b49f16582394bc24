// Package brand implements the brand vocabulary repository using PostgreSQL.
package brand

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

// Repo provides brand persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new brand repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const listSQL = `
SELECT name, slug
FROM brands
ORDER BY name, slug`

const upsertSQL = `
INSERT INTO brands (name, slug)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
RETURNING (xmax = 0) AS inserted`

// List returns every brand ordered by name.
func (r *Repo) List(ctx context.Context) ([]domain.Brand, error) {
	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, listSQL)
	if err != nil {
		return nil, postgres.MapError(err, "brand", "list")
	}
	defer rows.Close()

	brands := make([]domain.Brand, 0)
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.Name, &b.Slug); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		brands = append(brands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "brand", "list")
	}

	return brands, nil
}

// Upsert inserts a brand or renames the existing brand with the same slug.
// It reports whether a new row was inserted. Two slugs whose names differ
// only in case violate the unique name index and yield domain.ErrAlreadyExists.
func (r *Repo) Upsert(ctx context.Context, b domain.Brand) (bool, error) {
	var inserted bool
	err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, upsertSQL, b.Name, b.Slug).Scan(&inserted)
	if err != nil {
		return false, postgres.MapError(err, "brand", b.Slug)
	}
	return inserted, nil
}
