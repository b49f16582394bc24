package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// TruncateCatalog removes every brand and catalog item.
func TruncateCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), `TRUNCATE catalog_items, brands`); err != nil {
		t.Fatalf("testhelper: truncate catalog: %v", err)
	}
}

// SeedBrand inserts a brand and returns its id.
func SeedBrand(t *testing.T, pool *pgxpool.Pool, name string) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO brands (name, slug) VALUES ($1, $2)
		 ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		name, slugOf(name),
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: seed brand %q: %v", name, err)
	}
	return id
}

// ItemOption customizes a seeded catalog item.
type ItemOption func(*domain.CatalogItem)

func WithMount(mount string) ItemOption {
	return func(i *domain.CatalogItem) { i.MountValue = &mount }
}

func WithPriceCents(cents int64) ItemOption {
	return func(i *domain.CatalogItem) { i.PriceCents = &cents }
}

func WithGearType(g domain.GearType) ItemOption {
	return func(i *domain.CatalogItem) { i.GearType = g }
}

func WithReleaseDate(d time.Time) ItemOption {
	return func(i *domain.CatalogItem) { i.ReleaseDate = &d }
}

func WithSearchName(s string) ItemOption {
	return func(i *domain.CatalogItem) { i.SearchName = s }
}

// SeedItem inserts a catalog item under brand (empty for none). SearchName
// defaults to name.
func SeedItem(t *testing.T, pool *pgxpool.Pool, brand, name string, opts ...ItemOption) domain.CatalogItem {
	t.Helper()
	ctx := context.Background()

	item := domain.CatalogItem{
		ID:         uuid.New(),
		Name:       name,
		Slug:       slugOf(name) + "-" + uniqueSuffix(),
		SearchName: name,
		GearType:   domain.GearTypeCamera,
	}
	for _, opt := range opts {
		opt(&item)
	}

	var brandID *uuid.UUID
	if brand != "" {
		id := SeedBrand(t, pool, brand)
		brandID = &id
		item.BrandName = &brand
	}

	err := pool.QueryRow(ctx,
		`INSERT INTO catalog_items
		     (id, name, slug, search_name, brand_id, mount_value, gear_type, price_cents, release_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at, updated_at`,
		item.ID, item.Name, item.Slug, item.SearchName, brandID,
		item.MountValue, string(item.GearType), item.PriceCents, item.ReleaseDate,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		t.Fatalf("testhelper: seed item %q: %v", name, err)
	}
	return item
}

func slugOf(s string) string {
	out := make([]rune, 0, len(s))
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
			dash = false
		default:
			if !dash && len(out) > 0 {
				out = append(out, '-')
				dash = true
			}
		}
	}
	if dash {
		out = out[:len(out)-1]
	}
	return string(out)
}
