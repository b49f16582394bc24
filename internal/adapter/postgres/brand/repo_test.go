package brand_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres/brand"
	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

// newRepo sets up an empty catalog and returns a ready Repo + pool.
func newRepo(t *testing.T) (*brand.Repo, *pgxpool.Pool) {
	t.Helper()
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateCatalog(t, pool)
	return brand.New(pool), pool
}

func TestRepo_List_Empty(t *testing.T) {
	repo, _ := newRepo(t)

	got, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("List should return an empty slice, not nil")
	}
	if len(got) != 0 {
		t.Errorf("expected no brands, got %v", got)
	}
}

func TestRepo_Upsert_AndList(t *testing.T) {
	repo, pool := newRepo(t)
	ctx := context.Background()

	testhelper.SeedBrand(t, pool, "Sony")

	inserted, err := repo.Upsert(ctx, domain.Brand{Name: "Canon", Slug: "canon"})
	if err != nil {
		t.Fatalf("Upsert: unexpected error: %v", err)
	}
	if !inserted {
		t.Error("expected first upsert to insert")
	}

	inserted, err = repo.Upsert(ctx, domain.Brand{Name: "OM System", Slug: "om-system"})
	if err != nil {
		t.Fatalf("Upsert: unexpected error: %v", err)
	}
	if !inserted {
		t.Error("expected upsert of a new slug to insert")
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}

	want := []domain.Brand{
		{Name: "Canon", Slug: "canon"},
		{Name: "OM System", Slug: "om-system"},
		{Name: "Sony", Slug: "sony"},
	}
	if len(got) != len(want) {
		t.Fatalf("List: got %d brands, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("brand[%d]: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRepo_Upsert_RenamesExistingSlug(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, domain.Brand{Name: "Voigtlander", Slug: "voigtlander"}); err != nil {
		t.Fatalf("Upsert: unexpected error: %v", err)
	}

	inserted, err := repo.Upsert(ctx, domain.Brand{Name: "Voigtländer", Slug: "voigtlander"})
	if err != nil {
		t.Fatalf("Upsert: unexpected error: %v", err)
	}
	if inserted {
		t.Error("expected second upsert to update")
	}

	got, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Voigtländer" {
		t.Errorf("expected renamed brand, got %v", got)
	}
}

func TestRepo_Upsert_CaseInsensitiveNameConflict(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, domain.Brand{Name: "Laowa", Slug: "laowa"}); err != nil {
		t.Fatalf("Upsert: unexpected error: %v", err)
	}

	_, err := repo.Upsert(ctx, domain.Brand{Name: "LAOWA", Slug: "laowa-optics"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got: %v", err)
	}
}
