package catalogitem_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres/catalogitem"
	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

func setup(t *testing.T) (*catalogitem.Repo, func(brand, name string, opts ...testhelper.ItemOption) domain.CatalogItem) {
	t.Helper()

	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateCatalog(t, pool)

	seed := func(brand, name string, opts ...testhelper.ItemOption) domain.CatalogItem {
		return testhelper.SeedItem(t, pool, brand, name, opts...)
	}
	return catalogitem.New(pool), seed
}

func search(query string, sort domain.SortMode) domain.CatalogSearch {
	s := domain.NewCatalogSearch(query, domain.DefaultMatchThresholds(), domain.DefaultRelevanceWeights().Signals())
	s.Sort = sort
	s.Limit = 20
	return s
}

func names(items []domain.CatalogItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestRepo_Find_GenerationSuffixScenario(t *testing.T) {
	repo, seed := setup(t)
	ctx := context.Background()

	seed("Nikon", "Nikon Z6 III")
	seed("Nikon", "Nikon Z6II")
	seed("Sony", "Sony a7 IV")

	s := search("z6 iii", domain.SortRelevance)

	items, err := repo.Find(ctx, s)
	require.NoError(t, err)
	require.Equal(t, []string{"Nikon Z6 III", "Nikon Z6II"}, names(items))

	require.NotNil(t, items[0].Relevance)
	require.NotNil(t, items[1].Relevance)
	assert.InDelta(t, 2.0, *items[0].Relevance, 1e-6)
	assert.Less(t, *items[1].Relevance, *items[0].Relevance)
	assert.Equal(t, "Nikon", items[0].Brand())

	total, err := repo.Count(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestRepo_Find_BrandAgnosticSubstring(t *testing.T) {
	repo, seed := setup(t)

	seed("Nikon", "Z6 Nikon III")

	items, err := repo.Find(context.Background(), search("z6iii", domain.SortRelevance))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.InDelta(t, 1.0, *items[0].Relevance, 1e-6)
}

func TestRepo_Find_ExactBeatsFuzzy(t *testing.T) {
	repo, seed := setup(t)

	seed("Canon", "Canon EOS R6 Mark II")
	seed("Canon", "Canon EOS R6")

	items, err := repo.Find(context.Background(), search("eos r6 mark ii", domain.SortRelevance))
	require.NoError(t, err)
	require.NotEmpty(t, items)
	assert.Equal(t, "Canon EOS R6 Mark II", items[0].Name)
}

func TestRepo_Find_NumericQueryMatchesNormalizedForm(t *testing.T) {
	repo, seed := setup(t)

	seed("Sigma", "Sigma 70mm F2.8 DG DN Art")
	seed("Sony", "Sony FE 24-70mm F2.8 GM II")

	items, err := repo.Find(context.Background(), search("70", domain.SortName))
	require.NoError(t, err)

	// "70" is too short for a strong token; the normalized branch admits both.
	assert.Len(t, items, 2)

	items, err = repo.Find(context.Background(), search("zz 70", domain.SortName))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepo_Find_Filters(t *testing.T) {
	repo, seed := setup(t)
	ctx := context.Background()

	seed("Canon", "Canon RF 50mm F1.8 STM", testhelper.WithGearType(domain.GearTypeLens),
		testhelper.WithMount("Canon RF"), testhelper.WithPriceCents(19900))
	seed("Canon", "Canon RF 85mm F1.2 L USM", testhelper.WithGearType(domain.GearTypeLens),
		testhelper.WithMount("Canon RF"), testhelper.WithPriceCents(279900))
	seed("Sony", "Sony FE 50mm F1.8", testhelper.WithGearType(domain.GearTypeLens),
		testhelper.WithMount("Sony E"), testhelper.WithPriceCents(24800))
	seed("Canon", "Canon EOS R8", testhelper.WithMount("Canon RF"))

	mount := "rf"
	lens := domain.GearTypeLens
	maxPrice := int64(100000)

	s := search("", domain.SortName)
	s.Filter = domain.CatalogFilter{Mount: &mount, GearType: &lens, PriceMaxCents: &maxPrice}

	items, err := repo.Find(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Canon RF 50mm F1.8 STM"}, names(items))

	brand := "SON"
	s = search("50mm", domain.SortName)
	s.Filter = domain.CatalogFilter{Brand: &brand}

	items, err = repo.Find(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sony FE 50mm F1.8"}, names(items))
	assert.Equal(t, int64(24800), *items[0].PriceCents)
	assert.Equal(t, domain.GearTypeLens, items[0].GearType)
}

func TestRepo_Find_NewestNullsLast(t *testing.T) {
	repo, seed := setup(t)

	seed("Nikon", "Nikon Zf", testhelper.WithReleaseDate(time.Date(2023, 10, 1, 0, 0, 0, 0, time.UTC)))
	seed("Nikon", "Nikon Z8", testhelper.WithReleaseDate(time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)))
	seed("Nikon", "Nikon Z6III", testhelper.WithReleaseDate(time.Date(2024, 6, 17, 0, 0, 0, 0, time.UTC)))
	seed("Nikon", "Nikon FM2")

	items, err := repo.Find(context.Background(), search("", domain.SortNewest))
	require.NoError(t, err)
	assert.Equal(t, []string{"Nikon Z6III", "Nikon Zf", "Nikon Z8", "Nikon FM2"}, names(items))
	assert.Nil(t, items[3].ReleaseDate)
	require.NotNil(t, items[0].ReleaseDate)
	assert.Equal(t, 2024, items[0].ReleaseDate.Year())
}

func TestRepo_Find_PastTheEnd(t *testing.T) {
	repo, seed := setup(t)
	ctx := context.Background()

	for _, n := range []string{"Fujifilm X-T5", "Fujifilm X-H2", "Fujifilm X-S20"} {
		seed("Fujifilm", n)
	}

	s := search("fujifilm", domain.SortName)
	s.Limit = 2
	s.Offset = 10

	items, err := repo.Find(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, items)

	total, err := repo.Count(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestRepo_Find_LikeMetacharactersAreLiteral(t *testing.T) {
	repo, seed := setup(t)

	seed("", "Generic 100% Cotton Strap", testhelper.WithGearType(domain.GearTypeAccessory))
	seed("", "Generic 1000 Strap", testhelper.WithGearType(domain.GearTypeAccessory))

	items, err := repo.Find(context.Background(), search("100%", domain.SortName))
	require.NoError(t, err)
	assert.Equal(t, []string{"Generic 100% Cotton Strap"}, names(items))
}

func TestRepo_Upsert(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateCatalog(t, pool)
	testhelper.SeedBrand(t, pool, "Sigma")

	repo := catalogitem.New(pool)
	ctx := context.Background()

	brand := "sigma"
	price := int64(89900)
	item := &domain.CatalogItem{
		Name:       "Sigma 35mm F1.4 DG DN Art",
		Slug:       "sigma-35mm-f1-4-dg-dn-art",
		SearchName: "Sigma 35mm F1.4 DG DN Art 35 1.4",
		BrandName:  &brand,
		GearType:   domain.GearTypeLens,
		PriceCents: &price,
	}

	inserted, err := repo.Upsert(ctx, item)
	require.NoError(t, err)
	assert.True(t, inserted)
	firstID := item.ID

	price = 79900
	again := *item
	again.ID = uuid.Nil
	inserted, err = repo.Upsert(ctx, &again)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, firstID, again.ID, "update keeps the stored id")

	items, err := repo.Find(ctx, search("35mm f1.4", domain.SortName))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(79900), *items[0].PriceCents)
	assert.Equal(t, "Sigma", items[0].Brand(), "brand is linked by case-insensitive name")
}

func TestRepo_Upsert_InvalidGearType(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateCatalog(t, pool)

	repo := catalogitem.New(pool)
	_, err := repo.Upsert(context.Background(), &domain.CatalogItem{
		Name: "Tripod", Slug: "tripod", SearchName: "Tripod", GearType: "TRIPOD",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepo_UpsertInTxRollsBack(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.TruncateCatalog(t, pool)

	repo := catalogitem.New(pool)
	tx := postgres.NewTxManager(pool)
	ctx := context.Background()

	err := tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := repo.Upsert(ctx, &domain.CatalogItem{
			Name: "Leica Q3", Slug: "leica-q3", SearchName: "Leica Q3", GearType: domain.GearTypeCamera,
		}); err != nil {
			return err
		}
		_, err := repo.Upsert(ctx, &domain.CatalogItem{
			Name: "Broken", Slug: "broken", SearchName: "Broken", GearType: "NOPE",
		})
		return err
	})
	require.ErrorIs(t, err, domain.ErrValidation)

	total, err := repo.Count(ctx, search("", domain.SortName))
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}
