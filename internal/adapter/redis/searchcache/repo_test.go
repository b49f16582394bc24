package searchcache

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/redis"
	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type mapStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	setKeys []string
}

func newMapStore() *mapStore {
	return &mapStore{data: make(map[string][]byte)}
}

func (s *mapStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	v, ok := s.data[key]
	if !ok {
		return nil, redis.ErrKeyNotFound
	}
	return v, nil
}

func (s *mapStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setKeys = append(s.setKeys, key)
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

type countingRepo struct {
	items      []domain.CatalogItem
	total      int
	err        error
	findCalls  int
	countCalls int
}

func (r *countingRepo) Find(context.Context, domain.CatalogSearch) ([]domain.CatalogItem, error) {
	r.findCalls++
	return r.items, r.err
}

func (r *countingRepo) Count(context.Context, domain.CatalogSearch) (int, error) {
	r.countCalls++
	return r.total, r.err
}

func newCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_search_cache_total",
		Help: "test",
	}, []string{"op", "result"})
}

func testSearch(query string) domain.CatalogSearch {
	s := domain.NewCatalogSearch(query, domain.DefaultMatchThresholds(), domain.DefaultRelevanceWeights().Signals())
	s.Sort = domain.SortRelevance
	s.Limit = 20
	return s
}

func sampleItems() []domain.CatalogItem {
	brand := "Nikon"
	score := 2.0
	return []domain.CatalogItem{{
		ID:         uuid.New(),
		Name:       "Nikon Z6 III",
		Slug:       "nikon-z6-iii",
		SearchName: "Nikon Z6 III",
		BrandName:  &brand,
		GearType:   domain.GearTypeCamera,
		Relevance:  &score,
	}}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRepo_Find_ReadThrough(t *testing.T) {
	t.Parallel()

	inner := &countingRepo{items: sampleItems()}
	counter := newCounter()
	repo := New(inner, newMapStore(), counter, slog.Default())
	ctx := context.Background()

	first, err := repo.Find(ctx, testSearch("z6 iii"))
	require.NoError(t, err)
	second, err := repo.Find(ctx, testSearch("z6 iii"))
	require.NoError(t, err)

	assert.Equal(t, 1, inner.findCalls)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, "Nikon", second[0].Brand())
	require.NotNil(t, second[0].Relevance)
	assert.InDelta(t, 2.0, *second[0].Relevance, 1e-9)

	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues(opFind, "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues(opFind, "hit")))
}

func TestRepo_Find_KeyedByWholeSearch(t *testing.T) {
	t.Parallel()

	inner := &countingRepo{items: sampleItems()}
	repo := New(inner, newMapStore(), nil, slog.Default())
	ctx := context.Background()

	page2 := testSearch("z6 iii")
	page2.Offset = 20
	byName := testSearch("z6 iii")
	byName.Sort = domain.SortName

	for _, s := range []domain.CatalogSearch{testSearch("z6 iii"), page2, byName, testSearch("z6")} {
		_, err := repo.Find(ctx, s)
		require.NoError(t, err)
	}
	assert.Equal(t, 4, inner.findCalls)
}

func TestRepo_Count_IgnoresPageWindowAndSort(t *testing.T) {
	t.Parallel()

	inner := &countingRepo{total: 42}
	repo := New(inner, newMapStore(), nil, slog.Default())
	ctx := context.Background()

	page2 := testSearch("z6 iii")
	page2.Offset = 20
	byName := testSearch("z6 iii")
	byName.Sort = domain.SortName

	for _, s := range []domain.CatalogSearch{testSearch("z6 iii"), page2, byName} {
		total, err := repo.Count(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, 42, total)
	}
	assert.Equal(t, 1, inner.countCalls)

	filtered := testSearch("z6 iii")
	filtered.Filter.Brand = ptr("nikon")
	_, err := repo.Count(ctx, filtered)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.countCalls, "filters are part of the key")
}

func TestRepo_StoreFailureFallsThrough(t *testing.T) {
	t.Parallel()

	store := newMapStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")

	inner := &countingRepo{items: sampleItems(), total: 1}
	counter := newCounter()
	repo := New(inner, store, counter, slog.Default())
	ctx := context.Background()

	items, err := repo.Find(ctx, testSearch("z6 iii"))
	require.NoError(t, err)
	assert.Len(t, items, 1)

	total, err := repo.Count(ctx, testSearch("z6 iii"))
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues(opFind, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(counter.WithLabelValues(opCount, "error")))
}

func TestRepo_CorruptEntryIsReplaced(t *testing.T) {
	t.Parallel()

	store := newMapStore()
	s := testSearch("z6 iii")
	key, err := cacheKey(opFind, s)
	require.NoError(t, err)
	store.data[key] = []byte("{not json")

	inner := &countingRepo{items: sampleItems()}
	repo := New(inner, store, nil, slog.Default())

	items, err := repo.Find(context.Background(), s)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, inner.findCalls)
	assert.Equal(t, []string{key}, store.setKeys)
}

func TestRepo_InnerErrorIsNotCached(t *testing.T) {
	t.Parallel()

	store := newMapStore()
	inner := &countingRepo{err: errors.New("db down")}
	repo := New(inner, store, nil, slog.Default())

	_, err := repo.Find(context.Background(), testSearch("z6"))
	require.Error(t, err)
	_, err = repo.Count(context.Background(), testSearch("z6"))
	require.Error(t, err)

	assert.Empty(t, store.setKeys)
}

func TestCacheKey_Deterministic(t *testing.T) {
	t.Parallel()

	a, err := cacheKey(opFind, testSearch("Sony A7 IV"))
	require.NoError(t, err)
	b, err := cacheKey(opFind, testSearch("  sony   a7 iv "))
	require.NoError(t, err)
	c, err := cacheKey(opCount, testSearch("sony a7 iv"))
	require.NoError(t, err)

	assert.Equal(t, a, b, "keys are built from the normalized search")
	assert.NotEqual(t, a, c)
	assert.Regexp(t, `^find:[0-9a-f]{64}$`, a)
}

func ptr[T any](v T) *T { return &v }
