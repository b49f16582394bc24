// Package searchcache caches catalog search reads in a key-value store.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/redis"
	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

const (
	opFind  = "find"
	opCount = "count"
)

type catalogRepo interface {
	Find(ctx context.Context, search domain.CatalogSearch) ([]domain.CatalogItem, error)
	Count(ctx context.Context, search domain.CatalogSearch) (int, error)
}

type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo decorates a catalog repository with a read-through cache keyed by the
// composed search. Store failures are logged and the read goes to the inner
// repository; they are never returned to the caller.
type Repo struct {
	inner      catalogRepo
	store      store
	cacheTotal *prometheus.CounterVec
	log        *slog.Logger
}

// New creates a caching decorator. cacheTotal is a counter vec with labels
// "op" (find/count) and "result" (hit/miss/error); it may be nil.
func New(inner catalogRepo, s store, cacheTotal *prometheus.CounterVec, logger *slog.Logger) *Repo {
	return &Repo{
		inner:      inner,
		store:      s,
		cacheTotal: cacheTotal,
		log:        logger.With("component", "searchcache"),
	}
}

// Find returns the cached page or reads and caches it.
func (r *Repo) Find(ctx context.Context, search domain.CatalogSearch) ([]domain.CatalogItem, error) {
	key, err := cacheKey(opFind, search)
	if err != nil {
		return r.inner.Find(ctx, search)
	}

	var items []domain.CatalogItem
	if r.get(ctx, opFind, key, &items) {
		return items, nil
	}

	items, err = r.inner.Find(ctx, search)
	if err != nil {
		return nil, err
	}
	r.put(ctx, key, items)
	return items, nil
}

// Count returns the cached total or reads and caches it.
func (r *Repo) Count(ctx context.Context, search domain.CatalogSearch) (int, error) {
	// Page window, ordering and ranking do not change the total.
	keyed := search
	keyed.Limit, keyed.Offset, keyed.Sort, keyed.Signals = 0, 0, "", nil

	key, err := cacheKey(opCount, keyed)
	if err != nil {
		return r.inner.Count(ctx, search)
	}

	var total int
	if r.get(ctx, opCount, key, &total) {
		return total, nil
	}

	total, err = r.inner.Count(ctx, search)
	if err != nil {
		return 0, err
	}
	r.put(ctx, key, total)
	return total, nil
}

func (r *Repo) get(ctx context.Context, op, key string, dst any) bool {
	data, err := r.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.ErrKeyNotFound) {
			r.inc(op, "miss")
		} else {
			r.inc(op, "error")
			r.log.WarnContext(ctx, "search cache read failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
		}
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		r.inc(op, "error")
		r.log.WarnContext(ctx, "search cache entry is corrupt",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		return false
	}

	r.inc(op, "hit")
	return true
}

func (r *Repo) put(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := r.store.Set(ctx, key, data); err != nil {
		r.log.WarnContext(ctx, "search cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}

func (r *Repo) inc(op, result string) {
	if r.cacheTotal != nil {
		r.cacheTotal.WithLabelValues(op, result).Inc()
	}
}

// cacheKey hashes the canonical JSON form of the search.
func cacheKey(op string, search domain.CatalogSearch) (string, error) {
	data, err := json.Marshal(search)
	if err != nil {
		return "", fmt.Errorf("marshal search: %w", err)
	}
	h := sha256.Sum256(data)
	return op + ":" + hex.EncodeToString(h[:]), nil
}
