package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/memory"
	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres"
	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres/brand"
	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres/catalogitem"
	redisadapter "github.com/heartmarshall/gearcatalog-backend/internal/adapter/redis"
	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/redis/searchcache"
	"github.com/heartmarshall/gearcatalog-backend/internal/catalogfile"
	"github.com/heartmarshall/gearcatalog-backend/internal/config"
	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
	"github.com/heartmarshall/gearcatalog-backend/internal/metrics"
	"github.com/heartmarshall/gearcatalog-backend/internal/service/catalog"
	"github.com/heartmarshall/gearcatalog-backend/internal/service/extractor"
	"github.com/heartmarshall/gearcatalog-backend/internal/similarity"
	"github.com/heartmarshall/gearcatalog-backend/internal/transport/rest"
)

type catalogRepo interface {
	Find(ctx context.Context, search domain.CatalogSearch) ([]domain.CatalogItem, error)
	Count(ctx context.Context, search domain.CatalogSearch) (int, error)
}

// Services is the assembled search engine with the connections it owns.
type Services struct {
	Catalog   *catalog.Service
	Extractor *extractor.Extractor
	Pingers   []rest.Pinger

	// Pool is nil for the memory backend.
	Pool *pgxpool.Pool

	closers []func()
}

// Close releases connections in reverse order of creation.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Build assembles the catalog backend, the optional search cache, the brand
// vocabulary and the services on top of them. On error everything opened so
// far is closed.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *Services, err error) {
	s := &Services{}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	var items catalogRepo
	switch cfg.Catalog.Backend {
	case config.BackendPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		s.Pool = pool
		s.closers = append(s.closers, pool.Close)
		s.Pingers = append(s.Pingers, postgres.NewPinger(pool))
		items = catalogitem.New(pool)

	case config.BackendMemory:
		repo, err := LoadMemoryCatalog(cfg.Catalog.File, cfg.Search.Similarity)
		if err != nil {
			return nil, err
		}
		logger.Info("catalog loaded",
			slog.String("file", cfg.Catalog.File),
			slog.Int("items", repo.Len()),
		)
		items = repo

	default:
		return nil, fmt.Errorf("unknown catalog backend %q", cfg.Catalog.Backend)
	}

	if cfg.Redis.Enabled {
		client, err := redisadapter.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		s.closers = append(s.closers, func() { _ = client.Close() })
		s.Pingers = append(s.Pingers, redisadapter.NewPinger(client))

		store := redisadapter.NewStore(client, cfg.Redis.KeyPrefix, cfg.Redis.TTL)
		items = searchcache.New(items, store, metrics.SearchCacheTotal, logger)
		logger.Info("search cache enabled",
			slog.String("addr", cfg.Redis.Addr),
			slog.Duration("ttl", cfg.Redis.TTL),
		)
	}

	vocab, err := loadVocabulary(ctx, cfg.Extractor, s.Pool)
	if err != nil {
		return nil, err
	}
	logger.Info("brand vocabulary loaded",
		slog.String("source", cfg.Extractor.BrandSource),
		slog.Int("words", vocab.Len()),
	)

	s.Extractor = extractor.New(vocab,
		extractor.WithRadius(cfg.Extractor.Radius),
		extractor.WithMaxCandidates(cfg.Extractor.MaxCandidates),
	)
	s.Catalog = catalog.NewService(logger, items, s.Extractor, CatalogConfig(cfg.Search))

	return s, nil
}

// CatalogConfig converts the search section to service tunables.
func CatalogConfig(cfg config.SearchConfig) catalog.Config {
	return catalog.Config{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		Thresholds:      cfg.Thresholds.MatchThresholds(),
		Weights:         cfg.Weights.Domain(),
	}
}

// LoadMemoryCatalog reads a catalog file into an in-memory repository using
// the named similarity function.
func LoadMemoryCatalog(path, simName string) (*memory.CatalogRepo, error) {
	sim, ok := similarity.ByName(simName)
	if !ok {
		return nil, fmt.Errorf("unknown similarity %q", simName)
	}

	cat, err := catalogfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	repo := memory.NewCatalogRepo(sim)
	repo.Put(cat.Items...)
	return repo, nil
}

func loadVocabulary(ctx context.Context, cfg config.ExtractorConfig, pool *pgxpool.Pool) (*extractor.Vocabulary, error) {
	switch cfg.BrandSource {
	case config.BrandSourceEmbedded, "":
		return extractor.DefaultVocabulary(), nil

	case config.BrandSourceFile:
		brands, err := extractor.LoadBrandsFile(cfg.BrandsFile)
		if err != nil {
			return nil, fmt.Errorf("load brands file: %w", err)
		}
		return extractor.NewVocabulary(brands), nil

	case config.BrandSourceDB:
		if pool == nil {
			return nil, errors.New("brand_source db requires the postgres backend")
		}
		brands, err := brand.New(pool).List(ctx)
		if err != nil {
			return nil, fmt.Errorf("load brands from db: %w", err)
		}
		return extractor.NewVocabulary(brands), nil
	}
	return nil, fmt.Errorf("unknown brand source %q", cfg.BrandSource)
}
