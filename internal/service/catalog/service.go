package catalog

import (
	"context"
	"log/slog"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
	"github.com/heartmarshall/gearcatalog-backend/internal/service/extractor"
)

type catalogRepo interface {
	Find(ctx context.Context, search domain.CatalogSearch) ([]domain.CatalogItem, error)
	Count(ctx context.Context, search domain.CatalogSearch) (int, error)
}

type candidateExtractor interface {
	ExtractTop(message string, opts ...extractor.Option) (string, bool)
}

// Config holds the tunables of the search engine.
type Config struct {
	DefaultPageSize int
	MaxPageSize     int
	Thresholds      domain.MatchThresholds
	Weights         domain.RelevanceWeights
}

// DefaultConfig returns the tuned defaults.
func DefaultConfig() Config {
	return Config{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		Thresholds:      domain.DefaultMatchThresholds(),
		Weights:         domain.DefaultRelevanceWeights(),
	}
}

// Service implements catalog search: query composition, concurrent count and
// page reads, and resolution of chat text through the candidate extractor.
type Service struct {
	log       *slog.Logger
	items     catalogRepo
	extractor candidateExtractor
	cfg       Config
	signals   []domain.RelevanceSignal
}

// NewService creates a new catalog search service.
func NewService(
	logger *slog.Logger,
	items catalogRepo,
	extractor candidateExtractor,
	cfg Config,
) *Service {
	def := DefaultConfig()
	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = def.DefaultPageSize
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = def.MaxPageSize
	}
	if cfg.DefaultPageSize > cfg.MaxPageSize {
		cfg.DefaultPageSize = cfg.MaxPageSize
	}
	if cfg.Thresholds == (domain.MatchThresholds{}) {
		cfg.Thresholds = def.Thresholds
	}
	if cfg.Weights == (domain.RelevanceWeights{}) {
		cfg.Weights = def.Weights
	}

	return &Service{
		log:       logger.With("service", "catalog"),
		items:     items,
		extractor: extractor,
		cfg:       cfg,
		signals:   cfg.Weights.Signals(),
	}
}

func clampPageSize(size, max, defaultVal int) int {
	if size <= 0 {
		return defaultVal
	}
	if size > max {
		return max
	}
	return size
}
