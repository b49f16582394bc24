package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if c.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit must be >= 0 (got %d)", c.Server.RateLimit)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	if err := c.Catalog.validate(c.Database); err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	if err := c.Search.validate(); err != nil {
		return fmt.Errorf("search: %w", err)
	}
	if err := c.Extractor.validate(c.Catalog); err != nil {
		return fmt.Errorf("extractor: %w", err)
	}
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return errors.New("redis.addr is required when redis is enabled")
		}
		if c.Redis.TTL <= 0 {
			return fmt.Errorf("redis.ttl must be > 0 (got %v)", c.Redis.TTL)
		}
	}

	return nil
}

func (c CatalogConfig) validate(db DatabaseConfig) error {
	switch c.Backend {
	case BackendPostgres:
		if db.DSN == "" {
			return errors.New("database.dsn is required for the postgres backend")
		}
	case BackendMemory:
		if c.File == "" {
			return errors.New("file is required for the memory backend")
		}
	default:
		return fmt.Errorf("backend must be postgres or memory (got %q)", c.Backend)
	}
	return nil
}

func (s SearchConfig) validate() error {
	if s.DefaultPageSize <= 0 {
		return fmt.Errorf("default_page_size must be > 0 (got %d)", s.DefaultPageSize)
	}
	if s.MaxPageSize < s.DefaultPageSize {
		return fmt.Errorf("max_page_size must be >= default_page_size (got %d < %d)", s.MaxPageSize, s.DefaultPageSize)
	}
	if s.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must be >= 0 (got %v)", s.RequestTimeout)
	}

	switch s.Similarity {
	case "trigram", "levenshtein":
	default:
		return fmt.Errorf("similarity must be trigram or levenshtein (got %q)", s.Similarity)
	}

	for name, v := range map[string]float64{
		"thresholds.brand_agnostic": s.Thresholds.BrandAgnostic,
		"thresholds.normalized":     s.Thresholds.Normalized,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be in [0, 1] (got %v)", name, v)
		}
	}

	w := s.Weights
	for _, v := range []float64{
		w.RawSubstring, w.NormalizedSubstring, w.BrandAgnosticSubstring,
		w.BrandAgnosticSimilarity, w.NormalizedSimilarity, w.RawSimilarity,
	} {
		if v < 0 {
			return fmt.Errorf("weights must be >= 0 (got %v)", v)
		}
	}

	return nil
}

func (e ExtractorConfig) validate(catalog CatalogConfig) error {
	if e.Radius <= 0 {
		return fmt.Errorf("radius must be > 0 (got %d)", e.Radius)
	}
	if e.MaxCandidates <= 0 {
		return fmt.Errorf("max_candidates must be > 0 (got %d)", e.MaxCandidates)
	}

	switch e.BrandSource {
	case BrandSourceEmbedded:
	case BrandSourceFile:
		if e.BrandsFile == "" {
			return errors.New("brands_file is required when brand_source is file")
		}
	case BrandSourceDB:
		if catalog.Backend != BackendPostgres {
			return errors.New("brand_source db requires the postgres catalog backend")
		}
	default:
		return fmt.Errorf("brand_source must be embedded, file or db (got %q)", e.BrandSource)
	}
	return nil
}
