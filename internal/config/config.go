package config

import (
	"time"

	"github.com/heartmarshall/gearcatalog-backend/internal/domain"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Search    SearchConfig    `yaml:"search"`
	Extractor ExtractorConfig `yaml:"extractor"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`

	// RateLimit is requests per minute per client on /api; 0 disables it.
	RateLimit         int  `yaml:"rate_limit"          env:"SERVER_RATE_LIMIT"          env-default:"600"`
	TrustForwardedFor bool `yaml:"trust_forwarded_for" env:"SERVER_TRUST_FORWARDED_FOR" env-default:"false"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// RedisConfig holds settings of the optional search result cache.
type RedisConfig struct {
	Enabled   bool          `yaml:"enabled"    env:"REDIS_ENABLED"    env-default:"false"`
	Addr      string        `yaml:"addr"       env:"REDIS_ADDR"       env-default:"localhost:6379"`
	Password  string        `yaml:"password"   env:"REDIS_PASSWORD"`
	DB        int           `yaml:"db"         env:"REDIS_DB"         env-default:"0"`
	TTL       time.Duration `yaml:"ttl"        env:"REDIS_TTL"        env-default:"5m"`
	KeyPrefix string        `yaml:"key_prefix" env:"REDIS_KEY_PREFIX" env-default:"gearsearch:"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// Catalog backends.
const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// CatalogConfig selects where catalog items are read from. The memory
// backend loads a YAML catalog file at startup.
type CatalogConfig struct {
	Backend string `yaml:"backend" env:"CATALOG_BACKEND" env-default:"postgres"`
	File    string `yaml:"file"    env:"CATALOG_FILE"`
}

// SearchConfig holds the catalog search engine tunables.
type SearchConfig struct {
	DefaultPageSize int           `yaml:"default_page_size" env:"SEARCH_DEFAULT_PAGE_SIZE" env-default:"20"`
	MaxPageSize     int           `yaml:"max_page_size"     env:"SEARCH_MAX_PAGE_SIZE"     env-default:"100"`
	RequestTimeout  time.Duration `yaml:"request_timeout"   env:"SEARCH_REQUEST_TIMEOUT"   env-default:"5s"`

	// Similarity is the in-memory similarity function: trigram or levenshtein.
	Similarity string `yaml:"similarity" env:"SEARCH_SIMILARITY" env-default:"trigram"`

	Thresholds ThresholdsConfig `yaml:"thresholds"`
	Weights    RelevanceWeights `yaml:"weights"`
}

// ThresholdsConfig holds the fuzzy-match thresholds (exclusive).
type ThresholdsConfig struct {
	BrandAgnostic float64 `yaml:"brand_agnostic" env:"SEARCH_THRESHOLD_BRAND_AGNOSTIC" env-default:"0.4"`
	Normalized    float64 `yaml:"normalized"     env:"SEARCH_THRESHOLD_NORMALIZED"     env-default:"0.5"`
}

// RelevanceWeights holds the weight of each relevance signal. A zero weight
// disables the signal.
type RelevanceWeights struct {
	RawSubstring            float64 `yaml:"raw_substring"             env:"SEARCH_WEIGHT_RAW_SUBSTRING"             env-default:"2.0"`
	NormalizedSubstring     float64 `yaml:"normalized_substring"      env:"SEARCH_WEIGHT_NORMALIZED_SUBSTRING"      env-default:"1.8"`
	BrandAgnosticSubstring  float64 `yaml:"brand_agnostic_substring"  env:"SEARCH_WEIGHT_BRAND_AGNOSTIC_SUBSTRING"  env-default:"1.0"`
	BrandAgnosticSimilarity float64 `yaml:"brand_agnostic_similarity" env:"SEARCH_WEIGHT_BRAND_AGNOSTIC_SIMILARITY" env-default:"0.6"`
	NormalizedSimilarity    float64 `yaml:"normalized_similarity"     env:"SEARCH_WEIGHT_NORMALIZED_SIMILARITY"     env-default:"0.4"`
	RawSimilarity           float64 `yaml:"raw_similarity"            env:"SEARCH_WEIGHT_RAW_SIMILARITY"            env-default:"0.3"`
}

// MatchThresholds converts the thresholds to their domain form.
func (t ThresholdsConfig) MatchThresholds() domain.MatchThresholds {
	return domain.MatchThresholds{BrandAgnostic: t.BrandAgnostic, Normalized: t.Normalized}
}

// Domain converts the weights to their domain form.
func (w RelevanceWeights) Domain() domain.RelevanceWeights {
	return domain.RelevanceWeights{
		RawSubstring:            w.RawSubstring,
		NormalizedSubstring:     w.NormalizedSubstring,
		BrandAgnosticSubstring:  w.BrandAgnosticSubstring,
		BrandAgnosticSimilarity: w.BrandAgnosticSimilarity,
		NormalizedSimilarity:    w.NormalizedSimilarity,
		RawSimilarity:           w.RawSimilarity,
	}
}

// Brand vocabulary sources.
const (
	BrandSourceEmbedded = "embedded"
	BrandSourceFile     = "file"
	BrandSourceDB       = "db"
)

// ExtractorConfig holds candidate extractor settings.
type ExtractorConfig struct {
	Radius        int    `yaml:"radius"         env:"EXTRACTOR_RADIUS"         env-default:"3"`
	MaxCandidates int    `yaml:"max_candidates" env:"EXTRACTOR_MAX_CANDIDATES" env-default:"8"`
	BrandSource   string `yaml:"brand_source"   env:"EXTRACTOR_BRAND_SOURCE"   env-default:"embedded"`
	BrandsFile    string `yaml:"brands_file"    env:"EXTRACTOR_BRANDS_FILE"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" env:"METRICS_ENABLED" env-default:"true"`
	Path    string `yaml:"path"    env:"METRICS_PATH"    env-default:"/metrics"`
}
