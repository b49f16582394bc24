package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/heartmarshall/gearcatalog-backend/migrations"
)

// Migration describes one schema migration and its outcome.
type Migration struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
	Duration  time.Duration
}

// Migrator applies the embedded goose migrations. goose needs a *sql.DB, so
// the migrator opens its own connection through the pgx stdlib driver.
type Migrator struct {
	db       *sql.DB
	provider *goose.Provider
}

// NewMigrator connects to dsn and loads the embedded migrations.
func NewMigrator(ctx context.Context, dsn string) (*Migrator, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("goose provider: %w", err)
	}

	return &Migrator{db: db, provider: provider}, nil
}

// Close releases the migrator's connection.
func (m *Migrator) Close() error {
	return m.db.Close()
}

// Up applies all pending migrations and returns those it applied.
func (m *Migrator) Up(ctx context.Context) ([]Migration, error) {
	results, err := m.provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}

	out := make([]Migration, 0, len(results))
	for _, r := range results {
		out = append(out, Migration{
			Version:  r.Source.Version,
			Path:     r.Source.Path,
			Applied:  true,
			Duration: r.Duration,
		})
	}
	return out, nil
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) (Migration, error) {
	r, err := m.provider.Down(ctx)
	if err != nil {
		return Migration{}, fmt.Errorf("goose down: %w", err)
	}
	return Migration{
		Version:  r.Source.Version,
		Path:     r.Source.Path,
		Duration: r.Duration,
	}, nil
}

// Status lists every known migration, oldest first.
func (m *Migrator) Status(ctx context.Context) ([]Migration, error) {
	statuses, err := m.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}

	out := make([]Migration, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, Migration{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}
