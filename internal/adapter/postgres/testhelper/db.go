package testhelper

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/heartmarshall/gearcatalog-backend/internal/adapter/postgres"
)

const postgresImage = "postgres:17-alpine"

// One migrated catalog database serves the whole test binary.
var (
	once      sync.Once
	sharedDSN string
	initErr   error
)

// SetupTestDB returns a pool on the shared catalog database, closed via
// t.Cleanup. Tests that write must use unique slugs or TruncateCatalog.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := SetupTestDSN(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("testhelper: create pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return pool
}

// SetupTestDSN starts the container on first use and returns its DSN. It
// skips the test under -short.
func SetupTestDSN(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in -short mode")
	}

	once.Do(func() {
		sharedDSN, initErr = startCatalogDB()
	})
	if initErr != nil {
		t.Fatalf("testhelper: setup catalog db: %v", initErr)
	}
	return sharedDSN
}

func startCatalogDB() (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := tcpostgres.Run(ctx, postgresImage,
		tcpostgres.WithDatabase("gearcatalog"),
		tcpostgres.WithUsername("gear"),
		tcpostgres.WithPassword("gear"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	if err != nil {
		return "", fmt.Errorf("start %s: %w", postgresImage, err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return "", fmt.Errorf("connection string: %w", err)
	}

	migrator, err := postgres.NewMigrator(ctx, dsn)
	if err != nil {
		return "", err
	}
	defer migrator.Close()

	if _, err := migrator.Up(ctx); err != nil {
		return "", fmt.Errorf("migrate: %w", err)
	}
	return dsn, nil
}
