package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CatalogImportLock names the advisory lock held by catalog imports.
const CatalogImportLock = "gearcatalog.import"

// Querier is satisfied by *pgxpool.Pool and pgx.Tx. Repositories run every
// statement through QuerierFromCtx so they join a transaction when one is open.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// QuerierFromCtx returns the transaction opened by RunInTx, or the pool
// outside of one.
func QuerierFromCtx(ctx context.Context, pool *pgxpool.Pool) Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// TxOption configures a TxManager.
type TxOption func(*TxManager)

// WithIsoLevel sets the isolation level of top-level transactions.
func WithIsoLevel(level pgx.TxIsoLevel) TxOption {
	return func(m *TxManager) { m.opts.IsoLevel = level }
}

// WithAdvisoryLock makes every top-level transaction take the named
// transaction-scoped advisory lock before running its callback. Concurrent
// holders of the same name run one after another.
func WithAdvisoryLock(name string) TxOption {
	return func(m *TxManager) { m.lock = name }
}

// TxManager runs callbacks inside database transactions carried by the context.
type TxManager struct {
	pool *pgxpool.Pool
	opts pgx.TxOptions
	lock string
}

// NewTxManager creates a TxManager. Without options transactions run at
// PostgreSQL's default Read Committed level and take no lock.
func NewTxManager(pool *pgxpool.Pool, opts ...TxOption) *TxManager {
	m := &TxManager{pool: pool}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RunInTx commits when fn returns nil and rolls back when it returns an error
// or panics. Called inside another RunInTx it opens a savepoint, so a failed
// inner step can be handled without aborting the outer transaction.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	outer, nested := ctx.Value(txKey{}).(pgx.Tx)

	var (
		tx  pgx.Tx
		err error
	)
	if nested {
		tx, err = outer.Begin(ctx)
	} else {
		tx, err = m.pool.BeginTx(ctx, m.opts)
	}
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Rollback must run even when ctx is already cancelled.
	rollback := func() error { return tx.Rollback(context.WithoutCancel(ctx)) }

	defer func() {
		if r := recover(); r != nil {
			_ = rollback()
			panic(r)
		}
	}()

	if !nested && m.lock != "" {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", m.lock); err != nil {
			_ = rollback()
			return fmt.Errorf("acquire lock %s: %w", m.lock, err)
		}
	}

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
