// Package postgres implements storage.Storage on PostgreSQL using pgx.
// Every multi-row write runs in one database transaction and locks rows with
// SELECT ... FOR UPDATE in a fixed order: products, then orders, then accounts by id.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/chris/jastip-settlement/pkg/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// Connect opens a pool and verifies the connection.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	cfg.MaxConns = 8
	cfg.MinConns = 1
	cfg.HealthCheckPeriod = 30 * time.Second
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return pool, nil
}

// Store implements the Storage interface using PostgreSQL.
type Store struct {
	DB *pgxpool.Pool
}

// New creates a new Store.
func New(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

// Migrate creates the tables and indexes if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.DB.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// inTx runs fn in a transaction and commits it if fn succeeds.
func (s *Store) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translate(err, "commit")
	}
	return nil
}

// Postgres error codes the store maps to storage errors.
const (
	uniqueViolation      = "23505"
	foreignKeyViolation  = "23503"
	checkViolation       = "23514"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

// translate maps driver errors onto the storage error taxonomy.
func translate(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		case foreignKeyViolation:
			return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		case checkViolation:
			if pgErr.ConstraintName == "products_stock_check" {
				return fmt.Errorf("%s: %w", op, storage.ErrInsufficientStock)
			}
			return fmt.Errorf("%s: %s: %w", op, pgErr.ConstraintName, storage.ErrInsufficientFunds)
		case serializationFailure, deadlockDetected:
			return fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
