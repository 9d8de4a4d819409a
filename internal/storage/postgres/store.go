package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/tourfront/internal/apperrors"
)

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Store struct {
	DB DBTX
}

func NewStore(db DBTX) *Store {
	return &Store{DB: db}
}

const getValue = `-- name: GetValue
SELECT value FROM kv_records
WHERE key = $1
`

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	rows, _ := s.DB.Query(ctx, getValue, key)
	value, err := pgx.CollectOneRow(rows, pgx.RowTo[string])

	switch {
	case err == nil:
		return value, nil
	case errors.Is(err, pgx.ErrNoRows):
		return "", apperrors.ErrKeyNotFound
	default:
		return "", dbError(err)
	}
}

const setValue = `-- name: SetValue
INSERT INTO kv_records (key, value, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`

func (s *Store) Set(ctx context.Context, key string, value string) error {
	_, err := s.DB.Exec(ctx, setValue, key, value, time.Now().UTC())
	if err != nil {
		return dbError(err)
	}
	return nil
}

const deleteValue = `-- name: DeleteValue
DELETE FROM kv_records
WHERE key = $1
`

func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.DB.Exec(ctx, deleteValue, key)
	if err != nil {
		return dbError(err)
	}
	return nil
}

const sweep = `-- name: Sweep stale records
DELETE FROM kv_records
WHERE updated_at < $1
`

func (s *Store) Sweep(ctx context.Context, notTouchedSince time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, sweep, notTouchedSince.UTC())
	if err != nil {
		return 0, dbError(err)
	}
	return tag.RowsAffected(), nil
}

// dbError marks errors caused by unreachable database so callers may degrade instead of failing hard
func dbError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgerrcode.IsConnectionException(pgErr.Code) || pgerrcode.IsInsufficientResources(pgErr.Code)) {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}

	return fmt.Errorf("db error: %w", err)
}
