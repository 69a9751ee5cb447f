// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credstore

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
)

// MigrateHint is attached to errors caused by a missing credentials table.
const MigrateHint = "run 'teamauth store migrate' to create the team_credentials table"

// pgPool is the subset of pgxpool.Pool used by PostgresBackend.
// pgxmock.PgxPoolIface satisfies it in unit tests.
type pgPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresBackend keeps the token in the team_credentials table.
type PostgresBackend struct {
	pool pgPool
}

// NewPostgresBackend returns a backend using pool.
func NewPostgresBackend(pool pgPool) *PostgresBackend {
	return &PostgresBackend{pool: pool}
}

// ConnectPostgres opens a pgx pool for dsn and verifies it with a ping.
func ConnectPostgres(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, oops.Code("CREDSTORE_OPEN_FAILED").With("backend", "postgres").Wrap(err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, oops.Code("CREDSTORE_OPEN_FAILED").With("backend", "postgres").Wrap(err)
	}
	return pool, nil
}

// Put implements Backend.
func (b *PostgresBackend) Put(ctx context.Context, value string) error {
	_, err := b.pool.Exec(ctx,
		`INSERT INTO team_credentials (key, value, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		Key, value)
	if err != nil {
		return pgError("CREDSTORE_WRITE_FAILED", err)
	}
	return nil
}

// Get implements Backend.
func (b *PostgresBackend) Get(ctx context.Context) (string, bool, error) {
	var value string
	err := b.pool.QueryRow(ctx, `SELECT value FROM team_credentials WHERE key = $1`, Key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, pgError("CREDSTORE_READ_FAILED", err)
	}
	return value, value != "", nil
}

// Delete implements Backend.
func (b *PostgresBackend) Delete(ctx context.Context) error {
	if _, err := b.pool.Exec(ctx, `DELETE FROM team_credentials WHERE key = $1`, Key); err != nil {
		return pgError("CREDSTORE_DELETE_FAILED", err)
	}
	return nil
}

func pgError(code string, err error) error {
	builder := oops.Code(code).With("backend", "postgres")
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		builder = builder.With("hint", MigrateHint)
	}
	return builder.Wrap(err)
}
