// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credstore

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"

	"github.com/samber/oops"
	// Register the pure-Go sqlite driver.
	_ "modernc.org/sqlite"

	"github.com/holomush/teamauth/internal/xdg"
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS credentials (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLiteBackend keeps the token in a local SQLite database.
type SQLiteBackend struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures the
// credentials table exists. An empty path selects credentials.db inside the
// XDG state directory.
func OpenSQLite(ctx context.Context, path string) (*SQLiteBackend, error) {
	if path == "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, oops.Code("CREDSTORE_PATH_FAILED").Wrap(err)
		}
		path = filepath.Join(dir, "credentials.db")
	}
	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, oops.Code("CREDSTORE_OPEN_FAILED").With("path", path).Wrap(err)
	}

	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, oops.Code("CREDSTORE_OPEN_FAILED").With("path", path).Wrap(err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close() //nolint:errcheck // ping error takes precedence
		return nil, oops.Code("CREDSTORE_OPEN_FAILED").With("path", path).Wrap(err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close() //nolint:errcheck // schema error takes precedence
		return nil, oops.Code("CREDSTORE_OPEN_FAILED").With("path", path).With("operation", "create table").Wrap(err)
	}
	return &SQLiteBackend{db: db}, nil
}

// Close closes the database handle.
func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

// Put implements Backend.
func (b *SQLiteBackend) Put(ctx context.Context, value string) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO credentials (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		Key, value)
	if err != nil {
		return oops.Code("CREDSTORE_WRITE_FAILED").With("backend", "sqlite").Wrap(err)
	}
	return nil
}

// Get implements Backend.
func (b *SQLiteBackend) Get(ctx context.Context) (string, bool, error) {
	var value string
	err := b.db.QueryRowContext(ctx, `SELECT value FROM credentials WHERE key = ?`, Key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.Code("CREDSTORE_READ_FAILED").With("backend", "sqlite").Wrap(err)
	}
	return value, value != "", nil
}

// Delete implements Backend.
func (b *SQLiteBackend) Delete(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM credentials WHERE key = ?`, Key); err != nil {
		return oops.Code("CREDSTORE_DELETE_FAILED").With("backend", "sqlite").Wrap(err)
	}
	return nil
}
