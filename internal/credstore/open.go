// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credstore

import (
	"context"
	"io"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"

	"github.com/holomush/teamauth/internal/config"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// Open builds the Store selected by cfg.Backend. Connection failures are
// returned here; once open, the Store is best-effort. The returned Closer
// releases backend resources and is never nil on success.
func Open(ctx context.Context, cfg config.Store, logger *slog.Logger) (Store, io.Closer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "credstore")

	switch cfg.Backend {
	case config.BackendMemory:
		return NewMemory(), nopCloser, nil

	case config.BackendFile, "":
		backend, err := NewFileBackend(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("using file credential store", "path", backend.Path())
		return New(config.BackendFile, backend, WithLogger(logger)), nopCloser, nil

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		// Zero keeps the default bound; store calls are never unbounded.
		timeout := cfg.Redis.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close() //nolint:errcheck // ping error takes precedence
			return nil, nil, oops.Code("CREDSTORE_OPEN_FAILED").With("backend", "redis").With("addr", cfg.Redis.Addr).Wrap(err)
		}
		store := New(config.BackendRedis, NewRedisBackend(client, cfg.Redis.Prefix),
			WithLogger(logger), WithTimeout(timeout))
		return store, client, nil

	case config.BackendSQLite:
		backend, err := OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return New(config.BackendSQLite, backend, WithLogger(logger)), backend, nil

	case config.BackendPostgres:
		pool, err := ConnectPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		closer := closerFunc(func() error {
			pool.Close()
			return nil
		})
		return New(config.BackendPostgres, NewPostgresBackend(pool), WithLogger(logger)), closer, nil

	default:
		return nil, nil, oops.Code("CREDSTORE_UNKNOWN_BACKEND").With("backend", cfg.Backend).Errorf("unknown store backend %q", cfg.Backend)
	}
}
