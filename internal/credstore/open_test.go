// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credstore_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/teamauth/internal/config"
	"github.com/holomush/teamauth/internal/credstore"
	"github.com/holomush/teamauth/internal/team"
	"github.com/holomush/teamauth/pkg/errutil"
)

func openStore(t *testing.T, cfg config.Store) credstore.Store {
	t.Helper()
	store, closer, err := credstore.Open(context.Background(), cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, closer)
	t.Cleanup(func() { assert.NoError(t, closer.Close()) })
	return store
}

func assertRoundTrip(t *testing.T, store credstore.Store) {
	t.Helper()
	store.Save("tok1")
	token, ok := store.Load()
	require.True(t, ok)
	assert.Equal(t, team.Token("tok1"), token)
	store.Clear()
	_, ok = store.Load()
	assert.False(t, ok)
}

func TestOpen_Backends(t *testing.T) {
	mr := miniredis.RunT(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  config.Store
	}{
		{"memory", config.Store{Backend: config.BackendMemory}},
		{"file", config.Store{Backend: config.BackendFile, Path: filepath.Join(dir, "team_token")}},
		{"sqlite", config.Store{Backend: config.BackendSQLite, Path: filepath.Join(dir, "credentials.db")}},
		{"redis", config.Store{Backend: config.BackendRedis, Redis: config.Redis{Addr: mr.Addr(), Prefix: "t:", Timeout: time.Second}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertRoundTrip(t, openStore(t, tt.cfg))
		})
	}
}

func TestOpen_DefaultBackendIsFile(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	assertRoundTrip(t, openStore(t, config.Store{}))
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, _, err := credstore.Open(context.Background(), config.Store{Backend: "etcd"}, nil)
	errutil.AssertErrorCode(t, err, "CREDSTORE_UNKNOWN_BACKEND")
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, _, err := credstore.Open(context.Background(), config.Store{
		Backend: config.BackendRedis,
		Redis:   config.Redis{Addr: addr, Timeout: 200 * time.Millisecond},
	}, nil)
	errutil.AssertErrorCode(t, err, "CREDSTORE_OPEN_FAILED")
}

func TestOpen_PostgresUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, _, err := credstore.Open(ctx, config.Store{
		Backend:  config.BackendPostgres,
		Postgres: config.Postgres{DSN: "postgres://teamauth@127.0.0.1:1/teamauth?connect_timeout=1"},
	}, nil)
	errutil.AssertErrorCode(t, err, "CREDSTORE_OPEN_FAILED")
}
