// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package credstore persists the single team access token between runs.
//
// A Store never reports failures to its caller. Backend errors are logged at
// WARN and swallowed, so a broken disk or an unreachable Redis degrades to a
// session that is simply not remembered.
package credstore

import (
	"context"
	"log/slog"
	"time"

	"github.com/holomush/teamauth/internal/team"
	"github.com/holomush/teamauth/pkg/errutil"
)

// Key is the fixed name under which the token is stored in every backend.
const Key = "team_token"

// DefaultTimeout bounds each backend call made through a Store.
const DefaultTimeout = 5 * time.Second

// Store is the best-effort persistence contract used by the session machine.
type Store interface {
	// Save overwrites any previously stored token.
	Save(token team.Token)
	// Load returns the stored token, or false when none is stored.
	Load() (team.Token, bool)
	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear()
}

// Backend is the fallible storage primitive behind a Store.
// Get reports (value, false, nil) when nothing is stored.
type Backend interface {
	Put(ctx context.Context, value string) error
	Get(ctx context.Context) (string, bool, error)
	Delete(ctx context.Context) error
}

// Option configures a Store built by New.
type Option func(*guarded)

// WithLogger sets the logger used for swallowed backend failures.
func WithLogger(logger *slog.Logger) Option {
	return func(g *guarded) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithTimeout bounds each backend call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(g *guarded) { g.timeout = d }
}

type guarded struct {
	name    string
	backend Backend
	logger  *slog.Logger
	timeout time.Duration
}

// New wraps backend in a Store that logs and swallows every failure.
// name identifies the backend in log records.
func New(name string, backend Backend, opts ...Option) Store {
	g := &guarded{
		name:    name,
		backend: backend,
		logger:  slog.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *guarded) ctx() (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), g.timeout)
}

func (g *guarded) Save(token team.Token) {
	ctx, cancel := g.ctx()
	defer cancel()
	if err := g.backend.Put(ctx, token.String()); err != nil {
		errutil.LogWarn(g.logger.With("backend", g.name), "failed to save team token", err)
	}
}

func (g *guarded) Load() (team.Token, bool) {
	ctx, cancel := g.ctx()
	defer cancel()
	value, ok, err := g.backend.Get(ctx)
	if err != nil {
		errutil.LogWarn(g.logger.With("backend", g.name), "failed to load team token", err)
		return "", false
	}
	if !ok || value == "" {
		return "", false
	}
	return team.Token(value), true
}

func (g *guarded) Clear() {
	ctx, cancel := g.ctx()
	defer cancel()
	if err := g.backend.Delete(ctx); err != nil {
		errutil.LogWarn(g.logger.With("backend", g.name), "failed to clear team token", err)
	}
}
