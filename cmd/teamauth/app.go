// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/holomush/teamauth/internal/auth"
	"github.com/holomush/teamauth/internal/config"
	"github.com/holomush/teamauth/internal/credstore"
	"github.com/holomush/teamauth/internal/logging"
	"github.com/holomush/teamauth/internal/observability"
	"github.com/holomush/teamauth/internal/session"
	"github.com/holomush/teamauth/internal/team"
	"github.com/holomush/teamauth/internal/teamapi"
	"github.com/holomush/teamauth/pkg/errutil"
)

// app is one process's session: config, credential store, client and facade.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   credstore.Store
	machine *session.Machine
	facade  *auth.Facade
	closer  io.Closer
}

// loadConfig reads the config file and the flags the user changed.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(configFile, cmd.Flags())
}

// newLogger builds the process logger. Logs go to cmd's error stream.
func newLogger(cmd *cobra.Command, cfg *config.Config) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	return logging.Setup("teamauth", version, cfg.Log.Format, level, cmd.ErrOrStderr()), nil
}

// newApp wires the session for cfg. metrics may be nil.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*app, error) {
	store, closer, err := credstore.Open(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	client := teamapi.New(cfg.API.BaseURL,
		teamapi.WithTimeout(cfg.API.Timeout),
		teamapi.WithUserAgent(cfg.API.UserAgent),
		teamapi.WithMetrics(metrics),
		teamapi.WithLogger(logger),
	)
	machine := session.New(client, client.Authenticator(), store,
		session.WithLogger(logger),
		session.WithMetrics(metrics),
		session.WithRestoreRetry(cfg.Session.RestoreRetries, cfg.Session.RestoreBackoff),
	)

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		machine: machine,
		facade:  auth.New(machine, client),
		closer:  closer,
	}, nil
}

// restore runs the start-up restore. A stored token the server rejects is
// cleared and reported at INFO; it is not an error for the command.
func (a *app) restore(ctx context.Context) error {
	err := a.machine.Start(ctx)
	if err == nil || team.KindOf(err) == team.KindAuth {
		return nil
	}
	return err
}

// requireSession restores and fails when no team is signed in.
func (a *app) requireSession(ctx context.Context) error {
	if err := a.restore(ctx); err != nil {
		return err
	}
	if !a.facade.IsAuthenticated() {
		return team.NewNotAuthenticatedError("restore")
	}
	return nil
}

func (a *app) Close() error {
	if err := a.closer.Close(); err != nil {
		errutil.LogWarn(a.logger, "failed to close credential store", err)
		return err
	}
	return nil
}

// withApp runs fn with a wired app and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, logger, nil)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	return fn(ctx, a)
}

// resultErr converts a failed Result into the command's error.
func resultErr[T any](res auth.Result[T]) error {
	if res.Success {
		return nil
	}
	return res.Err
}
