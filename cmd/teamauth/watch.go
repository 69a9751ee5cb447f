// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/holomush/teamauth/internal/observability"
	"github.com/holomush/teamauth/internal/session"
	"github.com/holomush/teamauth/internal/team"
)

// watchConfig holds flags for the watch command. The flags themselves are
// config overrides and are read through config.Load.
type watchConfig struct {
	metricsAddr     string
	refreshInterval time.Duration
}

func newWatchCmd() *cobra.Command {
	cfg := &watchConfig{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Hold the session and refresh it periodically",
		Long: `Restore the saved session and keep it alive, re-fetching the profile every
refresh interval. Serves Prometheus metrics and health probes while running.
Exits when the server rejects the token or on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd)
		},
	}

	cmd.Flags().StringVar(&cfg.metricsAddr, "metrics-addr", "", "metrics/health HTTP address (empty = config value)")
	cmd.Flags().DurationVar(&cfg.refreshInterval, "refresh-interval", 0, "profile refresh interval (0 = config value)")

	return cmd
}

func runWatch(cmd *cobra.Command) (err error) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Session.RefreshInterval <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("key", "session.refresh_interval").
			Errorf("session.refresh_interval must be positive for watch")
	}

	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}

	var (
		a         *app
		obsServer *observability.Server
		metrics   *observability.Metrics
	)
	if cfg.Metrics.Addr != "" {
		// Ready once the start-up restore has settled.
		obsServer = observability.NewServer(cfg.Metrics.Addr,
			func() bool { return a.facade.Ready() },
			observability.WithStatus(func() any { return sessionStatus(a.facade.Snapshot()) }),
			observability.WithLogger(logger),
		)
		metrics = obsServer.Metrics()
	}

	a, err = newApp(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()

	if obsServer != nil {
		obsErrChan, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").With("addr", cfg.Metrics.Addr).Wrap(err)
		}
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := obsServer.Stop(shutdownCtx); err != nil {
				a.logger.Warn("error stopping observability server", "error", err)
			}
		}()
		// Monitor observability server errors - cancel context on error
		go monitorServerErrors(ctx, cancel, obsErrChan, "observability", a.logger)
		a.logger.Info("observability server started", "addr", obsServer.Addr())
	}

	updates, unsubscribe := a.facade.Subscribe()
	reported := make(chan struct{})
	go func() {
		defer close(reported)
		reportTransitions(cmd, updates)
	}()
	defer func() {
		unsubscribe()
		<-reported
	}()

	if err := a.requireSession(ctx); err != nil {
		return err
	}
	return refreshLoop(ctx, a, cfg.Session.RefreshInterval)
}

// SessionStatus is the /session view served while watching.
type SessionStatus struct {
	State    string `json:"state"`
	Loading  bool   `json:"loading"`
	TeamID   string `json:"team_id,omitempty"`
	TeamName string `json:"team_name,omitempty"`
	Error    string `json:"error,omitempty"`
}

func sessionStatus(snap session.Snapshot) SessionStatus {
	out := SessionStatus{
		State:   snap.State.String(),
		Loading: snap.Loading,
		Error:   team.MessageOf(snap.Err),
	}
	if snap.Profile != nil {
		out.TeamID = snap.Profile.ID
		out.TeamName = snap.Profile.TeamName
	}
	return out
}

// refreshLoop re-fetches the profile every interval until ctx ends or the
// server rejects the session.
func refreshLoop(ctx context.Context, a *app, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.logger.Info("watch stopped")
			return nil
		case <-ticker.C:
		}

		res := a.facade.RefreshProfile(ctx)
		switch {
		case res.Success:
			a.logger.Debug("profile refreshed", "team", res.Data.TeamName)
		case !a.facade.IsAuthenticated():
			return res.Err
		case team.KindOf(res.Err) == team.KindSuperseded, ctx.Err() != nil:
		default:
			a.logger.Warn("profile refresh failed", "error", res.Error, "kind", team.KindOf(res.Err).String())
		}
	}
}

// reportTransitions prints each state change until updates is closed.
func reportTransitions(cmd *cobra.Command, updates <-chan session.Snapshot) {
	var last session.State = -1
	for snap := range updates {
		if snap.State == last {
			continue
		}
		last = snap.State
		if snap.Profile != nil {
			cmd.Printf("session %s: %s\n", snap.State, snap.Profile.TeamName)
		} else {
			cmd.Printf("session %s\n", snap.State)
		}
	}
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string, logger *slog.Logger) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			logger.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
