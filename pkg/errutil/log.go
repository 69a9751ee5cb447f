// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package errutil provides logging and test helpers for teamauth errors.
package errutil

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/holomush/teamauth/internal/team"
)

// LogError logs err at ERROR level with its structured context.
func LogError(logger *slog.Logger, msg string, err error) {
	Log(context.Background(), logger, slog.LevelError, msg, err)
}

// LogWarn logs err at WARN level. Used for best-effort failures the caller
// deliberately swallows.
func LogWarn(logger *slog.Logger, msg string, err error) {
	Log(context.Background(), logger, slog.LevelWarn, msg, err)
}

// Log logs err at the given level.
// A *team.Error contributes its kind, operation and HTTP status; an oops error
// anywhere in the chain contributes its code and context.
func Log(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Log(ctx, level, msg, Attrs(err)...)
}

// Attrs returns the slog key/value pairs describing err.
func Attrs(err error) []any {
	if err == nil {
		return []any{"error", nil}
	}
	attrs := []any{"error", err.Error()}

	var teamErr *team.Error
	if errors.As(err, &teamErr) {
		attrs = append(attrs, "kind", teamErr.Kind.String())
		if teamErr.Op != "" {
			attrs = append(attrs, "op", teamErr.Op)
		}
		if teamErr.Status != 0 {
			attrs = append(attrs, "status", teamErr.Status)
		}
		if teamErr.Err != nil {
			attrs = append(attrs, "cause", teamErr.Err.Error())
		}
	}

	if oopsErr, ok := oops.AsOops(err); ok {
		if code := oopsErr.Code(); code != nil {
			attrs = append(attrs, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			attrs = append(attrs, "context", ctx)
		}
	}
	return attrs
}
