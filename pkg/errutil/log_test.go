// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/teamauth/internal/team"
	"github.com/holomush/teamauth/pkg/errutil"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), "log output: %s", buf.String())
	return entry
}

func TestLogError_WithOopsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code("CREDSTORE_WRITE_FAILED").
		With("backend", "file").
		Errorf("disk full")

	errutil.LogError(logger, "save failed", err)

	entry := decode(t, &buf)
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "save failed", entry["msg"])
	assert.Equal(t, "CREDSTORE_WRITE_FAILED", entry["code"])
}

func TestLogError_WithStandardError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	errutil.LogError(logger, "operation failed", errors.New("standard error"))

	entry := decode(t, &buf)
	assert.Contains(t, entry["error"], "standard error")
	assert.NotContains(t, entry, "kind")
}

func TestLogWarn_WithTeamError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	cause := oops.Code("TEAMAPI_REQUEST_FAILED").With("method", "POST").Errorf("connection refused")
	err := team.NewNetworkError("login", "Login failed", cause)

	errutil.LogWarn(logger, "login failed", err)

	entry := decode(t, &buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "Login failed", entry["error"])
	assert.Equal(t, "network", entry["kind"])
	assert.Equal(t, "login", entry["op"])
	assert.Equal(t, "connection refused", entry["cause"])
	assert.Equal(t, "TEAMAPI_REQUEST_FAILED", entry["code"])
}

func TestAttrs_AuthErrorIncludesStatus(t *testing.T) {
	attrs := errutil.Attrs(team.NewAuthError("profile", 401, "Could not validate credentials"))
	assert.Contains(t, attrs, "status")
	assert.Contains(t, attrs, 401)
}

func TestLog_NilLoggerUsesDefault(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	errutil.LogError(nil, "fallback", errors.New("x"))

	assert.Equal(t, "fallback", decode(t, &buf)["msg"])
}
