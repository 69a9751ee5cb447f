// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/holomush/teamauth/internal/config"
	"github.com/holomush/teamauth/pkg/errutil"
)

func runConfig(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configFile = ""
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestConfigShow(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	path := writeConfig(t, `
api:
  base_url: https://teams.example.com
store:
  backend: redis
  redis:
    addr: redis:6379
    password: hunter2
`)

	out, err := runConfig(t, "config", "show", "--config", path, "--log-level", "debug")
	require.NoError(t, err)

	var shown config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "https://teams.example.com", shown.API.BaseURL)
	assert.Equal(t, config.BackendRedis, shown.Store.Backend)
	assert.Equal(t, "debug", shown.Log.Level)
	assert.Equal(t, redacted, shown.Store.Redis.Password)
	assert.NotContains(t, out, "hunter2")
	assert.Equal(t, config.Default().Session.RefreshInterval, shown.Session.RefreshInterval)
}

func TestConfigShowJSON(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	out, err := runConfig(t, "config", "show", "--json", "--api-url", "http://api:8001")
	require.NoError(t, err)

	var shown map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, "http://api:8001", shown["api"].(map[string]any)["base_url"])
}

func TestRedactConfig(t *testing.T) {
	cfg := *config.Default()
	cfg.Store.Postgres.DSN = "postgres://teamauth:s3cret@db:5432/teamauth"

	shown := redactConfig(cfg)

	assert.NotContains(t, shown.Store.Postgres.DSN, "s3cret")
	assert.Contains(t, shown.Store.Postgres.DSN, "teamauth:xxxxx@db:5432")
	assert.Empty(t, shown.Store.Redis.Password)
	assert.Equal(t, "postgres://teamauth:s3cret@db:5432/teamauth", cfg.Store.Postgres.DSN)
}

func TestConfigValidate(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	t.Run("valid file", func(t *testing.T) {
		path := writeConfig(t, "log:\n  format: json\n")
		out, err := runConfig(t, "config", "validate", path)
		require.NoError(t, err)
		assert.Contains(t, out, path+": valid")
	})

	t.Run("schema violation", func(t *testing.T) {
		path := writeConfig(t, "store:\n  backend: floppy\n")
		_, err := runConfig(t, "config", "validate", path)
		errutil.AssertErrorCode(t, err, "CONFIG_SCHEMA_INVALID")
	})

	t.Run("cross-field violation", func(t *testing.T) {
		path := writeConfig(t, "store:\n  backend: postgres\n")
		_, err := runConfig(t, "config", "validate", path)
		errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
	})

	t.Run("missing default file", func(t *testing.T) {
		_, err := runConfig(t, "config", "validate")
		errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
	})
}

func TestConfigSchema(t *testing.T) {
	out, err := runConfig(t, "config", "schema")
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	assert.Equal(t, config.SchemaID, schema["$id"])
}
