// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/holomush/teamauth/internal/team"
	"github.com/holomush/teamauth/internal/teamapi/teamapitest"
)

func strPtr(s string) *string { return &s }

func registration(name, email string) team.RegistrationRequest {
	return team.RegistrationRequest{
		TeamName:        name,
		TeamNumber:      strPtr("7845"),
		ContactEmail:    email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

// cli runs commands against a fake Team API with a file credential store.
type cli struct {
	t         *testing.T
	server    *teamapitest.Server
	tokenPath string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	return &cli{
		t:         t,
		server:    teamapitest.New(t),
		tokenPath: filepath.Join(dir, "team_token"),
	}
}

func (c *cli) globals() []string {
	return []string{"--api-url", c.server.URL, "--store", "file", "--store-path", c.tokenPath}
}

// run executes args and returns stdout and stderr.
func (c *cli) run(args ...string) (string, string, error) {
	return c.runContext(context.Background(), args...)
}

func (c *cli) runContext(ctx context.Context, args ...string) (string, string, error) {
	configFile = ""
	cmd := NewRootCmd()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append(args, c.globals()...))
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

// mustRun executes args and fails the test on error.
func (c *cli) mustRun(args ...string) string {
	c.t.Helper()
	out, stderr, err := c.run(args...)
	require.NoError(c.t, err, "stderr: %s", stderr)
	return out
}

// saveToken writes token where the file store reads it.
func (c *cli) saveToken(token team.Token) {
	c.t.Helper()
	require.NoError(c.t, os.WriteFile(c.tokenPath, []byte(token), 0o600))
}

// seed registers a team on the server and stores its token.
func (c *cli) seed(name, email string) *team.Profile {
	c.t.Helper()
	profile, token := c.server.Seed(c.t, registration(name, email))
	c.saveToken(token)
	return profile
}
