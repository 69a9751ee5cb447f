// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package errutil

import (
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/teamauth/internal/team"
)

// AssertErrorCode asserts that err is (or wraps) an oops error with the given code.
func AssertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	assert.Equal(t, code, oopsErr.Code())
}

// AssertErrorContext asserts that err is an oops error with the given context key/value.
func AssertErrorContext(t *testing.T, err error, key string, value any) {
	t.Helper()
	oopsErr, ok := oops.AsOops(err)
	require.True(t, ok, "expected oops error, got %T", err)
	ctx := oopsErr.Context()
	assert.Contains(t, ctx, key)
	assert.Equal(t, value, ctx[key])
}

// AssertKind asserts that err is a *team.Error of the given kind and message.
// An empty message skips the message check.
func AssertKind(t *testing.T, err error, kind team.Kind, message string) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind.String(), team.KindOf(err).String(), "error %q", err)
	if message != "" {
		assert.Equal(t, message, team.MessageOf(err))
	}
}
