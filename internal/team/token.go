// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package team

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/oops"
)

// Token is the opaque bearer credential issued by the Team API.
type Token string

// String returns the raw token.
func (t Token) String() string {
	return string(t)
}

// IsZero reports whether the token is empty.
func (t Token) IsZero() bool {
	return t == ""
}

// Redacted returns a log-safe form of the token.
func (t Token) Redacted() string {
	if len(t) <= 8 {
		return "[REDACTED]"
	}
	return string(t[:8]) + "…"
}

// Claims are the fields the Team API embeds in its tokens.
type Claims struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	jwt.RegisteredClaims
}

// Expiry returns the expiry, or the zero time when none is set.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Claims decodes the token payload without verifying its signature.
// The result is informational; only the Team API decides validity.
func (t Token) Claims() (*Claims, error) {
	if t.IsZero() {
		return nil, oops.Code("TOKEN_EMPTY").Errorf("token is empty")
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(string(t), claims); err != nil {
		return nil, oops.Code("TOKEN_DECODE_FAILED").Wrap(err)
	}
	return claims, nil
}
