// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package logging

import (
	"log/slog"
	"strings"
)

const redactedValue = "[REDACTED]"

// sensitiveKeys are attribute keys whose string values never reach the log.
var sensitiveKeys = []string{
	"password",
	"access_token",
	"authorization",
	"token",
}

// redact is a slog ReplaceAttr hook that masks credentials by key.
// Callers that want to log a token's identity use team.Token.Redacted under
// a different key (e.g. "token_prefix").
func redact(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindString || a.Value.String() == "" {
		return a
	}
	key := strings.ToLower(a.Key)
	for _, s := range sensitiveKeys {
		if key == s || strings.HasSuffix(key, "_"+s) {
			return slog.String(a.Key, redactedValue)
		}
	}
	return a
}
