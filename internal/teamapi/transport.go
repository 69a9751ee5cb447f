// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package teamapi

import (
	"net/http"
	"strings"

	"github.com/oklog/ulid/v2"
)

// RequestIDHeader carries a per-request ULID for server-side correlation.
const RequestIDHeader = "X-Request-ID"

// Transport decorates requests with the current bearer token, a user agent
// and a request id.
type Transport struct {
	// Base performs the request. nil means http.DefaultTransport.
	Base          http.RoundTripper
	Authenticator *Authenticator
	UserAgent     string
	// Host limits the bearer token to requests for this host, so redirects
	// elsewhere never carry it. Empty sends it to every host.
	Host string
}

// RoundTrip implements http.RoundTripper. The caller's request is never
// modified; a clone carries the added headers.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	out.Header.Del("Authorization")
	if t.Authenticator != nil && (t.Host == "" || strings.EqualFold(out.URL.Host, t.Host)) {
		if token, ok := t.Authenticator.Token(); ok {
			out.Header.Set("Authorization", "Bearer "+token.String())
		}
	}
	if t.UserAgent != "" {
		out.Header.Set("User-Agent", t.UserAgent)
	}
	if out.Header.Get(RequestIDHeader) == "" {
		out.Header.Set(RequestIDHeader, ulid.Make().String())
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(out)
}
