// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package teamapi is the HTTP client for the Team API.
//
// Every Client owns an Authenticator. The Client's transport reads the
// Authenticator on each outgoing request, so setting or clearing the token
// affects the next request without rebuilding anything. Failures are always
// returned as *team.Error values: KindAuth when the server answered with a
// non-2xx status, KindNetwork when no usable response arrived.
package teamapi
