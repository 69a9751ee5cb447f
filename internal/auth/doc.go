// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package auth is the application-facing view of the team session.
//
// A Facade combines the session state machine with the Team API calls that
// sit outside it (materials, messages, contact, public profiles). Every
// action returns a Result instead of panicking; callers render
// Result.Error and keep their form input on failure.
//
// The Facade travels through a context.Context. FromContext panics when no
// Facade was attached, which surfaces wiring mistakes at the first call.
package auth
