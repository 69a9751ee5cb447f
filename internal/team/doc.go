// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package team defines the Team API domain types shared by the session core.
//
// # Types
//
// Profile is the authenticated team as returned by the Team API. It is never
// persisted locally; the session re-fetches it on every start-up.
//
// RegistrationRequest and Credentials are transient inputs for the register
// and login flows. RegistrationRequest.Validate performs the only local
// check (password confirmation) before anything reaches the network.
//
// # Errors
//
// Every failure crossing the session boundary is an *Error carrying a Kind.
// Callers render Error.Message directly; use KindOf, MessageOf and IsAuth to
// inspect errors without type assertions.
package team
