// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package session

import "github.com/holomush/teamauth/internal/team"

// State is the session lifecycle position.
type State int

// Session states.
const (
	Unauthenticated State = iota
	Restoring
	Authenticating
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Restoring:
		return "restoring"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// settled reports whether s is a resting state rather than one waiting on
// the network.
func (s State) settled() bool {
	return s == Unauthenticated || s == Authenticated
}

// Snapshot is a consistent view of the session.
type Snapshot struct {
	State   State
	Profile *team.Profile
	// Loading is true until the first restore resolves and while restoring.
	Loading bool
	// Err is the error of the last failed restore, nil otherwise.
	Err error
}

// IsAuthenticated reports whether a profile is present.
func (s Snapshot) IsAuthenticated() bool {
	return s.Profile != nil
}
