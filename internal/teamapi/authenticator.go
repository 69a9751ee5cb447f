// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package teamapi

import (
	"sync"

	"github.com/holomush/teamauth/internal/team"
)

// Authenticator holds the token attached to outgoing requests.
// The zero value has no token and is ready to use.
type Authenticator struct {
	mu    sync.RWMutex
	token team.Token
}

// Set attaches token to subsequent requests.
func (a *Authenticator) Set(token team.Token) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// Clear detaches the token.
func (a *Authenticator) Clear() {
	a.Set("")
}

// Token returns the attached token, or false when none is attached.
func (a *Authenticator) Token() (team.Token, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token, !a.token.IsZero()
}
