// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credstore

import (
	"sync"

	"github.com/holomush/teamauth/internal/team"
)

// Memory is a process-local Store. It forgets the token when the process exits.
type Memory struct {
	mu    sync.Mutex
	token team.Token
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Save implements Store.
func (m *Memory) Save(token team.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

// Load implements Store.
func (m *Memory) Load() (team.Token, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, !m.token.IsZero()
}

// Clear implements Store.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
}
