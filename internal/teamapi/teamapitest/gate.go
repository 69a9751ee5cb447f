// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package teamapitest

import (
	"sync"

	"github.com/gin-gonic/gin"
)

// Gate holds one request until released.
type Gate struct {
	arrived  chan struct{}
	released chan struct{}
	once     sync.Once
}

// Hold makes the next request to route wait until the returned gate is
// released. The request has been received but not handled while held.
func (s *Server) Hold(route string) *Gate {
	g := &Gate{arrived: make(chan struct{}), released: make(chan struct{})}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gates[route] = append(s.gates[route], g)
	s.held = append(s.held, g)
	return g
}

// Arrived is closed once the held request reaches the server.
func (g *Gate) Arrived() <-chan struct{} {
	return g.arrived
}

// Release lets the held request continue. It is safe to call more than once.
func (g *Gate) Release() {
	g.once.Do(func() { close(g.released) })
}

func (g *Gate) wait(c *gin.Context) {
	close(g.arrived)
	select {
	case <-g.released:
	case <-c.Request.Context().Done():
	}
}

func (s *Server) releaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.held {
		g.Release()
	}
}
