// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package teamapitest runs an in-process Team API for tests.
//
// The server keeps teams, materials and messages in memory, hashes passwords
// with argon2id and issues HS256 JWTs. Tests can inspect the requests it
// received, make a route fail once, or hold a request until released to
// control the order in which concurrent calls resolve.
package teamapitest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/holomush/teamauth/internal/team"
)

// Request is a request the server received.
type Request struct {
	Method        string
	Path          string
	Route         string
	Authorization string
	RequestID     string
}

type account struct {
	profile      team.Profile
	passwordHash string
}

type failure struct {
	status int
	detail any
}

// Server is a fake Team API. Its URL is the root without /api.
type Server struct {
	*httptest.Server

	secret   []byte
	tokenTTL time.Duration

	mu        sync.Mutex
	teams     map[string]*account
	byEmail   map[string]string
	materials map[string]team.Material
	messages  map[string]team.Message
	requests  []Request
	failures  map[string][]failure
	gates     map[string][]*Gate
	held      []*Gate
}

// Option configures a Server.
type Option func(*Server)

// WithSecret sets the JWT signing key.
func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

// WithTokenTTL sets how long issued tokens stay valid.
func WithTokenTTL(d time.Duration) Option {
	return func(s *Server) { s.tokenTTL = d }
}

// TB is the part of testing.TB the server needs. GinkgoT() satisfies it.
type TB interface {
	Helper()
	Cleanup(func())
	Fatalf(format string, args ...any)
}

// New starts a server and stops it when t finishes.
func New(t TB, opts ...Option) *Server {
	t.Helper()
	s := &Server{
		secret:    []byte("teamapitest-secret"),
		tokenTTL:  time.Hour,
		teams:     make(map[string]*account),
		byEmail:   make(map[string]string),
		materials: make(map[string]team.Material),
		messages:  make(map[string]team.Message),
		failures:  make(map[string][]failure),
		gates:     make(map[string][]*Gate),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.router())
	t.Cleanup(func() {
		s.releaseAll()
		s.Close()
	})
	return s
}

func (s *Server) router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.record, s.intercept)

	teams := r.Group("/api/teams")
	teams.POST("/register", s.handleRegister)
	teams.POST("/login", s.handleLogin)
	teams.GET("/:team_id/public", s.handlePublicProfile)
	teams.POST("/:team_id/contact", s.handleContact)

	authed := teams.Group("", s.requireToken)
	authed.GET("/profile", s.handleGetProfile)
	authed.PUT("/profile", s.handleUpdateProfile)
	authed.POST("/materials", s.handleUploadMaterial)
	authed.GET("/materials", s.handleListMaterials)
	authed.DELETE("/materials/:id", s.handleDeleteMaterial)
	authed.GET("/messages", s.handleListMessages)
	authed.PUT("/messages/:id/read", s.handleMarkRead)
	return r
}

// Route names a registered endpoint as "METHOD /api/teams/...", using gin
// parameter syntax, for FailNext and Hold.
func Route(method, path string) string {
	return method + " " + path
}

// Common routes.
var (
	RouteRegister = Route(http.MethodPost, "/api/teams/register")
	RouteLogin    = Route(http.MethodPost, "/api/teams/login")
	RouteProfile  = Route(http.MethodGet, "/api/teams/profile")
	RouteUpdate   = Route(http.MethodPut, "/api/teams/profile")
)

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Route:         Route(c.Request.Method, c.FullPath()),
		Authorization: c.GetHeader("Authorization"),
		RequestID:     c.GetHeader("X-Request-ID"),
	})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) intercept(c *gin.Context) {
	route := Route(c.Request.Method, c.FullPath())

	s.mu.Lock()
	var gate *Gate
	if queue := s.gates[route]; len(queue) > 0 {
		gate, s.gates[route] = queue[0], queue[1:]
	}
	var fail *failure
	if queue := s.failures[route]; len(queue) > 0 {
		fail = &queue[0]
		s.failures[route] = queue[1:]
	}
	s.mu.Unlock()

	if gate != nil {
		gate.wait(c)
	}
	if fail != nil {
		if fail.detail == nil {
			c.AbortWithStatus(fail.status)
			return
		}
		c.AbortWithStatusJSON(fail.status, gin.H{"detail": fail.detail})
		return
	}
	c.Next()
}

// FailNext makes the next request to route answer status with
// {"detail": detail}. A nil detail sends an empty body.
func (s *Server) FailNext(route string, status int, detail any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], failure{status: status, detail: detail})
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// LastRequest returns the most recent request, or false when none arrived.
func (s *Server) LastRequest() (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}, false
	}
	return s.requests[len(s.requests)-1], true
}

// Seed registers a team directly and returns its profile and a valid token.
func (s *Server) Seed(t TB, req team.RegistrationRequest) (*team.Profile, team.Token) {
	t.Helper()
	profile, token, err := s.register(req)
	if err != nil {
		t.Fatalf("seed team %q: %v", req.TeamName, err)
	}
	return profile, token
}

// IssueToken signs a token for teamID valid for ttl. A negative ttl yields
// an expired token.
func (s *Server) IssueToken(teamID, teamName string, ttl time.Duration) (team.Token, error) {
	now := time.Now()
	claims := team.Claims{
		TeamID:   teamID,
		TeamName: teamName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", err
	}
	return team.Token(signed), nil
}

func (s *Server) requireToken(c *gin.Context) {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Not authenticated"})
		return
	}

	claims := &team.Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid || claims.TeamID == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}

	s.mu.Lock()
	_, exists := s.teams[claims.TeamID]
	s.mu.Unlock()
	if !exists {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}

	c.Set("team_id", claims.TeamID)
	c.Next()
}

func teamID(c *gin.Context) string {
	return c.GetString("team_id")
}
