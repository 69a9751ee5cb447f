// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package session owns the team session lifecycle.
//
// A Machine moves between Unauthenticated, Restoring, Authenticating and
// Authenticated. It keeps three things consistent: the stored token, the token
// attached to outgoing requests, and the cached profile.
//
// Operations may be issued concurrently. Restore, register, login and logout
// each take a new generation number when issued and apply their outcome only
// if no later session-affecting operation has been issued since. Profile
// update and refresh capture the generation without advancing it. A result
// that lost this race is discarded and reported as team.KindSuperseded.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"

	"github.com/holomush/teamauth/internal/credstore"
	"github.com/holomush/teamauth/internal/observability"
	"github.com/holomush/teamauth/internal/team"
	"github.com/holomush/teamauth/internal/teamapi"
)

// API is the part of the Team API client the machine drives.
type API interface {
	Register(ctx context.Context, req team.RegistrationRequest) (*team.AuthResponse, error)
	Login(ctx context.Context, creds team.Credentials) (*team.AuthResponse, error)
	FetchProfile(ctx context.Context) (*team.Profile, error)
	UpdateProfile(ctx context.Context, upd team.ProfileUpdate) (*team.Profile, error)
}

// TokenHolder receives the token to attach to outgoing requests.
// *teamapi.Authenticator implements it.
type TokenHolder interface {
	Set(token team.Token)
	Clear()
}

// Option configures a Machine.
type Option func(*Machine)

// WithLogger sets the machine's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithMetrics counts state transitions.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Machine) { m.metrics = metrics }
}

// WithRestoreRetry retries network failures of the start-up profile fetch
// up to retries times with exponential backoff starting at backoff. Server
// rejections are never retried. Zero retries disables it.
func WithRestoreRetry(retries int, backoff time.Duration) Option {
	return func(m *Machine) {
		m.retries = retries
		m.backoff = backoff
	}
}

// Machine is the session state machine. It is safe for concurrent use.
type Machine struct {
	api     API
	tokens  TokenHolder
	store   credstore.Store
	logger  *slog.Logger
	metrics *observability.Metrics
	retries int
	backoff time.Duration

	mu      sync.Mutex
	gen     uint64
	state   State
	profile *team.Profile
	loading bool
	err     error
	subs    map[int]chan Snapshot
	nextSub int
}

// New returns a machine in Unauthenticated with Loading set until Start.
func New(api API, tokens TokenHolder, store credstore.Store, opts ...Option) *Machine {
	m := &Machine{
		api:     api,
		tokens:  tokens,
		store:   store,
		logger:  slog.Default(),
		state:   Unauthenticated,
		loading: true,
		subs:    make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "session")
	return m
}

// Snapshot returns the current session view.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Start restores a persisted session. With no stored token it settles in
// Unauthenticated. A stored token is attached and validated by fetching the
// profile; on failure the token is cleared everywhere and the error is
// returned and kept in Snapshot.Err.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	gen := m.advanceLocked()
	token, ok := m.store.Load()
	if !ok {
		m.loading = false
		m.err = nil
		m.transitionLocked(Unauthenticated)
		m.mu.Unlock()
		return nil
	}
	m.tokens.Set(token)
	m.loading = true
	m.transitionLocked(Restoring)
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "restoring session", "token_prefix", token.Redacted())
	profile, err := m.fetchForRestore(ctx)
	err = requireProfile("restore", teamapi.MsgFetchProfileFailed, profile, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return m.stale("restore", err)
	}
	if err != nil {
		m.logger.InfoContext(ctx, "stored session is no longer valid", "error", err.Error(), "kind", team.KindOf(err).String())
		m.endLocked(err)
		return err
	}
	m.profile = profile
	m.loading = false
	m.err = nil
	m.transitionLocked(Authenticated)
	return nil
}

func (m *Machine) fetchForRestore(ctx context.Context) (*team.Profile, error) {
	if m.retries <= 0 {
		return m.api.FetchProfile(ctx)
	}

	var profile *team.Profile
	backoff := retry.WithMaxRetries(uint64(m.retries), retry.NewExponential(m.backoff)) //nolint:gosec // retries is validated non-negative
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		p, err := m.api.FetchProfile(ctx)
		if err != nil {
			if teamapi.IsNetwork(err) {
				m.logger.DebugContext(ctx, "retrying profile fetch", "error", err.Error())
				return retry.RetryableError(err)
			}
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		if team.KindOf(err) == team.KindUnknown {
			err = team.NewNetworkError("fetch_profile", teamapi.MsgFetchProfileFailed,
				oops.Code("SESSION_RESTORE_ABORTED").Wrap(err))
		}
		return nil, err
	}
	return profile, nil
}

// Register validates req locally, then creates the team and signs in.
func (m *Machine) Register(ctx context.Context, req team.RegistrationRequest) (*team.Profile, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return m.authenticate(ctx, "register", teamapi.MsgRegisterFailed, func(ctx context.Context) (*team.AuthResponse, error) {
		return m.api.Register(ctx, req)
	})
}

// Login signs in with creds.
func (m *Machine) Login(ctx context.Context, creds team.Credentials) (*team.Profile, error) {
	return m.authenticate(ctx, "login", teamapi.MsgLoginFailed, func(ctx context.Context) (*team.AuthResponse, error) {
		return m.api.Login(ctx, creds)
	})
}

func (m *Machine) authenticate(ctx context.Context, op, fallback string, call func(context.Context) (*team.AuthResponse, error)) (*team.Profile, error) {
	m.mu.Lock()
	gen := m.advanceLocked()
	prior := m.state
	m.loading = false
	m.transitionLocked(Authenticating)
	m.mu.Unlock()

	resp, err := call(ctx)
	if err == nil && (resp == nil || resp.AccessToken.IsZero() || resp.TeamProfile == nil) {
		err = team.NewNetworkError(op, fallback, oops.Code("SESSION_INCOMPLETE_RESPONSE").
			Errorf("auth response is missing the token or profile"))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return nil, m.stale(op, err)
	}
	if err != nil {
		m.revertLocked(prior)
		return nil, err
	}

	m.store.Save(resp.AccessToken)
	m.tokens.Set(resp.AccessToken)
	m.profile = resp.TeamProfile.Clone()
	m.loading = false
	m.err = nil
	m.transitionLocked(Authenticated)
	m.logger.InfoContext(ctx, "team signed in", "op", op, "team_id", m.profile.ID, "team_name", m.profile.TeamName)
	return m.profile.Clone(), nil
}

// revertLocked restores the state held before a failed register or login.
// A transient prior state cannot be resumed because its own operation has
// been superseded, so it settles according to whether a profile is held.
// Without one, a stored token was never validated and is cleared.
func (m *Machine) revertLocked(prior State) {
	if prior.settled() {
		m.transitionLocked(prior)
		return
	}
	m.loading = false
	if m.profile != nil {
		m.transitionLocked(Authenticated)
		return
	}
	m.store.Clear()
	m.tokens.Clear()
	m.transitionLocked(Unauthenticated)
}

// Logout ends the session. It never fails and supersedes anything in flight.
func (m *Machine) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advanceLocked()
	m.profile = nil
	m.loading = false
	m.err = nil
	m.store.Clear()
	m.tokens.Clear()
	m.transitionLocked(Unauthenticated)
	m.logger.Info("team signed out")
}

// UpdateProfile applies upd to the signed-in team. It fails with
// team.KindNotAuthenticated, without a request, unless Authenticated.
func (m *Machine) UpdateProfile(ctx context.Context, upd team.ProfileUpdate) (*team.Profile, error) {
	gen, err := m.requireAuthenticated("update_profile")
	if err != nil {
		return nil, err
	}

	profile, err := m.api.UpdateProfile(ctx, upd)
	err = requireProfile("update_profile", teamapi.MsgUpdateProfileFailed, profile, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return nil, m.stale("update_profile", err)
	}
	if err != nil {
		return nil, err
	}
	m.profile = profile.Clone()
	m.publishLocked()
	return profile, nil
}

// RefreshProfile re-fetches the signed-in team's profile. A 401 or 403 ends
// the session like a failed restore; other failures leave it unchanged.
func (m *Machine) RefreshProfile(ctx context.Context) (*team.Profile, error) {
	gen, err := m.requireAuthenticated("refresh_profile")
	if err != nil {
		return nil, err
	}

	profile, err := m.api.FetchProfile(ctx)
	err = requireProfile("refresh_profile", teamapi.MsgFetchProfileFailed, profile, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return nil, m.stale("refresh_profile", err)
	}
	if err != nil {
		if team.IsUnauthorized(err) {
			m.logger.InfoContext(ctx, "session rejected on refresh", "error", err.Error())
			m.endLocked(err)
		}
		return nil, err
	}
	m.profile = profile.Clone()
	m.publishLocked()
	return profile, nil
}

func requireProfile(op, fallback string, profile *team.Profile, err error) error {
	if err == nil && profile == nil {
		return team.NewNetworkError(op, fallback, oops.Code("SESSION_INCOMPLETE_RESPONSE").Errorf("response carried no profile"))
	}
	return err
}

func (m *Machine) requireAuthenticated(op string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Authenticated {
		return 0, team.NewNotAuthenticatedError(op)
	}
	return m.gen, nil
}

// endLocked clears the token everywhere after the server rejected it.
func (m *Machine) endLocked(cause error) {
	m.store.Clear()
	m.tokens.Clear()
	m.profile = nil
	m.loading = false
	m.err = cause
	m.transitionLocked(Unauthenticated)
}

func (m *Machine) advanceLocked() uint64 {
	m.gen++
	return m.gen
}

// stale reports a result that lost to a newer operation. Failures keep
// their own error; successes become KindSuperseded.
func (m *Machine) stale(op string, err error) error {
	m.logger.Debug("discarding superseded result", "op", op, "failed", err != nil)
	if err != nil {
		return err
	}
	return team.NewSupersededError(op)
}

func (m *Machine) transitionLocked(to State) {
	from := m.state
	m.state = to
	m.metrics.ObserveTransition(to.String())
	m.logger.Debug("session transition", "from", from.String(), "to", to.String(), "generation", m.gen)
	m.publishLocked()
}

func (m *Machine) snapshotLocked() Snapshot {
	return Snapshot{
		State:   m.state,
		Profile: m.profile.Clone(),
		Loading: m.loading,
		Err:     m.err,
	}
}
