// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import (
	"context"

	"github.com/gobwas/glob"
	"github.com/google/uuid"

	"github.com/holomush/teamauth/internal/session"
	"github.com/holomush/teamauth/internal/team"
)

// Validation messages for locally rejected input.
const (
	MsgInvalidMaterialID   = "Invalid material id"
	MsgInvalidMaterialType = "Invalid material type"
	MsgInvalidFilter       = "Invalid filter pattern"
)

// Session is the state machine behind a Facade. *session.Machine implements it.
type Session interface {
	Snapshot() session.Snapshot
	Subscribe() (<-chan session.Snapshot, func())
	Register(ctx context.Context, req team.RegistrationRequest) (*team.Profile, error)
	Login(ctx context.Context, creds team.Credentials) (*team.Profile, error)
	Logout()
	UpdateProfile(ctx context.Context, upd team.ProfileUpdate) (*team.Profile, error)
	RefreshProfile(ctx context.Context) (*team.Profile, error)
}

// Directory is the Team API surface outside the state machine.
// *teamapi.Client implements it.
type Directory interface {
	UploadMaterial(ctx context.Context, upload team.MaterialUpload) (*team.Material, error)
	ListMaterials(ctx context.Context) ([]team.Material, error)
	DeleteMaterial(ctx context.Context, id string) error
	ContactTeam(ctx context.Context, teamID string, req team.ContactRequest) error
	PublicProfile(ctx context.Context, teamID string) (*team.Profile, error)
	ListMessages(ctx context.Context) ([]team.Message, error)
	MarkMessageRead(ctx context.Context, id string) error
}

// Facade exposes the session and team actions to application code.
type Facade struct {
	session Session
	dir     Directory
}

// New returns a Facade over s and dir.
func New(s Session, dir Directory) *Facade {
	return &Facade{session: s, dir: dir}
}

// Snapshot returns the current session view.
func (f *Facade) Snapshot() session.Snapshot {
	return f.session.Snapshot()
}

// Subscribe streams session snapshots. See session.Machine.Subscribe.
func (f *Facade) Subscribe() (<-chan session.Snapshot, func()) {
	return f.session.Subscribe()
}

// Profile returns the signed-in team's profile, or nil.
func (f *Facade) Profile() *team.Profile {
	return f.session.Snapshot().Profile
}

// IsAuthenticated reports whether a profile is loaded.
func (f *Facade) IsAuthenticated() bool {
	return f.Profile() != nil
}

// Loading reports whether the initial restore is still running.
func (f *Facade) Loading() bool {
	return f.session.Snapshot().Loading
}

// Register creates a team and signs it in.
func (f *Facade) Register(ctx context.Context, req team.RegistrationRequest) Result[*team.Profile] {
	return from(f.session.Register(ctx, req))
}

// Login signs a team in.
func (f *Facade) Login(ctx context.Context, creds team.Credentials) Result[*team.Profile] {
	return from(f.session.Login(ctx, creds))
}

// Logout signs the team out. It always succeeds.
func (f *Facade) Logout() Result[Empty] {
	f.session.Logout()
	return succeed(Empty{})
}

// UpdateProfile changes the signed-in team's profile.
func (f *Facade) UpdateProfile(ctx context.Context, upd team.ProfileUpdate) Result[*team.Profile] {
	return from(f.session.UpdateProfile(ctx, upd))
}

// RefreshProfile reloads the signed-in team's profile.
func (f *Facade) RefreshProfile(ctx context.Context) Result[*team.Profile] {
	return from(f.session.RefreshProfile(ctx))
}

// UploadMaterial stores a material for the signed-in team.
func (f *Facade) UploadMaterial(ctx context.Context, upload team.MaterialUpload) Result[*team.Material] {
	if !f.IsAuthenticated() {
		return fail[*team.Material](team.NewNotAuthenticatedError("upload_material"))
	}
	if !upload.MaterialType.Valid() {
		return fail[*team.Material](team.NewValidationError("upload_material", MsgInvalidMaterialType))
	}
	return from(f.dir.UploadMaterial(ctx, upload))
}

// ListMaterials returns the signed-in team's materials. A non-empty pattern
// is a glob matched against the file name and title; materials matching
// neither are dropped.
func (f *Facade) ListMaterials(ctx context.Context, pattern string) Result[[]team.Material] {
	if !f.IsAuthenticated() {
		return fail[[]team.Material](team.NewNotAuthenticatedError("list_materials"))
	}
	var filter glob.Glob
	if pattern != "" {
		g, err := glob.Compile(pattern)
		if err != nil {
			return fail[[]team.Material](team.NewValidationError("list_materials", MsgInvalidFilter))
		}
		filter = g
	}

	materials, err := f.dir.ListMaterials(ctx)
	if err != nil {
		return fail[[]team.Material](err)
	}
	if filter == nil {
		return succeed(materials)
	}
	kept := make([]team.Material, 0, len(materials))
	for _, m := range materials {
		if filter.Match(m.FileName) || filter.Match(m.Title) {
			kept = append(kept, m)
		}
	}
	return succeed(kept)
}

// DeleteMaterial removes a material by id. Malformed ids are rejected locally.
func (f *Facade) DeleteMaterial(ctx context.Context, id string) Result[Empty] {
	if !f.IsAuthenticated() {
		return fail[Empty](team.NewNotAuthenticatedError("delete_material"))
	}
	if _, err := uuid.Parse(id); err != nil {
		return fail[Empty](team.NewValidationError("delete_material", MsgInvalidMaterialID))
	}
	return from(Empty{}, f.dir.DeleteMaterial(ctx, id))
}

// ContactTeam sends a message to another team. No sign-in is needed.
func (f *Facade) ContactTeam(ctx context.Context, teamID string, req team.ContactRequest) Result[Empty] {
	return from(Empty{}, f.dir.ContactTeam(ctx, teamID, req))
}

// PublicProfile loads another team's public profile. No sign-in is needed.
func (f *Facade) PublicProfile(ctx context.Context, teamID string) Result[*team.Profile] {
	return from(f.dir.PublicProfile(ctx, teamID))
}

// ListMessages returns messages sent to the signed-in team.
func (f *Facade) ListMessages(ctx context.Context) Result[[]team.Message] {
	if !f.IsAuthenticated() {
		return fail[[]team.Message](team.NewNotAuthenticatedError("list_messages"))
	}
	return from(f.dir.ListMessages(ctx))
}

// MarkMessageRead flags one of the signed-in team's messages as read.
func (f *Facade) MarkMessageRead(ctx context.Context, id string) Result[Empty] {
	if !f.IsAuthenticated() {
		return fail[Empty](team.NewNotAuthenticatedError("mark_message_read"))
	}
	return from(Empty{}, f.dir.MarkMessageRead(ctx, id))
}

// Ready reports whether the initial restore has finished.
// It can back a readiness probe.
func (f *Facade) Ready() bool {
	return !f.Loading()
}
