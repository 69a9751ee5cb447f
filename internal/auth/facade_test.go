// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth_test

import (
	"context"
	"encoding/base64"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/teamauth/internal/auth"
	"github.com/holomush/teamauth/internal/credstore"
	"github.com/holomush/teamauth/internal/session"
	"github.com/holomush/teamauth/internal/team"
	"github.com/holomush/teamauth/internal/teamapi"
	"github.com/holomush/teamauth/internal/teamapi/teamapitest"
)

func strPtr(s string) *string { return &s }

func registration(name, email string) team.RegistrationRequest {
	return team.RegistrationRequest{
		TeamName:        name,
		TeamNumber:      strPtr("7845"),
		ContactEmail:    email,
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

type fixture struct {
	server  *teamapitest.Server
	store   *credstore.Memory
	machine *session.Machine
	facade  *auth.Facade
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	server := teamapitest.New(t)
	client := teamapi.New(server.URL)
	store := credstore.NewMemory()
	machine := session.New(client, client.Authenticator(), store)
	return &fixture{
		server:  server,
		store:   store,
		machine: machine,
		facade:  auth.New(machine, client),
	}
}

func (f *fixture) signIn(t *testing.T) *team.Profile {
	t.Helper()
	res := f.facade.Register(context.Background(), registration("Ankara Robotics", "a@b.com"))
	require.True(t, res.Success, res.Error)
	return res.Data
}

func upload(title, fileName string) team.MaterialUpload {
	return team.MaterialUpload{
		Title:        title,
		MaterialType: team.MaterialDocument,
		FileData:     base64.StdEncoding.EncodeToString([]byte("hello")),
		FileName:     fileName,
		MimeType:     "text/plain",
	}
}

func TestFacadeProjections(t *testing.T) {
	f := newFixture(t)

	assert.True(t, f.facade.Loading())
	assert.False(t, f.facade.Ready())
	assert.False(t, f.facade.IsAuthenticated())
	assert.Nil(t, f.facade.Profile())

	require.NoError(t, f.machine.Start(context.Background()))
	assert.False(t, f.facade.Loading())
	assert.True(t, f.facade.Ready())

	profile := f.signIn(t)
	assert.True(t, f.facade.IsAuthenticated())
	assert.Equal(t, profile, f.facade.Profile())
	assert.Equal(t, session.Authenticated, f.facade.Snapshot().State)
}

func TestFacadeLoginFailureReturnsMessage(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.machine.Start(context.Background()))

	res := f.facade.Login(context.Background(), team.Credentials{Email: "nobody@b.com", Password: "x"})

	assert.False(t, res.Success)
	assert.Nil(t, res.Data)
	assert.Equal(t, "Invalid email or password", res.Error)
	assert.Equal(t, team.KindAuth, team.KindOf(res.Err))
}

func TestFacadeRegisterValidation(t *testing.T) {
	f := newFixture(t)
	req := registration("Ankara Robotics", "a@b.com")
	req.ConfirmPassword = "other"

	res := f.facade.Register(context.Background(), req)

	assert.False(t, res.Success)
	assert.Equal(t, team.KindValidation, team.KindOf(res.Err))
	assert.Empty(t, f.server.Requests())
}

func TestFacadeLogoutAlwaysSucceeds(t *testing.T) {
	f := newFixture(t)
	assert.True(t, f.facade.Logout().Success)

	f.signIn(t)
	res := f.facade.Logout()
	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
	assert.False(t, f.facade.IsAuthenticated())
	_, ok := f.store.Load()
	assert.False(t, ok)
}

func TestFacadeUpdateAndRefreshProfile(t *testing.T) {
	f := newFixture(t)
	f.signIn(t)

	res := f.facade.UpdateProfile(context.Background(), team.ProfileUpdate{Location: strPtr("Ankara")})
	require.True(t, res.Success, res.Error)
	assert.Equal(t, "Ankara", *res.Data.Location)

	refreshed := f.facade.RefreshProfile(context.Background())
	require.True(t, refreshed.Success, refreshed.Error)
	assert.Equal(t, "Ankara", *refreshed.Data.Location)
}

func TestFacadeSignedInActionsRequireSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		run  func() error
	}{
		{"upload", func() error { return f.facade.UploadMaterial(ctx, upload("Rules", "rules.txt")).Err }},
		{"list materials", func() error { return f.facade.ListMaterials(ctx, "").Err }},
		{"delete material", func() error {
			return f.facade.DeleteMaterial(ctx, "0b5d0c7a-1d2f-4e2e-9a57-3f3c2f1d4b6e").Err
		}},
		{"list messages", func() error { return f.facade.ListMessages(ctx).Err }},
		{"mark read", func() error { return f.facade.MarkMessageRead(ctx, "m1").Err }},
		{"update profile", func() error { return f.facade.UpdateProfile(ctx, team.ProfileUpdate{}).Err }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.Equal(t, team.KindNotAuthenticated, team.KindOf(err))
			assert.Equal(t, team.NotAuthenticatedMessage, team.MessageOf(err))
		})
	}
	assert.Empty(t, f.server.Requests())
}

func TestFacadeMaterials(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t)

	rules := f.facade.UploadMaterial(ctx, upload("Game Rules", "rules.pdf"))
	require.True(t, rules.Success, rules.Error)
	assert.Equal(t, int64(5), rules.Data.FileSize)
	notes := f.facade.UploadMaterial(ctx, upload("Build Notes", "notes.txt"))
	require.True(t, notes.Success, notes.Error)

	all := f.facade.ListMaterials(ctx, "")
	require.True(t, all.Success, all.Error)
	assert.Len(t, all.Data, 2)

	byName := f.facade.ListMaterials(ctx, "*.pdf")
	require.True(t, byName.Success, byName.Error)
	require.Len(t, byName.Data, 1)
	assert.Equal(t, rules.Data.ID, byName.Data[0].ID)

	byTitle := f.facade.ListMaterials(ctx, "Build*")
	require.True(t, byTitle.Success, byTitle.Error)
	require.Len(t, byTitle.Data, 1)
	assert.Equal(t, notes.Data.ID, byTitle.Data[0].ID)

	none := f.facade.ListMaterials(ctx, "*.zip")
	require.True(t, none.Success)
	assert.Empty(t, none.Data)

	deleted := f.facade.DeleteMaterial(ctx, rules.Data.ID)
	require.True(t, deleted.Success, deleted.Error)

	missing := f.facade.DeleteMaterial(ctx, rules.Data.ID)
	assert.False(t, missing.Success)
	assert.Equal(t, "Material not found", missing.Error)
	var apiErr *team.Error
	require.ErrorAs(t, missing.Err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestFacadeMaterialsRejectBadInputLocally(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signIn(t)
	before := len(f.server.Requests())

	bad := upload("Rules", "rules.txt")
	bad.MaterialType = "spreadsheet"
	res := f.facade.UploadMaterial(ctx, bad)
	assert.Equal(t, auth.MsgInvalidMaterialType, res.Error)
	assert.Equal(t, team.KindValidation, team.KindOf(res.Err))

	list := f.facade.ListMaterials(ctx, "[unclosed")
	assert.Equal(t, auth.MsgInvalidFilter, list.Error)
	assert.Equal(t, team.KindValidation, team.KindOf(list.Err))

	del := f.facade.DeleteMaterial(ctx, "../profile")
	assert.Equal(t, auth.MsgInvalidMaterialID, del.Error)
	assert.Equal(t, team.KindValidation, team.KindOf(del.Err))

	assert.Len(t, f.server.Requests(), before)
}

func TestFacadeContactAndMessages(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	receiver, _ := f.server.Seed(t, registration("Izmir Makers", "izmir@b.com"))

	public := f.facade.PublicProfile(ctx, receiver.ID)
	require.True(t, public.Success, public.Error)
	assert.Equal(t, "Izmir Makers", public.Data.TeamName)
	assert.Empty(t, public.Data.ContactEmail)

	sent := f.facade.ContactTeam(ctx, receiver.ID, team.ContactRequest{
		FromName:  "Ayşe",
		FromEmail: "ayse@b.com",
		Subject:   "Workshop",
		Message:   "Can we visit?",
	})
	require.True(t, sent.Success, sent.Error)

	unknown := f.facade.PublicProfile(ctx, "missing")
	assert.False(t, unknown.Success)
	assert.Equal(t, "Team not found", unknown.Error)

	login := f.facade.Login(ctx, team.Credentials{Email: "izmir@b.com", Password: "secret1"})
	require.True(t, login.Success, login.Error)

	inbox := f.facade.ListMessages(ctx)
	require.True(t, inbox.Success, inbox.Error)
	require.Len(t, inbox.Data, 1)
	assert.Equal(t, "Workshop", inbox.Data[0].Subject)
	assert.False(t, inbox.Data[0].IsRead)

	read := f.facade.MarkMessageRead(ctx, inbox.Data[0].ID)
	require.True(t, read.Success, read.Error)

	inbox = f.facade.ListMessages(ctx)
	require.True(t, inbox.Success)
	assert.True(t, inbox.Data[0].IsRead)
}

func TestFacadeNetworkFailure(t *testing.T) {
	client := teamapi.New("http://127.0.0.1:1")
	machine := session.New(client, client.Authenticator(), credstore.NewMemory())
	facade := auth.New(machine, client)

	res := facade.PublicProfile(context.Background(), "t1")

	assert.False(t, res.Success)
	assert.Equal(t, team.KindNetwork, team.KindOf(res.Err))
	assert.Equal(t, teamapi.MsgPublicProfileFailed, res.Error)
}

func TestFacadeSubscribe(t *testing.T) {
	f := newFixture(t)
	updates, cancel := f.facade.Subscribe()
	defer cancel()

	first := <-updates
	assert.True(t, first.Loading)

	f.signIn(t)
	last := <-updates
	assert.Equal(t, session.Authenticated, last.State)
}

func TestFromContext(t *testing.T) {
	f := newFixture(t)
	ctx := auth.WithFacade(context.Background(), f.facade)
	assert.Same(t, f.facade, auth.FromContext(ctx))

	assert.PanicsWithValue(t, "auth: facade used outside of a session provider", func() {
		auth.FromContext(context.Background())
	})
}
