// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package teamapi

import (
	"context"
	"net/http"
	"net/url"

	"github.com/holomush/teamauth/internal/team"
)

// Fallback messages used when the server gives no usable detail.
const (
	MsgRegisterFailed      = "Registration failed"
	MsgLoginFailed         = "Login failed"
	MsgFetchProfileFailed  = "Failed to load team profile"
	MsgUpdateProfileFailed = "Profile update failed"
	MsgUploadFailed        = "Material upload failed"
	MsgListMaterialsFailed = "Failed to get materials"
	MsgDeleteFailed        = "Failed to delete material"
	MsgContactFailed       = "Failed to contact team"
	MsgPublicProfileFailed = "Failed to load public profile"
	MsgListMessagesFailed  = "Failed to get messages"
	MsgMarkReadFailed      = "Failed to mark message read"
)

// StatusMessage is the body of endpoints that only acknowledge.
type StatusMessage struct {
	Message string `json:"message"`
}

// Register creates a team. ConfirmPassword is not sent.
func (c *Client) Register(ctx context.Context, req team.RegistrationRequest) (*team.AuthResponse, error) {
	var out team.AuthResponse
	err := c.do(ctx, call{op: "register", method: http.MethodPost, path: "/teams/register",
		fallback: MsgRegisterFailed, body: req, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token and profile.
func (c *Client) Login(ctx context.Context, creds team.Credentials) (*team.AuthResponse, error) {
	var out team.AuthResponse
	err := c.do(ctx, call{op: "login", method: http.MethodPost, path: "/teams/login",
		fallback: MsgLoginFailed, body: creds, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchProfile loads the profile of the team owning the attached token.
func (c *Client) FetchProfile(ctx context.Context) (*team.Profile, error) {
	var out team.Profile
	err := c.do(ctx, call{op: "fetch_profile", method: http.MethodGet, path: "/teams/profile",
		fallback: MsgFetchProfileFailed, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile applies a partial update and returns the new profile.
func (c *Client) UpdateProfile(ctx context.Context, upd team.ProfileUpdate) (*team.Profile, error) {
	var out team.Profile
	err := c.do(ctx, call{op: "update_profile", method: http.MethodPut, path: "/teams/profile",
		fallback: MsgUpdateProfileFailed, body: upd, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UploadMaterial stores a new material for the authenticated team.
func (c *Client) UploadMaterial(ctx context.Context, upload team.MaterialUpload) (*team.Material, error) {
	var out team.Material
	err := c.do(ctx, call{op: "upload_material", method: http.MethodPost, path: "/teams/materials",
		fallback: MsgUploadFailed, body: upload, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMaterials returns the authenticated team's materials, newest first.
func (c *Client) ListMaterials(ctx context.Context) ([]team.Material, error) {
	var out []team.Material
	err := c.do(ctx, call{op: "list_materials", method: http.MethodGet, path: "/teams/materials",
		fallback: MsgListMaterialsFailed, out: &out})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteMaterial removes one of the authenticated team's materials.
func (c *Client) DeleteMaterial(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "delete_material", method: http.MethodDelete,
		path: "/teams/materials/" + url.PathEscape(id), fallback: MsgDeleteFailed})
}

// ContactTeam sends a message to teamID. No token is required.
func (c *Client) ContactTeam(ctx context.Context, teamID string, req team.ContactRequest) error {
	return c.do(ctx, call{op: "contact_team", method: http.MethodPost,
		path: "/teams/" + url.PathEscape(teamID) + "/contact", fallback: MsgContactFailed,
		body: req})
}

// PublicProfile loads the public view of teamID. Contact email is omitted by the server.
func (c *Client) PublicProfile(ctx context.Context, teamID string) (*team.Profile, error) {
	var out team.Profile
	err := c.do(ctx, call{op: "public_profile", method: http.MethodGet,
		path: "/teams/" + url.PathEscape(teamID) + "/public", fallback: MsgPublicProfileFailed, out: &out})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMessages returns messages sent to the authenticated team, newest first.
func (c *Client) ListMessages(ctx context.Context) ([]team.Message, error) {
	var out []team.Message
	err := c.do(ctx, call{op: "list_messages", method: http.MethodGet, path: "/teams/messages",
		fallback: MsgListMessagesFailed, out: &out})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MarkMessageRead flags a message as read.
func (c *Client) MarkMessageRead(ctx context.Context, id string) error {
	return c.do(ctx, call{op: "mark_message_read", method: http.MethodPut,
		path: "/teams/messages/" + url.PathEscape(id) + "/read", fallback: MsgMarkReadFailed})
}
