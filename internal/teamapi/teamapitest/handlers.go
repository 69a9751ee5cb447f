// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package teamapitest

import (
	"encoding/base64"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/samber/oops"

	"github.com/holomush/teamauth/internal/team"
)

// maxMaterialBytes mirrors the production upload limit.
const maxMaterialBytes = 50 * 1024 * 1024

type apiError struct {
	status int
	detail string
}

func (e *apiError) Error() string { return e.detail }

func abort(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

// registerBody mirrors team.RegistrationRequest on the wire.
type registerBody struct {
	TeamName     string  `json:"team_name"`
	TeamNumber   *string `json:"team_number"`
	ContactEmail string  `json:"contact_email"`
	Password     string  `json:"password"`
	Description  *string `json:"description"`
	Location     *string `json:"location"`
	FoundedYear  *int    `json:"founded_year"`
	Website      *string `json:"website"`
}

func (s *Server) register(req team.RegistrationRequest) (*team.Profile, team.Token, error) {
	if len(strings.TrimSpace(req.TeamName)) < 2 || !strings.Contains(req.ContactEmail, "@") || len(req.Password) < 6 {
		return nil, "", &apiError{status: http.StatusUnprocessableEntity, detail: ""}
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, "", oops.Wrap(err)
	}

	s.mu.Lock()
	if _, taken := s.byEmail[strings.ToLower(req.ContactEmail)]; taken || s.nameTakenLocked(req.TeamName) {
		s.mu.Unlock()
		return nil, "", &apiError{status: http.StatusBadRequest, detail: "Team with this name or email already exists"}
	}
	now := time.Now().UTC()
	profile := team.Profile{
		ID:           uuid.NewString(),
		TeamName:     req.TeamName,
		TeamNumber:   req.TeamNumber,
		ContactEmail: req.ContactEmail,
		Description:  req.Description,
		Location:     req.Location,
		FoundedYear:  req.FoundedYear,
		Website:      req.Website,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.teams[profile.ID] = &account{profile: profile, passwordHash: hash}
	s.byEmail[strings.ToLower(req.ContactEmail)] = profile.ID
	s.mu.Unlock()

	token, err := s.IssueToken(profile.ID, profile.TeamName, s.tokenTTL)
	if err != nil {
		return nil, "", oops.Wrap(err)
	}
	return profile.Clone(), token, nil
}

func (s *Server) nameTakenLocked(name string) bool {
	for _, acct := range s.teams {
		if acct.profile.TeamName == name {
			return true
		}
	}
	return false
}

func (s *Server) handleRegister(c *gin.Context) {
	var body registerBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": err.Error()}}})
		return
	}
	profile, token, err := s.register(team.RegistrationRequest{
		TeamName:     body.TeamName,
		TeamNumber:   body.TeamNumber,
		ContactEmail: body.ContactEmail,
		Password:     body.Password,
		Description:  body.Description,
		Location:     body.Location,
		FoundedYear:  body.FoundedYear,
		Website:      body.Website,
	})
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) {
			if apiErr.detail == "" {
				c.AbortWithStatusJSON(apiErr.status, gin.H{"detail": []gin.H{{"msg": "validation error"}}})
				return
			}
			abort(c, apiErr.status, apiErr.detail)
			return
		}
		abort(c, http.StatusInternalServerError, "Failed to create team")
		return
	}
	c.JSON(http.StatusOK, team.AuthResponse{AccessToken: token, TokenType: "bearer", TeamProfile: profile})
}

func (s *Server) handleLogin(c *gin.Context) {
	var creds team.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": err.Error()}}})
		return
	}

	s.mu.Lock()
	var acct *account
	if id, ok := s.byEmail[strings.ToLower(creds.Email)]; ok {
		copied := *s.teams[id]
		acct = &copied
	}
	s.mu.Unlock()

	if acct == nil {
		abort(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if ok, err := verifyPassword(creds.Password, acct.passwordHash); err != nil || !ok {
		abort(c, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := s.IssueToken(acct.profile.ID, acct.profile.TeamName, s.tokenTTL)
	if err != nil {
		abort(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}
	c.JSON(http.StatusOK, team.AuthResponse{AccessToken: token, TokenType: "bearer", TeamProfile: acct.profile.Clone()})
}

func (s *Server) handleGetProfile(c *gin.Context) {
	s.mu.Lock()
	acct, ok := s.teams[teamID(c)]
	var profile *team.Profile
	if ok {
		profile = acct.profile.Clone()
	}
	s.mu.Unlock()

	if !ok {
		abort(c, http.StatusNotFound, "Team not found")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var upd team.ProfileUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": err.Error()}}})
		return
	}

	s.mu.Lock()
	acct, ok := s.teams[teamID(c)]
	if !ok {
		s.mu.Unlock()
		abort(c, http.StatusNotFound, "Team not found")
		return
	}
	p := &acct.profile
	if upd.TeamName != nil {
		p.TeamName = *upd.TeamName
	}
	if upd.TeamNumber != nil {
		p.TeamNumber = upd.TeamNumber
	}
	if upd.Description != nil {
		p.Description = upd.Description
	}
	if upd.LogoData != nil {
		p.LogoURL = upd.LogoData
	}
	if upd.SocialMedia != nil {
		p.SocialMedia = *upd.SocialMedia
	}
	if upd.Location != nil {
		p.Location = upd.Location
	}
	if upd.FoundedYear != nil {
		p.FoundedYear = upd.FoundedYear
	}
	if upd.Website != nil {
		p.Website = upd.Website
	}
	p.UpdatedAt = time.Now().UTC()
	profile := p.Clone()
	s.mu.Unlock()

	c.JSON(http.StatusOK, profile)
}

func (s *Server) handlePublicProfile(c *gin.Context) {
	s.mu.Lock()
	acct, ok := s.teams[c.Param("team_id")]
	var profile *team.Profile
	if ok && acct.profile.IsActive {
		profile = acct.profile.Clone()
	}
	s.mu.Unlock()

	if profile == nil {
		abort(c, http.StatusNotFound, "Team not found")
		return
	}
	profile.ContactEmail = ""
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleContact(c *gin.Context) {
	var req team.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.FromName == "" || req.Subject == "" || req.Message == "" || !strings.Contains(req.FromEmail, "@") {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": "validation error"}}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := c.Param("team_id")
	if _, ok := s.teams[id]; !ok {
		abort(c, http.StatusNotFound, "Team not found")
		return
	}
	msg := team.Message{
		ID:        uuid.NewString(),
		FromName:  req.FromName,
		FromEmail: req.FromEmail,
		ToTeamID:  id,
		Subject:   req.Subject,
		Message:   req.Message,
		CourseID:  req.CourseID,
		CreatedAt: time.Now().UTC(),
	}
	s.messages[msg.ID] = msg
	c.JSON(http.StatusOK, gin.H{"message": "Message sent successfully to team"})
}

func (s *Server) handleUploadMaterial(c *gin.Context) {
	var upload team.MaterialUpload
	if err := c.ShouldBindJSON(&upload); err != nil || upload.Title == "" || !upload.MaterialType.Valid() {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"detail": []gin.H{{"msg": "validation error"}}})
		return
	}
	data, err := base64.StdEncoding.DecodeString(upload.FileData)
	if err != nil {
		abort(c, http.StatusBadRequest, "Invalid file data")
		return
	}
	if len(data) > maxMaterialBytes {
		abort(c, http.StatusRequestEntityTooLarge, "File size too large. Maximum 50MB allowed.")
		return
	}

	now := time.Now().UTC()
	material := team.Material{
		ID:           uuid.NewString(),
		TeamID:       teamID(c),
		Title:        upload.Title,
		Description:  upload.Description,
		MaterialType: upload.MaterialType,
		FileData:     upload.FileData,
		FileName:     upload.FileName,
		FileSize:     int64(len(data)),
		MimeType:     upload.MimeType,
		IsPublic:     upload.IsPublic,
		Tags:         upload.Tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if material.Tags == nil {
		material.Tags = []string{}
	}

	s.mu.Lock()
	s.materials[material.ID] = material
	s.mu.Unlock()
	c.JSON(http.StatusOK, material)
}

func (s *Server) handleListMaterials(c *gin.Context) {
	owner := teamID(c)
	s.mu.Lock()
	out := make([]team.Material, 0)
	for _, m := range s.materials {
		if m.TeamID == owner {
			out = append(out, m)
		}
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b team.Material) int { return b.CreatedAt.Compare(a.CreatedAt) })
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDeleteMaterial(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.materials[c.Param("id")]
	if !ok || m.TeamID != teamID(c) {
		abort(c, http.StatusNotFound, "Material not found")
		return
	}
	delete(s.materials, m.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Material deleted successfully"})
}

func (s *Server) handleListMessages(c *gin.Context) {
	owner := teamID(c)
	s.mu.Lock()
	out := make([]team.Message, 0)
	for _, m := range s.messages {
		if m.ToTeamID == owner {
			out = append(out, m)
		}
	}
	s.mu.Unlock()

	slices.SortFunc(out, func(a, b team.Message) int { return b.CreatedAt.Compare(a.CreatedAt) })
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleMarkRead(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[c.Param("id")]
	if !ok || m.ToTeamID != teamID(c) {
		abort(c, http.StatusNotFound, "Message not found")
		return
	}
	m.IsRead = true
	s.messages[m.ID] = m
	c.JSON(http.StatusOK, gin.H{"message": "Message marked as read"})
}
