// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package team

import "time"

// MaterialType classifies uploaded team material.
type MaterialType string

// Material types accepted by the Team API.
const (
	MaterialDocument     MaterialType = "document"
	MaterialVideo        MaterialType = "video"
	MaterialImage        MaterialType = "image"
	MaterialPresentation MaterialType = "presentation"
	MaterialCode         MaterialType = "code"
	MaterialOther        MaterialType = "other"
)

// Valid reports whether t is a known material type.
func (t MaterialType) Valid() bool {
	switch t {
	case MaterialDocument, MaterialVideo, MaterialImage, MaterialPresentation, MaterialCode, MaterialOther:
		return true
	}
	return false
}

// Material is a file a team has uploaded.
type Material struct {
	ID           string       `json:"id"`
	TeamID       string       `json:"team_id"`
	Title        string       `json:"title"`
	Description  *string      `json:"description,omitempty"`
	MaterialType MaterialType `json:"material_type"`
	FileData     string       `json:"file_data,omitempty"`
	FileName     string       `json:"file_name"`
	FileSize     int64        `json:"file_size"`
	MimeType     string       `json:"mime_type"`
	IsPublic     bool         `json:"is_public"`
	Tags         []string     `json:"tags"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// MaterialUpload is the request body for a new material. FileData is base64.
type MaterialUpload struct {
	Title        string       `json:"title"`
	Description  *string      `json:"description,omitempty"`
	MaterialType MaterialType `json:"material_type"`
	FileData     string       `json:"file_data"`
	FileName     string       `json:"file_name"`
	MimeType     string       `json:"mime_type"`
	IsPublic     bool         `json:"is_public"`
	Tags         []string     `json:"tags"`
}

// Message is a contact message addressed to the authenticated team.
type Message struct {
	ID        string    `json:"id"`
	FromName  string    `json:"from_name"`
	FromEmail string    `json:"from_email"`
	ToTeamID  string    `json:"to_team_id"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CourseID  *string   `json:"course_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}
