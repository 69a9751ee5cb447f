// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package team

import "time"

// SocialMedia holds a team's optional social links.
type SocialMedia struct {
	Instagram *string `json:"instagram,omitempty"`
	LinkedIn  *string `json:"linkedin,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	YouTube   *string `json:"youtube,omitempty"`
}

// Profile is the authenticated team's account data.
type Profile struct {
	ID           string      `json:"id"`
	TeamName     string      `json:"team_name"`
	TeamNumber   *string     `json:"team_number,omitempty"`
	ContactEmail string      `json:"contact_email,omitempty"`
	Description  *string     `json:"description,omitempty"`
	LogoURL      *string     `json:"logo_url,omitempty"`
	SocialMedia  SocialMedia `json:"social_media"`
	Location     *string     `json:"location,omitempty"`
	FoundedYear  *int        `json:"founded_year,omitempty"`
	Website      *string     `json:"website,omitempty"`
	IsActive     bool        `json:"is_active"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Clone returns a deep copy so callers can't mutate session-owned state.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	c := *p
	c.TeamNumber = cloneString(p.TeamNumber)
	c.Description = cloneString(p.Description)
	c.LogoURL = cloneString(p.LogoURL)
	c.Location = cloneString(p.Location)
	c.Website = cloneString(p.Website)
	if p.FoundedYear != nil {
		y := *p.FoundedYear
		c.FoundedYear = &y
	}
	c.SocialMedia = SocialMedia{
		Instagram: cloneString(p.SocialMedia.Instagram),
		LinkedIn:  cloneString(p.SocialMedia.LinkedIn),
		Twitter:   cloneString(p.SocialMedia.Twitter),
		YouTube:   cloneString(p.SocialMedia.YouTube),
	}
	return &c
}

// ProfileUpdate is a partial profile. Nil fields are left untouched by the server.
type ProfileUpdate struct {
	TeamName    *string      `json:"team_name,omitempty"`
	TeamNumber  *string      `json:"team_number,omitempty"`
	Description *string      `json:"description,omitempty"`
	LogoData    *string      `json:"logo_data,omitempty"`
	SocialMedia *SocialMedia `json:"social_media,omitempty"`
	Location    *string      `json:"location,omitempty"`
	FoundedYear *int         `json:"founded_year,omitempty"`
	Website     *string      `json:"website,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u ProfileUpdate) IsEmpty() bool {
	return u.TeamName == nil && u.TeamNumber == nil && u.Description == nil &&
		u.LogoData == nil && u.SocialMedia == nil && u.Location == nil &&
		u.FoundedYear == nil && u.Website == nil
}

// AuthResponse is the Team API reply to register and login.
type AuthResponse struct {
	AccessToken Token    `json:"access_token"`
	TokenType   string   `json:"token_type"`
	TeamProfile *Profile `json:"team_profile"`
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
