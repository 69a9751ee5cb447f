// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package team

// PasswordMismatchMessage is shown when the registration passwords differ.
const PasswordMismatchMessage = "Şifreler eşleşmiyor"

// RegistrationRequest collects the fields needed to create a team.
// ConfirmPassword is checked locally and never sent to the Team API.
type RegistrationRequest struct {
	TeamName        string  `json:"team_name"`
	TeamNumber      *string `json:"team_number"`
	ContactEmail    string  `json:"contact_email"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"-"`
	Description     *string `json:"description"`
	Location        *string `json:"location"`
	FoundedYear     *int    `json:"founded_year"`
	Website         *string `json:"website"`
}

// Validate checks the password confirmation.
func (r RegistrationRequest) Validate() error {
	if r.Password != r.ConfirmPassword {
		return NewValidationError("register", PasswordMismatchMessage)
	}
	return nil
}

// Credentials is an email and password pair used once for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ContactRequest is a message sent to another team.
type ContactRequest struct {
	FromName  string  `json:"from_name"`
	FromEmail string  `json:"from_email"`
	Subject   string  `json:"subject"`
	Message   string  `json:"message"`
	CourseID  *string `json:"course_id,omitempty"`
}
