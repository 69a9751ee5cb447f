// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package team

import "errors"

// Kind classifies session errors.
type Kind int

// Error kinds.
const (
	KindUnknown Kind = iota
	// KindValidation is a locally detected input problem; nothing was sent.
	KindValidation
	// KindAuth means the Team API answered with a non-2xx status.
	KindAuth
	// KindNetwork means no usable response was received.
	KindNetwork
	// KindNotAuthenticated is an authenticated-only call made without a session.
	KindNotAuthenticated
	// KindSuperseded means a newer session operation won and this result was dropped.
	KindSuperseded
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNetwork:
		return "network"
	case KindNotAuthenticated:
		return "not_authenticated"
	case KindSuperseded:
		return "superseded"
	default:
		return "unknown"
	}
}

// Fixed messages for errors not produced by the Team API.
const (
	NotAuthenticatedMessage = "Not authenticated"
	SupersededMessage       = "Superseded by a newer session operation"
)

// Error is the typed failure returned by every session operation.
// Message is always safe to show to the user.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError returns a KindValidation error.
func NewValidationError(op, message string) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message}
}

// NewAuthError returns a KindAuth error for a server rejection.
func NewAuthError(op string, status int, message string) *Error {
	return &Error{Kind: KindAuth, Op: op, Status: status, Message: message}
}

// NewNetworkError returns a KindNetwork error wrapping cause.
func NewNetworkError(op, message string, cause error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Message: message, Err: cause}
}

// NewNotAuthenticatedError returns a KindNotAuthenticated error.
func NewNotAuthenticatedError(op string) *Error {
	return &Error{Kind: KindNotAuthenticated, Op: op, Message: NotAuthenticatedMessage}
}

// NewSupersededError returns a KindSuperseded error.
func NewSupersededError(op string) *Error {
	return &Error{Kind: KindSuperseded, Op: op, Message: SupersededMessage}
}

// KindOf returns the kind of err, or KindUnknown when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// MessageOf returns the user-facing message for err.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsAuth reports whether err is a server rejection or a missing session.
func IsAuth(err error) bool {
	k := KindOf(err)
	return k == KindAuth || k == KindNotAuthenticated
}

// IsUnauthorized reports whether the server rejected the token itself.
func IsUnauthorized(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindAuth && (e.Status == 401 || e.Status == 403)
}
