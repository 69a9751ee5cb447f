// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import "github.com/holomush/teamauth/internal/team"

// Result is the outcome of a Facade action.
type Result[T any] struct {
	Success bool
	Data    T
	// Error is the user-facing message, empty on success.
	Error string
	// Err is the underlying *team.Error, nil on success.
	Err error
}

func succeed[T any](data T) Result[T] {
	return Result[T]{Success: true, Data: data}
}

func fail[T any](err error) Result[T] {
	return Result[T]{Error: team.MessageOf(err), Err: err}
}

func from[T any](data T, err error) Result[T] {
	if err != nil {
		return fail[T](err)
	}
	return succeed(data)
}

// Empty is the Data of actions that return nothing.
type Empty struct{}
