// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package auth

import "context"

type facadeKey struct{}

// WithFacade returns a context carrying f.
func WithFacade(ctx context.Context, f *Facade) context.Context {
	return context.WithValue(ctx, facadeKey{}, f)
}

// FromContext returns the Facade attached by WithFacade.
// It panics if there is none.
func FromContext(ctx context.Context) *Facade {
	f, ok := ctx.Value(facadeKey{}).(*Facade)
	if !ok || f == nil {
		panic("auth: facade used outside of a session provider")
	}
	return f
}
