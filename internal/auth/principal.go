// Package auth resolves the calling principal from request identity metadata
// and issues the bearer tokens handed out by the Login operations.
package auth

import (
	"context"
	"crypto/subtle"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Principal is the authenticated caller of a self-scoped operation.
type Principal struct {
	ID   int64
	Role Role
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// PasswordMatches compares stored and supplied credentials as plain values.
func PasswordMatches(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
