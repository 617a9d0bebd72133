// Package token verifies bearer credentials presented on protected routes.
// Two interchangeable strategies exist: opaque tokens looked up in the token
// store (session-issued flow) and stateless HS256 JWTs (externally reachable
// deployment variant).
package token

import (
	"context"
	"errors"
)

// ErrUnauthorized covers every verification failure: absent, malformed,
// unknown and expired credentials all look the same to the caller.
var ErrUnauthorized = errors.New("token: unauthorized")

// Principal is the minimal identity extracted from a valid credential.
// Callers must not assume anything beyond the subject is populated.
type Principal struct {
	UserID string
	Scope  string
}

// Verifier validates a bearer credential and returns the principal it proves.
type Verifier interface {
	Verify(ctx context.Context, bearer string) (*Principal, error)
}
