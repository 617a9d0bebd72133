package token

import (
	"context"
	"time"

	"github.com/Nijal-AI/brest-mcp-server/internal/store"
)

// OpaqueVerifier validates bearer strings against the in-memory token store.
// Expired tokens are treated exactly like tokens that were never issued.
type OpaqueVerifier struct {
	tokens *store.TokenStore
}

var _ Verifier = (*OpaqueVerifier)(nil)

// NewOpaqueVerifier creates a verifier backed by the given token store.
func NewOpaqueVerifier(tokens *store.TokenStore) *OpaqueVerifier {
	return &OpaqueVerifier{tokens: tokens}
}

// Verify looks the bearer string up in the token store.
func (v *OpaqueVerifier) Verify(ctx context.Context, bearer string) (*Principal, error) {
	if bearer == "" {
		return nil, ErrUnauthorized
	}
	record, err := v.tokens.Get(bearer, time.Now())
	if err != nil {
		return nil, ErrUnauthorized
	}
	return &Principal{UserID: record.UserID, Scope: record.Scope}, nil
}
