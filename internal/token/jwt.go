package token

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier validates HS256-signed credentials with a shared secret. No
// revocation list is consulted; a credential is good until it expires.
type JWTVerifier struct {
	secret []byte
}

var _ Verifier = (*JWTVerifier)(nil)

// NewJWTVerifier creates a verifier for HS256 credentials signed with secret.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify decodes and checks the signature and expiry of the credential, and
// extracts the subject claim.
func (v *JWTVerifier) Verify(ctx context.Context, bearer string) (*Principal, error) {
	if bearer == "" {
		return nil, ErrUnauthorized
	}

	parsed, err := jwt.Parse(bearer, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthorized
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrUnauthorized
	}
	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, ErrUnauthorized
	}
	scope, _ := claims["scope"].(string)

	return &Principal{UserID: subject, Scope: scope}, nil
}

// Sign issues an HS256 credential for subject, expiring after lifetime.
// The session-issued flow never calls this; it exists for the deployment
// variant that trades store lookups for stateless verification.
func (v *JWTVerifier) Sign(subject, scope string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"scope": scope,
		"iat":   now.Unix(),
		"exp":   now.Add(lifetime).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}
