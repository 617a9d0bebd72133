package store

import "errors"

var (
	// ErrClientNotFound indicates an unregistered client_id
	ErrClientNotFound = errors.New("store: client not found")

	// ErrSessionNotFound indicates an unknown or logged-out session identifier
	ErrSessionNotFound = errors.New("store: session not found")

	// ErrCodeNotFound indicates an unknown or already consumed authorization code
	ErrCodeNotFound = errors.New("store: authorization code not found")

	// ErrCodeExpired indicates the authorization code passed its expiry;
	// the code is deleted as a side effect of the failed lookup
	ErrCodeExpired = errors.New("store: authorization code expired")

	// ErrCodeClientMismatch indicates the code was issued to a different client
	ErrCodeClientMismatch = errors.New("store: authorization code client mismatch")

	// ErrCodeRedirectMismatch indicates the redeeming redirect_uri differs from
	// the one bound at issuance
	ErrCodeRedirectMismatch = errors.New("store: authorization code redirect_uri mismatch")

	// ErrTokenNotFound indicates an unknown or expired access token
	ErrTokenNotFound = errors.New("store: token not found")
)
