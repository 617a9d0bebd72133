package models

import "time"

// AuthorizationCode is a single-use code binding a client, redirect URI,
// granted scope and user. Codes live for ten minutes from issuance and are
// deleted on redemption or on the first lookup after expiry.
type AuthorizationCode struct {
	Code        string
	ClientID    string
	RedirectURI string
	Scope       string
	UserID      string
	ExpiresAt   time.Time
}

// IsExpired reports whether the code has passed its expiry at the given time.
func (c *AuthorizationCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
