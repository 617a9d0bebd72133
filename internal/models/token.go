package models

import "time"

// Token is an issued bearer token with its optional refresh token, granted
// scope and owner. Expiry is enforced at verification time.
type Token struct {
	AccessToken  string
	TokenType    string
	RefreshToken string
	Scope        string
	UserID       string
	ExpiresAt    time.Time
}

// IsExpired reports whether the token has passed its expiry at the given time.
func (t *Token) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
