package models

// User is an authenticated end user, as established by the login flow and
// referenced by session identifier.
type User struct {
	UserID string
	Email  string
}
