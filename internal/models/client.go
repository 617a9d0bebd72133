package models

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Client is a registered OAuth client. Clients are provisioned at startup and
// immutable for the process lifetime; there is no self-registration endpoint.
type Client struct {
	ClientID      string
	SecretHash    string // bcrypt hash of the client secret
	ClientName    string
	RedirectURIs  []string
	AllowedScopes []string
}

// CheckRedirectURI reports whether uri is an exact member of the registered
// redirect URI set. No prefix or pattern matching is performed.
func (c *Client) CheckRedirectURI(uri string) bool {
	if uri == "" {
		return false
	}
	for _, registered := range c.RedirectURIs {
		if registered == uri {
			return true
		}
	}
	return false
}

// CheckSecret compares a plaintext secret against the stored bcrypt hash.
func (c *Client) CheckSecret(plain string) bool {
	if c.SecretHash == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.SecretHash), []byte(plain)) == nil
}

// AllowedScope returns the intersection of the requested scope and the
// client's allowed scopes, preserving the allowed-scope order. An empty
// request grants everything the client is allowed.
func (c *Client) AllowedScope(requested string) string {
	if requested == "" {
		return strings.Join(c.AllowedScopes, " ")
	}
	wanted := make(map[string]bool)
	for _, s := range strings.Fields(requested) {
		wanted[s] = true
	}
	granted := make([]string, 0, len(c.AllowedScopes))
	for _, s := range c.AllowedScopes {
		if wanted[s] {
			granted = append(granted, s)
		}
	}
	return strings.Join(granted, " ")
}
