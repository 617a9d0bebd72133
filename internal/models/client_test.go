package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("demo-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	return &Client{
		ClientID:      "demo-client",
		SecretHash:    string(hash),
		ClientName:    "Demo Client",
		RedirectURIs:  []string{"http://localhost:8000/callback"},
		AllowedScopes: []string{"profile", "email"},
	}
}

func TestClientCheckRedirectURI(t *testing.T) {
	client := testClient(t)

	assert.True(t, client.CheckRedirectURI("http://localhost:8000/callback"))
	assert.False(t, client.CheckRedirectURI("http://localhost:8000/callback/"))
	assert.False(t, client.CheckRedirectURI("http://evil.example.com/callback"))
	assert.False(t, client.CheckRedirectURI(""))
}

func TestClientCheckSecret(t *testing.T) {
	client := testClient(t)

	assert.True(t, client.CheckSecret("demo-secret"))
	assert.False(t, client.CheckSecret("wrong-secret"))
	assert.False(t, client.CheckSecret(""))
}

func TestClientAllowedScope(t *testing.T) {
	client := testClient(t)

	tests := []struct {
		name      string
		requested string
		want      string
	}{
		{"empty request grants all", "", "profile email"},
		{"exact match", "profile email", "profile email"},
		{"subset", "email", "email"},
		{"unknown scopes dropped", "profile admin", "profile"},
		{"nothing in common", "admin root", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, client.AllowedScope(tt.requested))
		})
	}
}

func TestAuthorizationCodeIsExpired(t *testing.T) {
	now := time.Now()
	code := &AuthorizationCode{Code: "abc", ExpiresAt: now.Add(10 * time.Minute)}

	assert.False(t, code.IsExpired(now))
	assert.False(t, code.IsExpired(now.Add(10*time.Minute)))
	assert.True(t, code.IsExpired(now.Add(10*time.Minute+time.Second)))
}

func TestTokenIsExpired(t *testing.T) {
	now := time.Now()
	token := &Token{AccessToken: "tok", ExpiresAt: now.Add(time.Hour)}

	assert.False(t, token.IsExpired(now))
	assert.True(t, token.IsExpired(now.Add(time.Hour+time.Second)))
}
