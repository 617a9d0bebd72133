package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nijal-AI/brest-mcp-server/internal/config"
	"github.com/Nijal-AI/brest-mcp-server/internal/metrics"
	"github.com/Nijal-AI/brest-mcp-server/internal/models"
	"github.com/Nijal-AI/brest-mcp-server/internal/store"
)

func testClient(t *testing.T) *models.Client {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("demo-secret"), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Client{
		ClientID:      "demo-client",
		SecretHash:    string(hash),
		ClientName:    "Demo Client",
		RedirectURIs:  []string{"http://localhost:8000/callback"},
		AllowedScopes: []string{"profile", "email"},
	}
}

type fixture struct {
	authz  *AuthorizationService
	tokens *TokenService
	codes  *store.CodeStore
	store  *store.TokenStore
	user   *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		AuthCodeExpiration: 10 * time.Minute,
		TokenExpiration:    time.Hour,
	}
	clients := store.NewClientRegistry(testClient(t))
	codes := store.NewCodeStore()
	tokens := store.NewTokenStore()
	consents := store.NewConsentStore()
	m := metrics.NewNoopMetrics()

	return &fixture{
		authz:  NewAuthorizationService(clients, codes, consents, cfg, m),
		tokens: NewTokenService(clients, codes, tokens, cfg, m),
		codes:  codes,
		store:  tokens,
		user:   &models.User{UserID: "user-1", Email: "user@example.com"},
	}
}

func authorizeRequest() *AuthorizationRequest {
	return &AuthorizationRequest{
		ResponseType: "code",
		ClientID:     "demo-client",
		RedirectURI:  "http://localhost:8000/callback",
		Scope:        "profile email",
		State:        "xyz",
	}
}

func TestAuthorizeLoginRequired(t *testing.T) {
	f := newFixture(t)

	res, err := f.authz.Authorize(authorizeRequest(), nil)
	require.NoError(t, err)
	assert.Equal(t, OutcomeLoginRequired, res.Outcome)
}

func TestAuthorizeConsentThenRedirect(t *testing.T) {
	f := newFixture(t)
	req := authorizeRequest()

	res, err := f.authz.Authorize(req, f.user)
	require.NoError(t, err)
	assert.Equal(t, OutcomeConsentRequired, res.Outcome)
	assert.Equal(t, "profile email", res.Scope)

	res, err = f.authz.Approve(req, f.user, true)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRedirect, res.Outcome)
	assert.NotEmpty(t, res.Code)
	assert.Equal(t, "xyz", res.State)

	// Consent is remembered: the next authorize skips the consent page.
	res, err = f.authz.Authorize(req, f.user)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRedirect, res.Outcome)
}

func TestAuthorizeDenied(t *testing.T) {
	f := newFixture(t)

	_, err := f.authz.Approve(authorizeRequest(), f.user, false)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, 0, f.codes.Len())
}

func TestAuthorizeRejectsBadClientAndRedirect(t *testing.T) {
	f := newFixture(t)

	req := authorizeRequest()
	req.ClientID = "nope"
	_, err := f.authz.Authorize(req, f.user)
	assert.ErrorIs(t, err, ErrUnknownClient)

	req = authorizeRequest()
	req.RedirectURI = "http://evil.example.com/callback"
	_, err = f.authz.Authorize(req, f.user)
	assert.ErrorIs(t, err, ErrInvalidRedirect)

	req = authorizeRequest()
	req.ResponseType = "token"
	_, err = f.authz.Authorize(req, f.user)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestScopeNarrowedToAllowed(t *testing.T) {
	f := newFixture(t)
	req := authorizeRequest()
	req.Scope = "profile email admin"

	res, err := f.authz.Approve(req, f.user, true)
	require.NoError(t, err)

	tok := f.exchange(t, res.Code)
	assert.Equal(t, "profile email", tok.Scope)
}

func (f *fixture) exchange(t *testing.T, code string) *TokenResponse {
	t.Helper()
	res, err := f.tokens.Exchange(&TokenRequest{
		GrantType:    "authorization_code",
		Code:         code,
		RedirectURI:  "http://localhost:8000/callback",
		ClientID:     "demo-client",
		ClientSecret: "demo-secret",
	})
	require.NoError(t, err)
	return res
}

func TestExchangeSuccess(t *testing.T) {
	f := newFixture(t)
	res, err := f.authz.Approve(authorizeRequest(), f.user, true)
	require.NoError(t, err)

	tok := f.exchange(t, res.Code)
	assert.Equal(t, "Bearer", tok.TokenType)
	assert.Equal(t, 3600, tok.ExpiresIn)
	assert.NotEmpty(t, tok.AccessToken)
	assert.NotEmpty(t, tok.RefreshToken)

	stored, err := f.store.Get(tok.AccessToken, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "user-1", stored.UserID)
}

func TestExchangeSingleUse(t *testing.T) {
	f := newFixture(t)
	res, err := f.authz.Approve(authorizeRequest(), f.user, true)
	require.NoError(t, err)

	f.exchange(t, res.Code)

	_, err = f.tokens.Exchange(&TokenRequest{
		GrantType:    "authorization_code",
		Code:         res.Code,
		RedirectURI:  "http://localhost:8000/callback",
		ClientID:     "demo-client",
		ClientSecret: "demo-secret",
	})
	assert.ErrorIs(t, err, ErrInvalidGrant)
}

func TestExchangeConcurrentSingleWinner(t *testing.T) {
	f := newFixture(t)
	res, err := f.authz.Approve(authorizeRequest(), f.user, true)
	require.NoError(t, err)

	const workers = 16
	var wg sync.WaitGroup
	successes := make(chan *TokenResponse, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tok, err := f.tokens.Exchange(&TokenRequest{
				GrantType:    "authorization_code",
				Code:         res.Code,
				RedirectURI:  "http://localhost:8000/callback",
				ClientID:     "demo-client",
				ClientSecret: "demo-secret",
			})
			if err == nil {
				successes <- tok
			}
		}()
	}
	wg.Wait()
	close(successes)

	var won int
	for range successes {
		won++
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 1, f.store.Len())
}

func TestExchangeRejections(t *testing.T) {
	f := newFixture(t)
	res, err := f.authz.Approve(authorizeRequest(), f.user, true)
	require.NoError(t, err)

	// Wrong secret.
	_, err = f.tokens.Exchange(&TokenRequest{
		GrantType:    "authorization_code",
		Code:         res.Code,
		RedirectURI:  "http://localhost:8000/callback",
		ClientID:     "demo-client",
		ClientSecret: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidClient)

	// Wrong redirect_uri.
	_, err = f.tokens.Exchange(&TokenRequest{
		GrantType:    "authorization_code",
		Code:         res.Code,
		RedirectURI:  "http://localhost:8000/other",
		ClientID:     "demo-client",
		ClientSecret: "demo-secret",
	})
	assert.ErrorIs(t, err, ErrInvalidGrant)

	// Missing required fields fail as invalid_request before any lookup,
	// and the code survives.
	for _, req := range []*TokenRequest{
		{GrantType: "authorization_code", RedirectURI: "http://localhost:8000/callback", ClientID: "demo-client", ClientSecret: "demo-secret"},
		{GrantType: "authorization_code", Code: res.Code, ClientID: "demo-client", ClientSecret: "demo-secret"},
		{GrantType: "authorization_code", Code: res.Code, RedirectURI: "http://localhost:8000/callback", ClientSecret: "demo-secret"},
		{GrantType: "authorization_code", Code: res.Code, RedirectURI: "http://localhost:8000/callback", ClientID: "demo-client"},
	} {
		_, err = f.tokens.Exchange(req)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}

	// The failed attempts must not have consumed the code.
	f.exchange(t, res.Code)
}

func TestExchangeUnsupportedGrant(t *testing.T) {
	f := newFixture(t)
	_, err := f.tokens.Exchange(&TokenRequest{GrantType: "password"})
	assert.ErrorIs(t, err, ErrUnsupportedGrantType)
}

func TestUserServiceSessionLifecycle(t *testing.T) {
	sessions := store.NewSessionStore()
	svc := NewUserService(sessions)

	sid, err := svc.Login("user@example.com", "any-password")
	require.NoError(t, err)

	user, err := svc.Current(sid)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", user.Email)
	assert.NotEmpty(t, user.UserID)

	svc.Logout(sid)
	_, err = svc.Current(sid)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestLoginRejectsEmpty(t *testing.T) {
	svc := NewUserService(store.NewSessionStore())

	_, err := svc.Login("", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login("user@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
