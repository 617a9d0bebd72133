package store

import (
	"sync"
	"testing"
	"time"

	"github.com/Nijal-AI/brest-mcp-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRegistry(t *testing.T) {
	client := &models.Client{ClientID: "demo-client"}
	registry := NewClientRegistry(client)

	got, err := registry.Get("demo-client")
	require.NoError(t, err)
	assert.Same(t, client, got)

	_, err = registry.Get("other-client")
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestSessionStoreLifecycle(t *testing.T) {
	sessions := NewSessionStore()
	user := &models.User{UserID: "u1", Email: "alice@example.com"}

	sid, err := sessions.Create(user)
	require.NoError(t, err)
	require.NotEmpty(t, sid)

	got, err := sessions.Get(sid)
	require.NoError(t, err)
	assert.Same(t, user, got)

	sessions.Delete(sid)
	_, err = sessions.Get(sid)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting twice is fine
	sessions.Delete(sid)
}

func TestSessionStoreUniqueIdentifiers(t *testing.T) {
	sessions := NewSessionStore()
	user := &models.User{UserID: "u1"}

	a, err := sessions.Create(user)
	require.NoError(t, err)
	b, err := sessions.Create(user)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func newTestCode(expiresAt time.Time) *models.AuthorizationCode {
	return &models.AuthorizationCode{
		Code:        "test-code",
		ClientID:    "demo-client",
		RedirectURI: "http://localhost:8000/callback",
		Scope:       "profile email",
		UserID:      "u1",
		ExpiresAt:   expiresAt,
	}
}

func TestCodeStoreConsume(t *testing.T) {
	now := time.Now()
	codes := NewCodeStore()
	codes.Put(newTestCode(now.Add(10 * time.Minute)))

	record, err := codes.Consume(
		"test-code", "demo-client", "http://localhost:8000/callback", now,
	)
	require.NoError(t, err)
	assert.Equal(t, "u1", record.UserID)
	assert.Equal(t, 0, codes.Len())

	// Single use: the second redemption sees nothing
	_, err = codes.Consume(
		"test-code", "demo-client", "http://localhost:8000/callback", now,
	)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestCodeStoreConsumeExpired(t *testing.T) {
	issued := time.Now()
	codes := NewCodeStore()
	codes.Put(newTestCode(issued.Add(600 * time.Second)))

	// One second past expiry: rejected and removed
	_, err := codes.Consume(
		"test-code", "demo-client", "http://localhost:8000/callback",
		issued.Add(601*time.Second),
	)
	assert.ErrorIs(t, err, ErrCodeExpired)
	assert.Equal(t, 0, codes.Len())
}

func TestCodeStoreConsumeMismatch(t *testing.T) {
	now := time.Now()
	codes := NewCodeStore()
	codes.Put(newTestCode(now.Add(10 * time.Minute)))

	_, err := codes.Consume(
		"test-code", "other-client", "http://localhost:8000/callback", now,
	)
	assert.ErrorIs(t, err, ErrCodeClientMismatch)

	_, err = codes.Consume(
		"test-code", "demo-client", "http://localhost:9999/other", now,
	)
	assert.ErrorIs(t, err, ErrCodeRedirectMismatch)

	// Mismatches must not consume the code
	assert.Equal(t, 1, codes.Len())
	_, err = codes.Consume(
		"test-code", "demo-client", "http://localhost:8000/callback", now,
	)
	assert.NoError(t, err)
}

func TestCodeStoreConcurrentConsume(t *testing.T) {
	now := time.Now()
	codes := NewCodeStore()
	codes.Put(newTestCode(now.Add(10 * time.Minute)))

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := codes.Consume(
				"test-code", "demo-client", "http://localhost:8000/callback", now,
			)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrCodeNotFound)
		}
	}
	assert.Equal(t, 1, successes, "exactly one redemption may win")
}

func TestTokenStoreExpiry(t *testing.T) {
	now := time.Now()
	tokens := NewTokenStore()
	tokens.Put(&models.Token{
		AccessToken: "tok",
		TokenType:   "Bearer",
		UserID:      "u1",
		ExpiresAt:   now.Add(time.Hour),
	})

	got, err := tokens.Get("tok", now)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)

	// Expired tokens are treated as absent and reaped
	_, err = tokens.Get("tok", now.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrTokenNotFound)
	assert.Equal(t, 0, tokens.Len())

	_, err = tokens.Get("never-issued", now)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestConsentStoreIdempotent(t *testing.T) {
	consents := NewConsentStore()

	assert.False(t, consents.HasConsent("u1", "demo-client"))

	consents.Grant("u1", "demo-client")
	consents.Grant("u1", "demo-client")

	assert.True(t, consents.HasConsent("u1", "demo-client"))
	assert.False(t, consents.HasConsent("u1", "other-client"))
	assert.False(t, consents.HasConsent("u2", "demo-client"))
}
