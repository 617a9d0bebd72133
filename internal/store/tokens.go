package store

import (
	"sync"
	"time"

	"github.com/Nijal-AI/brest-mcp-server/internal/models"
)

// TokenStore holds issued bearer tokens keyed by access token string. Expired
// tokens are treated as absent and removed on the first lookup after expiry.
type TokenStore struct {
	mu     sync.Mutex
	tokens map[string]*models.Token
}

// NewTokenStore creates an empty token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]*models.Token)}
}

// Put stores an issued token.
func (s *TokenStore) Put(token *models.Token) {
	s.mu.Lock()
	s.tokens[token.AccessToken] = token
	s.mu.Unlock()
}

// Get returns the token record for accessToken. An expired record is deleted
// and reported as not found.
func (s *TokenStore) Get(accessToken string, now time.Time) (*models.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, ok := s.tokens[accessToken]
	if !ok {
		return nil, ErrTokenNotFound
	}
	if token.IsExpired(now) {
		delete(s.tokens, accessToken)
		return nil, ErrTokenNotFound
	}
	return token, nil
}

// Delete removes a token. Deleting an unknown token is a no-op.
func (s *TokenStore) Delete(accessToken string) {
	s.mu.Lock()
	delete(s.tokens, accessToken)
	s.mu.Unlock()
}

// Len returns the number of stored tokens, including any not yet reaped.
func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}
