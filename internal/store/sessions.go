package store

import (
	"sync"

	"github.com/Nijal-AI/brest-mcp-server/internal/models"
	"github.com/Nijal-AI/brest-mcp-server/internal/util"
)

// SessionStore maps a browser session identifier to an authenticated user.
// The cookie carries only the identifier; identity lives here.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.User
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*models.User)}
}

// Create registers a new session for user and returns its identifier.
func (s *SessionStore) Create(user *models.User) (string, error) {
	sid, err := util.GenerateToken(32)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.sessions[sid] = user
	s.mu.Unlock()

	return sid, nil
}

// Get returns the user bound to the session identifier.
func (s *SessionStore) Get(sessionID string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// Delete removes a session. Deleting an unknown session is a no-op.
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}
