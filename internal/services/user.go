package services

import (
	"errors"

	"github.com/google/uuid"

	"github.com/Nijal-AI/brest-mcp-server/internal/models"
	"github.com/Nijal-AI/brest-mcp-server/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type UserService struct {
	sessions *store.SessionStore
}

func NewUserService(sessions *store.SessionStore) *UserService {
	return &UserService{sessions: sessions}
}

// Login authenticates the user and opens a session, returning the
// session id to place in the cookie. Any non-empty email and password
// pair is accepted; the demo deployment has no user database.
func (s *UserService) Login(email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user := &models.User{
		UserID: uuid.New().String(),
		Email:  email,
	}
	return s.sessions.Create(user)
}

// Current resolves a session id to the signed-in user, or an error when
// the session does not exist.
func (s *UserService) Current(sessionID string) (*models.User, error) {
	return s.sessions.Get(sessionID)
}

// Logout discards the session. Unknown ids are a no-op.
func (s *UserService) Logout(sessionID string) {
	s.sessions.Delete(sessionID)
}
