package store

import (
	"sync"
	"time"

	"github.com/Nijal-AI/brest-mcp-server/internal/models"
)

// CodeStore holds pending authorization codes. All validation that touches the
// stored record happens inside Consume under the store lock, so a code can be
// redeemed at most once no matter how many exchanges race for it.
type CodeStore struct {
	mu    sync.Mutex
	codes map[string]*models.AuthorizationCode
}

// NewCodeStore creates an empty authorization code store.
func NewCodeStore() *CodeStore {
	return &CodeStore{codes: make(map[string]*models.AuthorizationCode)}
}

// Put stores a freshly minted code.
func (s *CodeStore) Put(code *models.AuthorizationCode) {
	s.mu.Lock()
	s.codes[code.Code] = code
	s.mu.Unlock()
}

// Consume atomically validates and deletes the code. The record is removed
// when redemption succeeds and when it has expired (lazy expiry); it is kept
// on client or redirect mismatch so the legitimate client can still redeem it.
// A concurrent second redemption observes ErrCodeNotFound.
func (s *CodeStore) Consume(
	code, clientID, redirectURI string,
	now time.Time,
) (*models.AuthorizationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.codes[code]
	if !ok {
		return nil, ErrCodeNotFound
	}
	if record.IsExpired(now) {
		delete(s.codes, code)
		return nil, ErrCodeExpired
	}
	if record.ClientID != clientID {
		return nil, ErrCodeClientMismatch
	}
	if record.RedirectURI != redirectURI {
		return nil, ErrCodeRedirectMismatch
	}

	delete(s.codes, code)
	return record, nil
}

// Len returns the number of pending codes.
func (s *CodeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}
