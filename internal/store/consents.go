package store

import "sync"

// ConsentStore records which clients a user has already authorized, so repeat
// authorization requests skip the consent page. Records persist for the
// process lifetime.
type ConsentStore struct {
	mu     sync.RWMutex
	grants map[string]map[string]bool // user_id -> set of client_ids
}

// NewConsentStore creates an empty consent store.
func NewConsentStore() *ConsentStore {
	return &ConsentStore{grants: make(map[string]map[string]bool)}
}

// Grant records the user's consent for a client. Granting twice is a no-op.
func (s *ConsentStore) Grant(userID, clientID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.grants[userID]
	if !ok {
		set = make(map[string]bool)
		s.grants[userID] = set
	}
	set[clientID] = true
}

// HasConsent reports whether the user has previously authorized the client.
func (s *ConsentStore) HasConsent(userID, clientID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.grants[userID][clientID]
}
