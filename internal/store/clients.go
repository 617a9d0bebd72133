package store

import "github.com/Nijal-AI/brest-mcp-server/internal/models"

// ClientRegistry is a static lookup of registered OAuth clients. Clients are
// provisioned once at startup; the registry is read-only afterwards, so no
// locking is needed.
type ClientRegistry struct {
	clients map[string]*models.Client
}

// NewClientRegistry builds a registry from the provisioned clients.
func NewClientRegistry(clients ...*models.Client) *ClientRegistry {
	m := make(map[string]*models.Client, len(clients))
	for _, c := range clients {
		m[c.ClientID] = c
	}
	return &ClientRegistry{clients: m}
}

// Get returns the client registered under clientID.
func (r *ClientRegistry) Get(clientID string) (*models.Client, error) {
	c, ok := r.clients[clientID]
	if !ok {
		return nil, ErrClientNotFound
	}
	return c, nil
}
