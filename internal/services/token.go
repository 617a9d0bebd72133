package services

import (
	"errors"
	"time"

	"github.com/Nijal-AI/brest-mcp-server/internal/config"
	"github.com/Nijal-AI/brest-mcp-server/internal/metrics"
	"github.com/Nijal-AI/brest-mcp-server/internal/models"
	"github.com/Nijal-AI/brest-mcp-server/internal/store"
	"github.com/Nijal-AI/brest-mcp-server/internal/util"
)

var (
	ErrInvalidClient        = errors.New("invalid_client")
	ErrInvalidGrant         = errors.New("invalid_grant")
	ErrUnsupportedGrantType = errors.New("unsupported_grant_type")
	ErrAccessDenied         = errors.New("access_denied")
)

// TokenRequest is a parsed /oauth/token form body.
type TokenRequest struct {
	GrantType    string
	Code         string
	RedirectURI  string
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// TokenResponse is the successful token endpoint payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

type TokenService struct {
	clients *store.ClientRegistry
	codes   *store.CodeStore
	tokens  *store.TokenStore
	config  *config.Config
	metrics metrics.Recorder
}

func NewTokenService(
	clients *store.ClientRegistry,
	codes *store.CodeStore,
	tokens *store.TokenStore,
	cfg *config.Config,
	m metrics.Recorder,
) *TokenService {
	return &TokenService{
		clients: clients,
		codes:   codes,
		tokens:  tokens,
		config:  cfg,
		metrics: m,
	}
}

// Exchange dispatches on grant_type. Only authorization_code is
// supported; anything else is rejected before touching the stores.
func (s *TokenService) Exchange(req *TokenRequest) (*TokenResponse, error) {
	switch req.GrantType {
	case "authorization_code":
		return s.exchangeCode(req)
	default:
		return nil, ErrUnsupportedGrantType
	}
}

func (s *TokenService) exchangeCode(req *TokenRequest) (*TokenResponse, error) {
	// All required fields are checked before any lookup so a malformed
	// request never reaches the stores.
	if req.Code == "" || req.RedirectURI == "" || req.ClientID == "" || req.ClientSecret == "" {
		return nil, ErrInvalidRequest
	}

	client, err := s.clients.Get(req.ClientID)
	if err != nil {
		return nil, ErrInvalidClient
	}
	if !client.CheckSecret(req.ClientSecret) {
		return nil, ErrInvalidClient
	}

	// Consume validates ownership and single use atomically. Every store
	// failure collapses to invalid_grant so a probing client learns
	// nothing about which check failed.
	code, err := s.codes.Consume(req.Code, req.ClientID, req.RedirectURI, time.Now())
	if err != nil {
		s.metrics.RecordCodeExchange("failure")
		return nil, ErrInvalidGrant
	}
	s.metrics.RecordCodeExchange("success")

	// Re-filter in case the client's allowed scopes narrowed between
	// issuance and redemption.
	scope := client.AllowedScope(code.Scope)

	accessToken, err := util.GenerateToken(48)
	if err != nil {
		return nil, err
	}
	refreshToken, err := util.GenerateToken(48)
	if err != nil {
		return nil, err
	}

	s.tokens.Put(&models.Token{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		RefreshToken: refreshToken,
		Scope:        scope,
		UserID:       code.UserID,
		ExpiresAt:    time.Now().Add(s.config.TokenExpiration),
	})
	s.metrics.RecordTokenIssued(req.GrantType)

	return &TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.config.TokenExpiration.Seconds()),
		RefreshToken: refreshToken,
		Scope:        scope,
	}, nil
}
