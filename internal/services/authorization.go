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
	ErrUnknownClient   = errors.New("unknown client")
	ErrInvalidRedirect = errors.New("redirect_uri not registered for client")
	ErrInvalidRequest  = errors.New("invalid_request")
)

// AuthorizeOutcome tells the handler what to render next.
type AuthorizeOutcome int

const (
	// OutcomeLoginRequired means no authenticated session was found.
	OutcomeLoginRequired AuthorizeOutcome = iota
	// OutcomeConsentRequired means the user is signed in but has not
	// yet approved this client.
	OutcomeConsentRequired
	// OutcomeRedirect means an authorization code was issued and the
	// user agent should be sent back to the client.
	OutcomeRedirect
)

// AuthorizeResult carries the data for whichever outcome applies.
type AuthorizeResult struct {
	Outcome AuthorizeOutcome

	// Set for OutcomeConsentRequired.
	Client *models.Client
	User   *models.User
	Scope  string

	// Set for OutcomeRedirect.
	Code        string
	RedirectURI string
	State       string
}

// AuthorizationRequest is a parsed /oauth/authorize query.
type AuthorizationRequest struct {
	ResponseType string
	ClientID     string
	RedirectURI  string
	Scope        string
	State        string
}

type AuthorizationService struct {
	clients  *store.ClientRegistry
	codes    *store.CodeStore
	consents *store.ConsentStore
	config   *config.Config
	metrics  metrics.Recorder
}

func NewAuthorizationService(
	clients *store.ClientRegistry,
	codes *store.CodeStore,
	consents *store.ConsentStore,
	cfg *config.Config,
	m metrics.Recorder,
) *AuthorizationService {
	return &AuthorizationService{
		clients:  clients,
		codes:    codes,
		consents: consents,
		config:   cfg,
		metrics:  m,
	}
}

// Validate checks the request against the client registry. Client and
// redirect errors must never trigger a redirect back to the given URI, so
// they are returned as errors for the handler to render directly.
func (s *AuthorizationService) Validate(req *AuthorizationRequest) (*models.Client, error) {
	if req.ClientID == "" || req.RedirectURI == "" {
		return nil, ErrInvalidRequest
	}

	client, err := s.clients.Get(req.ClientID)
	if err != nil {
		return nil, ErrUnknownClient
	}

	if !client.CheckRedirectURI(req.RedirectURI) {
		return nil, ErrInvalidRedirect
	}

	if req.ResponseType != "code" {
		return nil, ErrInvalidRequest
	}

	return client, nil
}

// Authorize runs the authorization decision for an already-validated
// request. user is nil when no session exists.
func (s *AuthorizationService) Authorize(req *AuthorizationRequest, user *models.User) (*AuthorizeResult, error) {
	client, err := s.Validate(req)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return &AuthorizeResult{Outcome: OutcomeLoginRequired}, nil
	}

	granted := client.AllowedScope(req.Scope)

	if !s.consents.HasConsent(user.UserID, client.ClientID) {
		return &AuthorizeResult{
			Outcome: OutcomeConsentRequired,
			Client:  client,
			User:    user,
			Scope:   granted,
		}, nil
	}

	return s.issueCode(client, user, req, granted)
}

// Approve records the user's consent decision and, when approved, issues
// a code as Authorize would.
func (s *AuthorizationService) Approve(req *AuthorizationRequest, user *models.User, approved bool) (*AuthorizeResult, error) {
	client, err := s.Validate(req)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return &AuthorizeResult{Outcome: OutcomeLoginRequired}, nil
	}

	if !approved {
		return nil, ErrAccessDenied
	}

	s.consents.Grant(user.UserID, client.ClientID)
	return s.issueCode(client, user, req, client.AllowedScope(req.Scope))
}

func (s *AuthorizationService) issueCode(client *models.Client, user *models.User, req *AuthorizationRequest, scope string) (*AuthorizeResult, error) {
	code, err := util.GenerateToken(48)
	if err != nil {
		return nil, err
	}

	s.codes.Put(&models.AuthorizationCode{
		Code:        code,
		ClientID:    client.ClientID,
		RedirectURI: req.RedirectURI,
		Scope:       scope,
		UserID:      user.UserID,
		ExpiresAt:   time.Now().Add(s.config.AuthCodeExpiration),
	})
	s.metrics.RecordAuthCodeIssued()

	return &AuthorizeResult{
		Outcome:     OutcomeRedirect,
		Code:        code,
		RedirectURI: req.RedirectURI,
		State:       req.State,
	}, nil
}
