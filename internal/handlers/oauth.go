package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Nijal-AI/brest-mcp-server/internal/middleware"
	"github.com/Nijal-AI/brest-mcp-server/internal/models"
	"github.com/Nijal-AI/brest-mcp-server/internal/services"
)

type OAuthHandler struct {
	authService  *services.AuthorizationService
	tokenService *services.TokenService
	userService  *services.UserService
}

func NewOAuthHandler(as *services.AuthorizationService, ts *services.TokenService, us *services.UserService) *OAuthHandler {
	return &OAuthHandler{
		authService:  as,
		tokenService: ts,
		userService:  us,
	}
}

func authorizeRequestFromQuery(c *gin.Context) *services.AuthorizationRequest {
	return &services.AuthorizationRequest{
		ResponseType: c.Query("response_type"),
		ClientID:     c.Query("client_id"),
		RedirectURI:  c.Query("redirect_uri"),
		Scope:        c.Query("scope"),
		State:        c.Query("state"),
	}
}

func authorizeRequestFromForm(c *gin.Context) *services.AuthorizationRequest {
	return &services.AuthorizationRequest{
		ResponseType: c.PostForm("response_type"),
		ClientID:     c.PostForm("client_id"),
		RedirectURI:  c.PostForm("redirect_uri"),
		Scope:        c.PostForm("scope"),
		State:        c.PostForm("state"),
	}
}

// sessionUser resolves the cookie session to a user, nil when not signed in.
func (h *OAuthHandler) sessionUser(c *gin.Context) *models.User {
	session := sessions.Default(c)
	sid, _ := session.Get(middleware.SessionKey).(string)
	if sid == "" {
		return nil
	}
	user, err := h.userService.Current(sid)
	if err != nil {
		return nil
	}
	return user
}

// Authorize handles GET /oauth/authorize
func (h *OAuthHandler) Authorize(c *gin.Context) {
	req := authorizeRequestFromQuery(c)
	h.runAuthorize(c, req, func() (*services.AuthorizeResult, error) {
		return h.authService.Authorize(req, h.sessionUser(c))
	})
}

// Approve handles POST /oauth/authorize/approve, the consent form submit.
func (h *OAuthHandler) Approve(c *gin.Context) {
	req := authorizeRequestFromForm(c)
	approved := c.PostForm("action") == "approve"
	h.runAuthorize(c, req, func() (*services.AuthorizeResult, error) {
		return h.authService.Approve(req, h.sessionUser(c), approved)
	})
}

func (h *OAuthHandler) runAuthorize(c *gin.Context, req *services.AuthorizationRequest, run func() (*services.AuthorizeResult, error)) {
	result, err := run()
	if err != nil {
		// A denial goes back to the client; anything else renders locally
		// because the redirect target is not trusted.
		if errors.Is(err, services.ErrAccessDenied) {
			c.Redirect(http.StatusFound, errorRedirect(req, "access_denied"))
			return
		}
		h.renderAuthorizeError(c, err)
		return
	}

	switch result.Outcome {
	case services.OutcomeLoginRequired:
		c.Redirect(http.StatusFound, "/login?redirect="+url.QueryEscape(c.Request.URL.String()))
	case services.OutcomeConsentRequired:
		c.HTML(http.StatusOK, "authorize.html", gin.H{
			"client_name":   result.Client.ClientName,
			"email":         result.User.Email,
			"scope":         result.Scope,
			"response_type": req.ResponseType,
			"client_id":     req.ClientID,
			"redirect_uri":  req.RedirectURI,
			"state":         req.State,
		})
	case services.OutcomeRedirect:
		c.Redirect(http.StatusFound, codeRedirect(result))
	}
}

func (h *OAuthHandler) renderAuthorizeError(c *gin.Context, err error) {
	var message string
	switch {
	case errors.Is(err, services.ErrUnknownClient):
		message = "Unknown client application"
	case errors.Is(err, services.ErrInvalidRedirect):
		message = "The redirect address is not registered for this client"
	case errors.Is(err, services.ErrInvalidRequest):
		message = "The authorization request is malformed"
	default:
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"error": "Internal server error",
		})
		return
	}
	c.HTML(http.StatusBadRequest, "error.html", gin.H{"error": message})
}

func codeRedirect(result *services.AuthorizeResult) string {
	u, err := url.Parse(result.RedirectURI)
	if err != nil {
		return result.RedirectURI
	}
	q := u.Query()
	q.Set("code", result.Code)
	if result.State != "" {
		q.Set("state", result.State)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func errorRedirect(req *services.AuthorizationRequest, code string) string {
	u, err := url.Parse(req.RedirectURI)
	if err != nil {
		return req.RedirectURI
	}
	q := u.Query()
	q.Set("error", code)
	if req.State != "" {
		q.Set("state", req.State)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// Token handles POST /oauth/token
func (h *OAuthHandler) Token(c *gin.Context) {
	req := &services.TokenRequest{
		GrantType:    c.PostForm("grant_type"),
		Code:         c.PostForm("code"),
		RedirectURI:  c.PostForm("redirect_uri"),
		ClientID:     c.PostForm("client_id"),
		ClientSecret: c.PostForm("client_secret"),
		RefreshToken: c.PostForm("refresh_token"),
	}
	// Client credentials may also come via HTTP Basic.
	if req.ClientID == "" {
		if id, secret, ok := c.Request.BasicAuth(); ok {
			req.ClientID = id
			req.ClientSecret = secret
		}
	}

	if req.GrantType == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":             "invalid_request",
			"error_description": "grant_type is required",
		})
		return
	}

	response, err := h.tokenService.Exchange(req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "invalid_request",
				"error_description": "Missing required parameter",
			})
		case errors.Is(err, services.ErrUnsupportedGrantType):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "unsupported_grant_type",
				"error_description": "Only authorization_code grant type is supported",
			})
		case errors.Is(err, services.ErrInvalidClient):
			c.Header("WWW-Authenticate", `Basic realm="brest-mcp"`)
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":             "invalid_client",
				"error_description": "Client authentication failed",
			})
		case errors.Is(err, services.ErrInvalidGrant):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":             "invalid_grant",
				"error_description": "The authorization code is invalid, expired, or already used",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":             "server_error",
				"error_description": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// Register handles POST /oauth/register. Dynamic client registration is
// not offered; the single client is provisioned from configuration.
func (h *OAuthHandler) Register(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{
		"error":             "not_implemented",
		"error_description": "Dynamic client registration is not supported",
	})
}
