// Package bootstrap wires the stores, services, feed cache and router
// into a runnable application.
package bootstrap

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nijal-AI/brest-mcp-server/internal/client"
	"github.com/Nijal-AI/brest-mcp-server/internal/config"
	"github.com/Nijal-AI/brest-mcp-server/internal/feed"
	"github.com/Nijal-AI/brest-mcp-server/internal/handlers"
	"github.com/Nijal-AI/brest-mcp-server/internal/mcpserver"
	"github.com/Nijal-AI/brest-mcp-server/internal/metrics"
	"github.com/Nijal-AI/brest-mcp-server/internal/middleware"
	"github.com/Nijal-AI/brest-mcp-server/internal/models"
	"github.com/Nijal-AI/brest-mcp-server/internal/services"
	"github.com/Nijal-AI/brest-mcp-server/internal/store"
	"github.com/Nijal-AI/brest-mcp-server/internal/templates"
	"github.com/Nijal-AI/brest-mcp-server/internal/token"
)

// App holds the wired application.
type App struct {
	Config *config.Config
	Router *gin.Engine
	Cache  *feed.Cache
}

// New wires the full application from configuration.
func New(cfg *config.Config) (*App, error) {
	m := metrics.Init(cfg.MetricsEnabled)
	if cfg.MetricsEnabled {
		log.Println("[Bootstrap] Prometheus metrics enabled")
	}

	// Stores. Everything is in-memory; a restart drops sessions, codes
	// and tokens by design.
	secretHash, err := bcrypt.GenerateFromPassword([]byte(cfg.ClientSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	clients := store.NewClientRegistry(&models.Client{
		ClientID:      cfg.ClientID,
		SecretHash:    string(secretHash),
		ClientName:    cfg.ClientName,
		RedirectURIs:  cfg.RedirectURIs,
		AllowedScopes: cfg.AllowedScopes,
	})
	codes := store.NewCodeStore()
	tokens := store.NewTokenStore()
	consents := store.NewConsentStore()
	userSessions := store.NewSessionStore()

	// Services.
	authService := services.NewAuthorizationService(clients, codes, consents, cfg, m)
	tokenService := services.NewTokenService(clients, codes, tokens, cfg, m)
	userService := services.NewUserService(userSessions)

	verifier, err := newVerifier(cfg, tokens)
	if err != nil {
		return nil, err
	}

	// Feed cache.
	registry := feed.NewRegistry(cfg)
	fetcher := feed.NewFetcher(client.NewRetryClient(cfg.FetchTimeout, cfg.FetchRetries))
	cache := feed.NewCache(registry, fetcher.Fetch, cfg.FetchTimeout, m)
	cityData := services.NewCityData(cache)
	log.Printf("[Bootstrap] feed catalogue: network=%s feeds=%d", cfg.Network, len(registry.Keys()))

	// Handlers.
	oauthHandler := handlers.NewOAuthHandler(authService, tokenService, userService)
	sessionHandler := handlers.NewSessionHandler(userService)
	feedHandler := handlers.NewFeedHandler(cityData, registry, cache)
	mcp := mcpserver.New(cityData, verifier)

	router := buildRouter(cfg, m, oauthHandler, sessionHandler, feedHandler, mcp, verifier)

	return &App{Config: cfg, Router: router, Cache: cache}, nil
}

func newVerifier(cfg *config.Config, tokens *store.TokenStore) (token.Verifier, error) {
	switch cfg.VerifierMode {
	case config.VerifierModeJWT:
		log.Println("[Bootstrap] bearer verification: jwt")
		return token.NewJWTVerifier(cfg.JWTSecret), nil
	default:
		log.Println("[Bootstrap] bearer verification: opaque")
		return token.NewOpaqueVerifier(tokens), nil
	}
}

func buildRouter(
	cfg *config.Config,
	m metrics.Recorder,
	oauth *handlers.OAuthHandler,
	session *handlers.SessionHandler,
	feeds *handlers.FeedHandler,
	mcp *mcpserver.Server,
	verifier token.Verifier,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)

	r := gin.New()
	r.Use(metrics.HTTPMetricsMiddleware(m))
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(templates.Load())

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("brest_session", sessionStore))

	r.GET("/health", feeds.Health)
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/login")
	})
	r.GET("/login", session.LoginPage)
	r.POST("/auth", session.Login)
	r.GET("/logout", session.Logout)

	oauthGroup := r.Group("/oauth")
	{
		oauthGroup.GET("/authorize", oauth.Authorize)
		oauthGroup.POST("/authorize/approve", oauth.Approve)
		oauthGroup.POST("/token", oauth.Token)
		oauthGroup.POST("/register", oauth.Register)
	}

	api := r.Group("/api")
	api.Use(middleware.RequireBearer(verifier, m))
	{
		api.GET("/feeds/:key", feeds.Feed)
	}

	// MCP transports. Tools re-check the token argument themselves, so
	// the streamable endpoint stays open for the OAuth handshake.
	r.Any("/mcp", gin.WrapH(mcp.StreamableHTTPServer()))
	sse := mcp.SSEServer(cfg.BaseURL)
	r.GET("/sse", gin.WrapH(sse))
	r.POST("/message", gin.WrapH(sse))

	return r
}
