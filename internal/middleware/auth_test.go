package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nijal-AI/brest-mcp-server/internal/metrics"
	"github.com/Nijal-AI/brest-mcp-server/internal/models"
	"github.com/Nijal-AI/brest-mcp-server/internal/store"
	"github.com/Nijal-AI/brest-mcp-server/internal/token"
)

func newProtectedRouter(t *testing.T) (*gin.Engine, *store.TokenStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens := store.NewTokenStore()
	verifier := token.NewOpaqueVerifier(tokens)

	r := gin.New()
	r.GET("/whoami", RequireBearer(verifier, metrics.NewNoopMetrics()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": Principal(c).UserID})
	})
	return r, tokens
}

func TestRequireBearer(t *testing.T) {
	r, tokens := newProtectedRouter(t)
	tokens.Put(&models.Token{
		AccessToken: "tok-1",
		TokenType:   "Bearer",
		UserID:      "user-1",
		ExpiresAt:   time.Now().Add(time.Hour),
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestRequireBearerRejects(t *testing.T) {
	r, tokens := newProtectedRouter(t)
	tokens.Put(&models.Token{
		AccessToken: "tok-old",
		TokenType:   "Bearer",
		UserID:      "user-1",
		ExpiresAt:   time.Now().Add(-time.Minute),
	})

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic dXNlcjpwdw==",
		"unknown token":  "Bearer nope",
		"expired token":  "Bearer tok-old",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
		})
	}
}
