package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Nijal-AI/brest-mcp-server/internal/metrics"
	"github.com/Nijal-AI/brest-mcp-server/internal/token"
)

const (
	// PrincipalKey is the gin context key the verified principal is stored
	// under for downstream handlers.
	PrincipalKey = "principal"

	SessionKey = "session_id"
)

// RequireBearer rejects requests without a valid bearer credential.
func RequireBearer(verifier token.Verifier, m metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer := extractBearer(c.GetHeader("Authorization"))
		if bearer == "" {
			unauthorized(c, m)
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), bearer)
		if err != nil {
			unauthorized(c, m)
			return
		}

		m.RecordTokenValidation("success")
		c.Set(PrincipalKey, principal)
		c.Next()
	}
}

// Principal returns the verified principal set by RequireBearer, or nil
// when the middleware did not run.
func Principal(c *gin.Context) *token.Principal {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	p, _ := v.(*token.Principal)
	return p
}

func extractBearer(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return header[len(prefix):]
}

func unauthorized(c *gin.Context, m metrics.Recorder) {
	m.RecordTokenValidation("failure")
	c.Header("WWW-Authenticate", `Bearer realm="brest-mcp"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":             "invalid_token",
		"error_description": "the access token is missing, expired, or invalid",
	})
}
