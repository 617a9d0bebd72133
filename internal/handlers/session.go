package handlers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/Nijal-AI/brest-mcp-server/internal/middleware"
	"github.com/Nijal-AI/brest-mcp-server/internal/services"
)

type SessionHandler struct {
	userService *services.UserService
}

func NewSessionHandler(us *services.UserService) *SessionHandler {
	return &SessionHandler{userService: us}
}

// LoginPage renders the login form.
func (h *SessionHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"redirect": c.Query("redirect"),
		"error":    c.Query("error"),
	})
}

// Login handles POST /auth. On success the cookie receives only the
// session identifier; the user record stays server-side.
func (h *SessionHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	redirect := c.PostForm("redirect")

	sid, err := h.userService.Login(email, password)
	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"redirect": redirect,
			"error":    "Invalid email or password",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionKey, sid)
	if err := session.Save(); err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{
			"error": "Could not create session",
		})
		return
	}

	if redirect == "" {
		redirect = "/"
	}
	c.Redirect(http.StatusFound, redirect)
}

// Logout discards the server-side session and clears the cookie.
func (h *SessionHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if sid, ok := session.Get(middleware.SessionKey).(string); ok {
		h.userService.Logout(sid)
	}
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	_ = session.Save()

	c.Redirect(http.StatusFound, "/login")
}
