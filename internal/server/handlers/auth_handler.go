package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aeroclubhq/aeroclub/internal/service/auth"
)

// appEntryPath is where a successful or already-live session lands.
const appEntryPath = "/app"

// AuthHandler serves the login form's backing endpoints.
type AuthHandler struct {
	svc    *auth.Service
	pages  *PageRegistry
	logger *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(svc *auth.Service, pages *PageRegistry, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, pages: pages, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

// Login signs the user in against the gateway and issues the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid login payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	session, err := h.svc.SignIn(c.Request.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		h.logger.Error("sign-in failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "sign-in is currently unavailable"})
		return
	}

	maxAge := int(session.ExpiresAt.Sub(session.CreatedAt).Seconds())
	c.SetCookie(SessionCookie, session.Token, maxAge, "/", "", false, true)

	if req.Remember {
		// One year, mirroring the login form's remembered email.
		c.SetCookie(RememberCookie, session.Email, 365*24*3600, "/", "", false, true)
	} else {
		c.SetCookie(RememberCookie, "", -1, "/", "", false, true)
	}

	c.JSON(http.StatusOK, gin.H{"redirect": appEntryPath, "email": session.Email})
}

// Status backs the login page: a live session redirects to the app entry
// point, otherwise the remembered email pre-fills the form.
func (h *AuthHandler) Status(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil {
		if _, ok := h.svc.Resolve(token); ok {
			c.JSON(http.StatusOK, gin.H{"authenticated": true, "redirect": appEntryPath})
			return
		}
	}

	remembered, _ := c.Cookie(RememberCookie)
	c.JSON(http.StatusOK, gin.H{"authenticated": false, "remembered_email": remembered})
}

// Logout destroys the session and discards its finance page. The remembered
// email is kept in durable storage, so the login form's pre-fill cookie is
// re-issued here even when the browser lost it mid-session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil {
		if session, ok := h.svc.Resolve(token); ok {
			if email := h.svc.RememberedEmail(c.Request.Context(), session.UserID); email != "" {
				c.SetCookie(RememberCookie, email, 365*24*3600, "/", "", false, true)
			}
		}
		h.svc.SignOut(token)
		h.pages.Drop(token)
	}

	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"redirect": "/login"})
}

// Middleware resolves the session cookie and rejects unauthenticated
// requests.
func (h *AuthHandler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not signed in"})
			return
		}

		session, ok := h.svc.Resolve(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
			return
		}

		setSession(c, session)
		c.Next()
	}
}
