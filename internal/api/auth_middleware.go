package api

import (
	"net/http"
	"time"

	"github.com/ericogr/kids-games/internal/auth"
	"github.com/ericogr/kids-games/internal/constants"
	"github.com/gin-gonic/gin"
)

// setSessionCookie sets the session cookie with appropriate flags for dev/prod.
func (h *Handler) setSessionCookie(c *gin.Context, token string, ttl time.Duration) {
	c.SetCookie(constants.CookieSessionName, token, int(ttl.Seconds()), "/", "", h.opts.SecureCookie, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetCookie(constants.CookieSessionName, "", -1, "/", "", false, true)
}

// Session reads the session cookie, when present and valid, and stores the
// principal in the request context. Requests without a session continue as
// anonymous.
func (h *Handler) Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(constants.CookieSessionName)
		if err == nil && token != "" {
			if p, err := h.signer.ParseSession(token); err == nil {
				c.Request = c.Request.WithContext(auth.WithPrincipal(c.Request.Context(), p))
			}
		}
		c.Next()
	}
}

// AuthRequired rejects anonymous API requests.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal(c).Anonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{constants.JSONKeyError: constants.ErrAuthRequired})
			return
		}
		c.Next()
	}
}

// pageAuthRequired shows the sign-in page to anonymous visitors of the
// admin screens.
func (h *Handler) pageAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if principal(c).Anonymous() {
			c.HTML(http.StatusUnauthorized, "login.tmpl", h.page(c, "Sign in", gin.H{
				"ClientID":   h.opts.GoogleClientID,
				"LoginRoute": constants.RouteAuthGoogle,
			}))
			c.Abort()
			return
		}
		c.Next()
	}
}
