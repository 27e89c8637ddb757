package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-storefront/internal/session"
)

const sessionContextKey = "storefront_session"

// SessionMiddleware resolves the visitor's session from the sf_session
// cookie, minting a new one for first-time visitors, and attaches it to the
// request context.
func SessionMiddleware(manager *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(session.CookieName)
		if err != nil || id == "" {
			id = manager.NewID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(session.CookieName, id, 0, "/", "", false, true)
		}

		sess := manager.Get(c.Request.Context(), id)
		c.Set(sessionContextKey, sess)

		c.Next()
	}
}

// SessionFromContext returns the session attached by SessionMiddleware.
func SessionFromContext(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
