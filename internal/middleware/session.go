package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jeevanhealth/portal/internal/model"
	"github.com/jeevanhealth/portal/internal/session"
)

const (
	// ContextSession is the gin context key holding the *session.Session.
	ContextSession = "portal_session"

	loginPage = "/login.html"
	errorPage = "/error.html"
)

// SessionGate guards the protected page groups. It is a courtesy check
// only: the upstream API re-validates the token on every request, so
// the worst a bypass achieves is a flash of empty UI.
type SessionGate struct {
	manager *session.Manager
}

func NewSessionGate(manager *session.Manager) *SessionGate {
	return &SessionGate{manager: manager}
}

// RequireRole loads the session and redirects: missing session to the
// login page, wrong role to the error page.
func (g *SessionGate) RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := g.manager.Load(c)
		if err != nil {
			c.Redirect(http.StatusSeeOther, loginPage)
			c.Abort()
			return
		}

		if tokenExpired(sess.Token) {
			g.manager.Destroy(c, sess)
			c.Redirect(http.StatusSeeOther, loginPage)
			c.Abort()
			return
		}

		if sess.User.Role != role {
			c.Redirect(http.StatusSeeOther, errorPage)
			c.Abort()
			return
		}

		c.Set(ContextSession, sess)
		c.Next()
	}
}

// Optional loads the session when present without gating; public pages
// use it to render the right navbar.
func (g *SessionGate) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, err := g.manager.Load(c); err == nil {
			c.Set(ContextSession, sess)
		}
		c.Next()
	}
}

// FromContext returns the request's session, or nil.
func FromContext(c *gin.Context) *session.Session {
	if v, ok := c.Get(ContextSession); ok {
		return v.(*session.Session)
	}
	return nil
}

// tokenExpired peeks at the JWT expiry claim without verifying the
// signature. Verification belongs to the upstream; this only avoids
// rendering a page whose every fetch would 401.
func tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		// Opaque tokens pass through; the upstream decides.
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Time.Before(timeNow())
}
