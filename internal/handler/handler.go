// Package handler renders the portal pages. Every handler builds a
// typed view model and hands it to one template; mutations always
// finish with a redirect so a refresh never replays a form post.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jeevanhealth/portal/internal/middleware"
	"github.com/jeevanhealth/portal/internal/session"
	apperrors "github.com/jeevanhealth/portal/pkg/errors"
)

const (
	loginPage   = "/login.html"
	errorPage   = "/error.html"
	indexPage   = "/index.html"
	patientHome = "/patient/dashboard.html"
	doctorHome  = "/doctor/dashboard.html"
	adminHome   = "/admin/dashboard.html"
)

// sess returns the request's session, set by the session gate.
func sess(c *gin.Context) *session.Session {
	return middleware.FromContext(c)
}

// save writes the session back; a failed write is logged and the page
// continues, the user just loses flash messages or flow state.
func save(c *gin.Context, m *session.Manager, s *session.Session) {
	if err := m.Save(c, s); err != nil {
		log.Error().Err(err).Str("session_id", s.ID).Msg("failed to save session")
	}
}

// flashErr queues the error for the next render with a usable message.
func flashErr(s *session.Session, err error, fallback string) {
	s.Flash("error", apperrors.Message(err, fallback))
}

// redirect is the post-mutation redirect. 303 forces a GET.
func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusSeeOther, location)
}

// authFailed sends expired or rejected credentials back through the
// login page instead of rendering a broken view.
func authFailed(c *gin.Context, m *session.Manager, s *session.Session, err error) bool {
	if apperrors.IsUnauthorized(err) {
		m.Destroy(c, s)
		redirect(c, loginPage)
		return true
	}
	return false
}
