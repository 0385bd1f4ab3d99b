package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeevanhealth/portal/internal/config"
	"github.com/jeevanhealth/portal/internal/model"
	"github.com/jeevanhealth/portal/internal/session"
)

func newGateFixture(t *testing.T) (*session.Manager, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	manager := session.NewManager(session.NewMemoryStore(time.Minute), config.SessionConfig{
		CookieName: "portal_session",
		TTLMinutes: 1,
	})
	gate := NewSessionGate(manager)

	engine := gin.New()
	engine.GET("/patient/dashboard.html", gate.RequireRole(model.RolePatient), func(c *gin.Context) {
		sess := FromContext(c)
		require.NotNil(t, sess)
		c.String(http.StatusOK, "hello %s", sess.User.Email)
	})
	engine.GET("/index.html", gate.Optional(), func(c *gin.Context) {
		if FromContext(c) != nil {
			c.String(http.StatusOK, "logged in")
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	return manager, engine
}

func startSession(t *testing.T, manager *session.Manager, token string, role model.Role) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/login", nil)
	_, err := manager.Start(c, token, model.User{Email: "a@x.test", Role: role})
	require.NoError(t, err)
	return w.Result().Cookies()[0]
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "a@x.test",
		"exp": exp.Unix(),
	}).SignedString([]byte("irrelevant"))
	require.NoError(t, err)
	return token
}

func TestGateRedirectsAnonymousToLogin(t *testing.T) {
	_, engine := newGateFixture(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/patient/dashboard.html", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login.html", w.Header().Get("Location"))
}

func TestGateRedirectsWrongRoleToErrorPage(t *testing.T) {
	manager, engine := newGateFixture(t)
	cookie := startSession(t, manager, "opaque-token", model.RoleDoctor)

	req := httptest.NewRequest(http.MethodGet, "/patient/dashboard.html", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/error.html", w.Header().Get("Location"))
}

func TestGatePassesMatchingRole(t *testing.T) {
	manager, engine := newGateFixture(t)
	cookie := startSession(t, manager, "opaque-token", model.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/patient/dashboard.html", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.test")
}

func TestGateDestroysExpiredTokenSession(t *testing.T) {
	manager, engine := newGateFixture(t)
	cookie := startSession(t, manager, signedToken(t, time.Now().Add(-time.Hour)), model.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/patient/dashboard.html", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login.html", w.Header().Get("Location"))

	// The session is gone; a retry with the same cookie stays on login.
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/patient/dashboard.html", nil)
	req2.AddCookie(cookie)
	engine.ServeHTTP(w2, req2)
	assert.Equal(t, "/login.html", w2.Header().Get("Location"))
}

func TestGateAcceptsUnexpiredJWT(t *testing.T) {
	manager, engine := newGateFixture(t)
	cookie := startSession(t, manager, signedToken(t, time.Now().Add(time.Hour)), model.RolePatient)

	req := httptest.NewRequest(http.MethodGet, "/patient/dashboard.html", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalGate(t *testing.T) {
	manager, engine := newGateFixture(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	assert.Equal(t, "anonymous", w.Body.String())

	cookie := startSession(t, manager, "opaque-token", model.RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/index.html", nil)
	req.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	engine.ServeHTTP(w2, req)
	assert.Equal(t, "logged in", w2.Body.String())
}
