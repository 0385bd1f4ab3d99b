package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/jeevanhealth/portal/internal/model"
	"github.com/jeevanhealth/portal/internal/session"
	"github.com/jeevanhealth/portal/internal/view"
	apperrors "github.com/jeevanhealth/portal/pkg/errors"
)

// authAPI is the slice of the upstream client the auth pages use.
type authAPI interface {
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	Register(ctx context.Context, req *model.RegisterRequest) error
	ChangePassword(ctx context.Context, token string, req *model.ChangePasswordRequest) error
}

type AuthHandler struct {
	api      authAPI
	sessions *session.Manager
}

func NewAuthHandler(api authAPI, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{api: api, sessions: sessions}
}

// RegisterRoutes mounts the public pages. The group carries the
// optional session middleware so the navbar reflects a live login.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/", h.Index)
	r.GET("/index.html", h.Index)
	r.GET("/login.html", h.LoginPage)
	r.POST("/login", h.Login)
	r.GET("/register.html", h.RegisterPage)
	r.POST("/register", h.Register)
	r.GET("/change_password.html", h.ChangePasswordPage)
	r.POST("/change-password", h.ChangePassword)
	r.POST("/logout", h.Logout)
	r.GET("/error.html", h.ErrorPage)
}

func (h *AuthHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Title":   "Home",
		"Nav":     view.NavFor(roleOf(sess(c)), nameOf(sess(c))),
		"Flashes": takeFlashes(c, h.sessions),
	})
}

func (h *AuthHandler) ErrorPage(c *gin.Context) {
	c.HTML(http.StatusOK, "error.tmpl", gin.H{
		"Title":   "Access Denied",
		"Nav":     view.NavFor(roleOf(sess(c)), nameOf(sess(c))),
		"Flashes": takeFlashes(c, h.sessions),
	})
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	// A live session skips the form entirely.
	if s := sess(c); s != nil {
		redirect(c, homeFor(s.User.Role))
		return
	}
	flashes := takeFlashes(c, h.sessions)
	if c.Query("registered") == "1" {
		flashes = append(flashes, session.Flash{Message: "Registration successful. Please log in.", Kind: "success"})
	}
	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"Title":   "Login",
		"Nav":     view.NavFor("", ""),
		"Flashes": flashes,
		"Email":   c.Query("email"),
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, req.Email, "Email and password are required.")
		return
	}

	resp, err := h.api.Login(c.Request.Context(), &req)
	if err != nil {
		msg := "Login failed. Please try again."
		if apperrors.IsUnauthorized(err) {
			msg = "Invalid email or password."
		} else {
			msg = apperrors.Message(err, msg)
		}
		h.renderLogin(c, req.Email, msg)
		return
	}

	if !resp.Role.Valid() {
		h.renderLogin(c, req.Email, "This account has no portal access.")
		return
	}

	user := model.User{Email: req.Email, Name: resp.Name, Role: resp.Role}
	if resp.Email != "" {
		user.Email = resp.Email
	}
	if _, err := h.sessions.Start(c, resp.AccessToken, user); err != nil {
		h.renderLogin(c, req.Email, "Could not start a session. Please try again.")
		return
	}
	redirect(c, homeFor(resp.Role))
}

func (h *AuthHandler) renderLogin(c *gin.Context, email, msg string) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"Title":   "Login",
		"Nav":     view.NavFor("", ""),
		"Flashes": []session.Flash{{Message: msg, Kind: "error"}},
		"Email":   email,
	})
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.tmpl", gin.H{
		"Title":   "Register",
		"Nav":     view.NavFor(roleOf(sess(c)), nameOf(sess(c))),
		"Flashes": takeFlashes(c, h.sessions),
		"Form":    model.RegisterRequest{},
	})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderRegister(c, req, "Name, email and password are required.")
		return
	}

	if err := h.api.Register(c.Request.Context(), &req); err != nil {
		msg := apperrors.Message(err, "Registration failed. Please try again.")
		if apperrors.IsConflict(err) {
			msg = "An account with this email already exists."
		}
		h.renderRegister(c, req, msg)
		return
	}

	redirect(c, loginPage+"?registered=1&email="+url.QueryEscape(req.Email))
}

func (h *AuthHandler) renderRegister(c *gin.Context, form model.RegisterRequest, msg string) {
	c.HTML(http.StatusOK, "register.tmpl", gin.H{
		"Title":   "Register",
		"Nav":     view.NavFor("", ""),
		"Flashes": []session.Flash{{Message: msg, Kind: "error"}},
		"Form":    form,
	})
}

func (h *AuthHandler) ChangePasswordPage(c *gin.Context) {
	s := sess(c)
	if s == nil {
		redirect(c, loginPage)
		return
	}
	c.HTML(http.StatusOK, "change_password.tmpl", gin.H{
		"Title":   "Change Password",
		"Nav":     view.NavFor(s.User.Role, s.User.DisplayName()),
		"Flashes": takeFlashes(c, h.sessions),
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	s := sess(c)
	if s == nil {
		redirect(c, loginPage)
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		s.Flash("error", "All password fields are required.")
		save(c, h.sessions, s)
		redirect(c, "/change_password.html")
		return
	}
	if req.NewPassword != req.ConfirmNewPassword {
		s.Flash("error", "New passwords do not match.")
		save(c, h.sessions, s)
		redirect(c, "/change_password.html")
		return
	}

	if err := h.api.ChangePassword(c.Request.Context(), s.Token, &req); err != nil {
		if authFailed(c, h.sessions, s, err) {
			return
		}
		flashErr(s, err, "Could not change the password.")
		save(c, h.sessions, s)
		redirect(c, "/change_password.html")
		return
	}

	s.Flash("success", "Password changed successfully.")
	save(c, h.sessions, s)
	redirect(c, homeFor(s.User.Role))
}

// Logout drops the session. There is no upstream call; the token simply
// stops being used.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Destroy(c, sess(c))
	redirect(c, indexPage)
}

func homeFor(role model.Role) string {
	switch role {
	case model.RolePatient:
		return patientHome
	case model.RoleDoctor:
		return doctorHome
	case model.RoleAdmin:
		return adminHome
	}
	return loginPage
}

func roleOf(s *session.Session) model.Role {
	if s == nil {
		return ""
	}
	return s.User.Role
}

func nameOf(s *session.Session) string {
	if s == nil {
		return ""
	}
	return s.User.DisplayName()
}

// takeFlashes consumes queued flashes when a session exists and writes
// the cleared list back.
func takeFlashes(c *gin.Context, m *session.Manager) []session.Flash {
	s := sess(c)
	if s == nil {
		return nil
	}
	f := s.TakeFlashes()
	if len(f) > 0 {
		save(c, m, s)
	}
	return f
}
