// Package session keeps the browser's credential and page state on the
// server side, behind an opaque cookie. It replaces the original
// localStorage pair (authToken, user) so the bearer token never
// reaches the browser.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jeevanhealth/portal/internal/booking"
	"github.com/jeevanhealth/portal/internal/config"
	"github.com/jeevanhealth/portal/internal/model"
)

// ErrNotFound is returned when no session exists for an ID.
var ErrNotFound = errors.New("session not found")

// Flash is a one-shot message rendered on the next page view.
type Flash struct {
	Message string `json:"message"`
	Kind    string `json:"kind"` // success, error, warning, info
}

// Session is the server-side record behind the cookie.
type Session struct {
	ID        string         `json:"id"`
	Token     string         `json:"token"`
	User      model.User     `json:"user"`
	Booking   *booking.State `json:"booking,omitempty"`
	Flashes   []Flash        `json:"flashes,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// BookingState returns the booking flow state, creating it on first
// use.
func (s *Session) BookingState() *booking.State {
	if s.Booking == nil {
		s.Booking = &booking.State{}
	}
	return s.Booking
}

// ResetBooking discards any in-progress booking flow.
func (s *Session) ResetBooking() {
	s.Booking = nil
}

// Flash queues a one-shot message.
func (s *Session) Flash(kind, message string) {
	s.Flashes = append(s.Flashes, Flash{Message: message, Kind: kind})
}

// TakeFlashes returns and clears the queued messages.
func (s *Session) TakeFlashes() []Flash {
	f := s.Flashes
	s.Flashes = nil
	return f
}

// Store persists sessions with a TTL.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Manager ties the store to the session cookie.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

func NewManager(store Store, cfg config.SessionConfig) *Manager {
	return &Manager{
		store:      store,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL(),
		secure:     cfg.Secure,
	}
}

// Start creates a fresh session for a logged-in user and sets the
// cookie.
func (m *Manager) Start(c *gin.Context, token string, user model.User) (*Session, error) {
	s := &Session{
		ID:        uuid.New().String(),
		Token:     token,
		User:      user,
		CreatedAt: time.Now(),
	}
	if err := m.store.Save(c.Request.Context(), s, m.ttl); err != nil {
		return nil, err
	}
	m.setCookie(c, s.ID, int(m.ttl.Seconds()))
	return s, nil
}

// Load resolves the request's session, or ErrNotFound when the cookie
// is absent or expired.
func (m *Manager) Load(c *gin.Context) (*Session, error) {
	id, err := c.Cookie(m.cookieName)
	if err != nil || id == "" {
		return nil, ErrNotFound
	}
	return m.store.Get(c.Request.Context(), id)
}

// Save writes the session back, refreshing its TTL.
func (m *Manager) Save(c *gin.Context, s *Session) error {
	return m.store.Save(c.Request.Context(), s, m.ttl)
}

// Destroy deletes the session and expires the cookie. Logout is purely
// client-side state cleanup; no upstream call is made.
func (m *Manager) Destroy(c *gin.Context, s *Session) {
	if s != nil {
		_ = m.store.Delete(c.Request.Context(), s.ID)
	}
	m.setCookie(c, "", -1)
}

func (m *Manager) setCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
