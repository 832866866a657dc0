package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ratify/ratify-web/internal/session"
)

const (
	sessionKey = "session"
	issuerKey  = "session.issuer"
)

// SessionConfig configures the session cookie.
type SessionConfig struct {
	CookieName string
	Secure     bool
	MaxAge     time.Duration
}

// issuer re-issues the cookie of a renewed session.
type issuer struct {
	m   *session.Manager
	cfg SessionConfig
}

func (i issuer) setCookie(c echo.Context, id string) {
	c.SetCookie(&http.Cookie{
		Name:     i.cfg.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(i.cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   i.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Session resolves the browser session from its cookie and injects it into
// the context. A new session re-issues the cookie.
func Session(m *session.Manager, cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "ratify_sid"
	}
	is := issuer{m: m, cfg: cfg}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var id string
			if ck, err := c.Cookie(cfg.CookieName); err == nil {
				id = ck.Value
			}

			s, created := m.Resolve(id)
			if created || s.ID != id {
				is.setCookie(c, s.ID)
			}

			c.Set(sessionKey, s)
			c.Set(issuerKey, is)
			return next(c)
		}
	}
}

// RenewSession moves the request's session under a new id and sets the new
// cookie. Handlers call it right after a sign-in, so an id known before the
// sign-in never reaches the signed-in store.
func RenewSession(c echo.Context) (*session.Session, error) {
	s, ok := CurrentSession(c)
	is, isOK := c.Get(issuerKey).(issuer)
	if !ok || !isOK {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "missing session")
	}
	next := is.m.Renew(c.Request().Context(), s)
	is.setCookie(c, next.ID)
	c.Set(sessionKey, next)
	return next, nil
}

// CurrentSession returns the session injected by Session.
func CurrentSession(c echo.Context) (*session.Session, bool) {
	s, ok := c.Get(sessionKey).(*session.Session)
	return s, ok && s != nil
}
