package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ratify/ratify-web/internal/core/router"
)

// Gate lets a request through while the session is signed in or still
// restoring its sign-in; otherwise it redirects to fallback. It must run
// after Session.
func Gate(fallback string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, ok := CurrentSession(c)
			allowed := ok && s.Store.Snapshot().Authenticated()
			if d := router.Gate(allowed, fallback); d.Redirect != "" {
				return c.Redirect(http.StatusSeeOther, d.Redirect)
			}
			return next(c)
		}
	}
}
