package handler

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/ratify/ratify-web/internal/api/middleware"
	"github.com/ratify/ratify-web/internal/session"
)

// ctxSession returns the browser session injected by the Session middleware.
// Its absence means the route was registered without it.
func ctxSession(c echo.Context) (*session.Session, error) {
	s, ok := middleware.CurrentSession(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "missing session")
	}
	return s, nil
}

// readySession is ctxSession plus a wait for the background sign-in
// restore, so that auth writes of the handler are not overtaken by it.
func readySession(c echo.Context) (*session.Session, error) {
	s, err := ctxSession(c)
	if err != nil {
		return nil, err
	}
	if err := s.WaitReady(c.Request().Context()); err != nil {
		return nil, echo.NewHTTPError(http.StatusServiceUnavailable, "session not ready")
	}
	return s, nil
}

// redirector is the Navigator of a single request. The first target wins.
type redirector struct {
	mu sync.Mutex
	to string
}

func (r *redirector) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.to == "" {
		r.to = path
	}
}

func (r *redirector) target() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.to
}

// follow answers with a 303 when the view navigated.
func (r *redirector) follow(c echo.Context) (bool, error) {
	to := r.target()
	if to == "" {
		return false, nil
	}
	return true, c.Redirect(http.StatusSeeOther, to)
}
