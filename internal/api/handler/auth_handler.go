package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/api/middleware"
	"github.com/ratify/ratify-web/internal/core/form"
	"github.com/ratify/ratify-web/internal/core/router"
	"github.com/ratify/ratify-web/internal/core/view"
)

// AuthHandler serves the /user pages.
type AuthHandler struct {
	auth       AuthService
	resetDelay time.Duration
	log        zerolog.Logger
}

func NewAuthHandler(auth AuthService, resetDelay time.Duration, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, resetDelay: resetDelay, log: log}
}

// LoginPage handles GET /user/login.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	s, err := readySession(c)
	if err != nil {
		return err
	}
	if s.Store.Snapshot().Auth.IsAuthenticated {
		return c.Redirect(http.StatusSeeOther, router.PathHome)
	}
	return render(c, http.StatusOK, "login", "Login", view.FormState{}, nil)
}

// Login handles POST /user/login.
func (h *AuthHandler) Login(c echo.Context) error {
	s, err := readySession(c)
	if err != nil {
		return err
	}
	var in form.Login
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	nav := &redirector{}
	out := view.SubmitLogin(c.Request().Context(), h.auth, s.Store, s.Tokens, nav, in)
	if out.Done {
		if _, err := middleware.RenewSession(c); err != nil {
			return err
		}
	}
	if ok, err := nav.follow(c); ok {
		return err
	}
	return render(c, statusFor(true), "login", "Login", out, nil)
}

// RegisterPage handles GET /user/register.
func (h *AuthHandler) RegisterPage(c echo.Context) error {
	return render(c, http.StatusOK, "register", "Register", view.FormState{}, nil)
}

// Register handles POST /user/register.
func (h *AuthHandler) Register(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var in form.Register
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}

	nav := &redirector{}
	out := view.SubmitRegister(c.Request().Context(), h.auth, nav, s, in)
	if ok, err := nav.follow(c); ok {
		return err
	}
	return render(c, statusFor(true), "register", "Register", out, nil)
}

// Logout handles POST /user/logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	s, err := readySession(c)
	if err != nil {
		return err
	}
	if err := h.auth.Logout(c.Request().Context(), s.Store, s.Tokens); err != nil {
		h.log.Warn().Err(err).Str("session_id", s.ID).Msg("logout left stored tokens behind")
	}
	return c.Redirect(http.StatusSeeOther, router.PathLogin)
}

type resetPage struct {
	view.ResetPasswordState
	Action string
}

// ResetPasswordPage handles GET /user/reset-password.
func (h *AuthHandler) ResetPasswordPage(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	nav := &redirector{}
	v := view.NewResetPassword(h.auth, s.Store, s.Tokens, nav, h.resetDelay, h.log)
	defer v.Unmount()

	if !v.Mount(c.QueryParams()) {
		_, err := nav.follow(c)
		return err
	}
	return render(c, http.StatusOK, "reset_password", "Reset Password", resetPage{v.State(), c.Request().URL.RequestURI()}, nil)
}

// ResetPassword handles POST /user/reset-password. On success the
// confirmation panel is rendered and the browser is sent home after the
// redirect delay.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	s, err := readySession(c)
	if err != nil {
		return err
	}
	nav := &redirector{}
	v := view.NewResetPassword(h.auth, s.Store, s.Tokens, nav, h.resetDelay, h.log)
	defer v.Unmount()

	if !v.Mount(c.QueryParams()) {
		_, err := nav.follow(c)
		return err
	}

	var in form.ResetPassword
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	submitErr := v.Submit(c.Request().Context(), in)
	st := v.State()

	var refresh *Refresh
	if st.RedirectScheduled {
		if _, err := middleware.RenewSession(c); err != nil {
			return err
		}
		refresh = &Refresh{URL: router.PathHome, Seconds: int((st.RedirectDelay + time.Second - 1) / time.Second)}
	}
	return render(c, statusFor(submitErr != nil), "reset_password", "Reset Password", resetPage{st, c.Request().URL.RequestURI()}, refresh)
}
