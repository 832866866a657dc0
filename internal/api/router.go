package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/api/handler"
	"github.com/ratify/ratify-web/internal/api/middleware"
	"github.com/ratify/ratify-web/internal/core/router"
	"github.com/ratify/ratify-web/internal/infrastructure/http/handlers"
	"github.com/ratify/ratify-web/internal/session"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Sessions  *session.Manager
	Cookie    middleware.SessionConfig
	Auth      *handler.AuthHandler
	Agreement *handler.AgreementHandler
	Signers   *handler.SignerHandler
	Settings  *handler.SettingsHandler
	Checks    map[string]handlers.Check
	Log       zerolog.Logger

	// Registerer receives the HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with every route of the
// navigation table registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	renderer, err := handler.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(d.Log))
	reg := d.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	httpMetrics, err := middleware.Metrics(reg, func(_ echo.Context, err error) int { return statusOf(err) })
	if err != nil {
		return nil, fmt.Errorf("http metrics: %w", err)
	}
	e.Use(httpMetrics)

	// --- Operational routes (no session) ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewHealthDependenciesHandler(d.Checks).Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Pages ---
	sess := middleware.Session(d.Sessions, d.Cookie)
	gate := middleware.Gate(router.PathUser)
	views := d.views()

	for _, r := range router.Table {
		if r.Redirect != "" {
			to := r.Redirect
			e.Add(r.Method, r.Pattern, func(c echo.Context) error {
				return c.Redirect(http.StatusSeeOther, to)
			})
			continue
		}
		h, ok := views[viewKey{r.Method, r.View}]
		if !ok {
			return nil, fmt.Errorf("no handler for %s %s (%s)", r.Method, r.Pattern, r.View)
		}
		mw := []echo.MiddlewareFunc{sess}
		if r.Protected {
			mw = append(mw, gate)
		}
		e.Add(r.Method, r.Pattern, h, mw...)
	}

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, router.PathError)
	})

	return e, nil
}

type viewKey struct {
	method string
	view   router.View
}

func (d Deps) views() map[viewKey]echo.HandlerFunc {
	get, post := http.MethodGet, http.MethodPost
	return map[viewKey]echo.HandlerFunc{
		{get, router.ViewHome}:             handler.Home,
		{get, router.ViewError}:            handler.ErrorPage,
		{get, router.ViewUnauthorized}:     handler.Unauthorized,
		{get, router.ViewReports}:          handler.Reports,
		{get, router.ViewLogin}:            d.Auth.LoginPage,
		{post, router.ViewLogin}:           d.Auth.Login,
		{get, router.ViewRegister}:         d.Auth.RegisterPage,
		{post, router.ViewRegister}:        d.Auth.Register,
		{post, router.ViewLogout}:          d.Auth.Logout,
		{get, router.ViewResetPassword}:    d.Auth.ResetPasswordPage,
		{post, router.ViewResetPassword}:   d.Auth.ResetPassword,
		{get, router.ViewAgreementSuccess}: d.Agreement.Success,
		{post, router.ViewAgreementCopy}:   d.Agreement.RequestCopy,
		{get, router.ViewSignerProgress}:   d.Signers.Progress,
		{post, router.ViewSignerToggle}:    d.Signers.Toggle,
		{post, router.ViewSignerResend}:    d.Signers.Resend,
		{post, router.ViewSignerClose}:     d.Signers.CloseModal,
		{post, router.ViewLocale}:          d.Settings.Locale,
		{post, router.ViewTheme}:           d.Settings.Theme,
	}
}
