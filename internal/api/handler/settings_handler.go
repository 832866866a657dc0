package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/router"
)

// SettingsHandler applies the locale and theme pickers of the layout.
type SettingsHandler struct {
	settings SettingsService
	log      zerolog.Logger
}

func NewSettingsHandler(settings SettingsService, log zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, log: log}
}

type localeRequest struct {
	Locale string `form:"locale" validate:"required"`
}

type themeRequest struct {
	Color string `form:"color" validate:"required"`
}

// Locale handles POST /settings/locale.
func (h *SettingsHandler) Locale(c echo.Context) error {
	var in localeRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "locale is required")
	}
	s, err := readySession(c)
	if err != nil {
		return err
	}
	if err := h.settings.ChangeLocale(c.Request().Context(), s.Store, s.ID, in.Locale); err != nil {
		return settingsError(err)
	}
	return c.Redirect(http.StatusSeeOther, back(c))
}

// Theme handles POST /settings/theme.
func (h *SettingsHandler) Theme(c echo.Context) error {
	var in themeRequest
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	if err := c.Validate(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "color is required")
	}
	s, err := readySession(c)
	if err != nil {
		return err
	}
	if err := h.settings.ChangeTheme(c.Request().Context(), s.Store, s.ID, in.Color); err != nil {
		return settingsError(err)
	}
	return c.Redirect(http.StatusSeeOther, back(c))
}

func settingsError(err error) error {
	if errors.Is(err, domain.ErrUnknownLocale) || errors.Is(err, domain.ErrUnknownColor) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

// back returns the same-origin page the form was posted from, or home.
func back(c echo.Context) string {
	ref, err := url.Parse(c.Request().Referer())
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request().Host) {
		return router.PathHome
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}
