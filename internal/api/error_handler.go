package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/api/handler"
	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/router"
)

// errorResponse is the error envelope for clients asking for JSON.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Sends browsers to the login page when the session is no longer valid.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders the error page, or {"error": "<message>"} for JSON clients.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if wantsJSON(c) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}

		switch code {
		case http.StatusUnauthorized:
			_ = c.Redirect(http.StatusSeeOther, router.PathLogin)
		case http.StatusForbidden:
			_ = c.Redirect(http.StatusSeeOther, router.PathUnauthorized)
		default:
			if rerr := handler.RenderError(c, code, msg); rerr != nil {
				log.Error().Err(rerr).Msg("render error page")
				_ = c.String(code, msg)
			}
		}
	}
}

func wantsJSON(c echo.Context) bool {
	accept := c.Request().Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, echo.MIMETextHTML)
}

// statusOf is the status code resolveError answers err with.
func statusOf(err error) int {
	var he *echo.HTTPError
	var ae *domain.APIError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.As(err, &ae):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	}

	// Remote API failures surface the server message when it has one.
	var ae *domain.APIError
	if errors.As(err, &ae) {
		log.Warn().
			Err(err).
			Int("upstream_status", ae.StatusCode).
			Str("path", c.Path()).
			Msg("remote api error")
		return http.StatusBadGateway, domain.UserMessage(err)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, domain.GenericErrorMessage
}
