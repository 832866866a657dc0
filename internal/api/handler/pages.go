package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ratify/ratify-web/internal/core/domain"
)

// Home handles GET /.
func Home(c echo.Context) error {
	return render(c, http.StatusOK, "home", "Dashboard", nil, nil)
}

// Reports handles GET /reports.
func Reports(c echo.Context) error {
	return render(c, http.StatusOK, "reports", "Reports", nil, nil)
}

// ErrorPage handles GET /error, the landing page of unknown paths.
func ErrorPage(c echo.Context) error {
	return render(c, http.StatusNotFound, "error", "Error", errorData{Code: http.StatusNotFound, Message: "The page you are looking for does not exist."}, nil)
}

// Unauthorized handles GET /unauthorized.
func Unauthorized(c echo.Context) error {
	return render(c, http.StatusForbidden, "unauthorized", "Unauthorized", nil, nil)
}

type errorData struct {
	Code    int
	Message string
}

// RenderError draws the error page for a failed request.
func RenderError(c echo.Context, code int, msg string) error {
	if msg == "" {
		msg = domain.GenericErrorMessage
	}
	return render(c, code, "error", "Error", errorData{Code: code, Message: msg}, nil)
}
