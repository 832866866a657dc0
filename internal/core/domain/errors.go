package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("access forbidden")
	ErrNotFound      = errors.New("not found")
	ErrNoTokens      = errors.New("no stored tokens")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnknownLocale = errors.New("unknown locale")
	ErrUnknownColor  = errors.New("unknown theme color")
)

// GenericErrorMessage is shown when nothing more specific is known.
const GenericErrorMessage = "Something went wrong. Try again later!"

// APIError is a non-2xx answer from the remote API. Status, Message and Type
// are decoded from the response body when present.
type APIError struct {
	StatusCode int
	Status     string `json:"status"`
	Message    string `json:"message"`
	Type       string `json:"type"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %d", e.StatusCode)
}

// Is lets errors.Is match status codes against the domain sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// UserMessage returns the server-supplied message of err, or the generic
// fallback.
func UserMessage(err error) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return GenericErrorMessage
}

// ResetReason classifies a failed password reset.
type ResetReason string

const (
	ResetInvalid         ResetReason = "invalid"
	ResetExpired         ResetReason = "expired"
	ResetPassword        ResetReason = "password"
	ResetConfirmPassword ResetReason = "confirm_password"
	ResetUnspecified     ResetReason = ""
)

// ResetReasonOf extracts the reason from a reset-password failure. Only a 400
// answer carries a reason; everything else is unspecified.
func ResetReasonOf(err error) ResetReason {
	var ae *APIError
	if !errors.As(err, &ae) || ae.StatusCode != http.StatusBadRequest {
		return ResetUnspecified
	}
	switch r := ResetReason(ae.Status); r {
	case ResetInvalid, ResetExpired, ResetPassword, ResetConfirmPassword:
		return r
	default:
		return ResetUnspecified
	}
}

// Message returns the user-facing sentence for the reason.
func (r ResetReason) Message() string {
	switch r {
	case ResetInvalid:
		return "You are not authorized to reset the password. Please generate a new password reset link."
	case ResetExpired:
		return "The password reset link has expired. Please generate a new password reset link."
	case ResetPassword:
		return "The password you entered is invalid. Please try again."
	case ResetConfirmPassword:
		return "The passwords you entered do not match. Please try again."
	default:
		return GenericErrorMessage
	}
}
