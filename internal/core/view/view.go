// Package view holds the per-page state machines behind the HTML views. A
// view is mounted for the lifetime of a page interaction, owns its timers and
// must be unmounted when the interaction ends.
package view

import (
	"context"
	"errors"

	"github.com/ratify/ratify-web/internal/core/form"
	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/core/state"
)

// ErrResendInFlight is returned when a card already has a resend running.
var ErrResendInFlight = errors.New("resend already in flight")

// Navigator moves the user to another path.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// ToastKind selects the toast color.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is a transient notification.
type Toast struct {
	Kind    ToastKind
	Message string
}

// Notifier raises toasts.
type Notifier interface {
	Notify(t Toast)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(t Toast)

func (f NotifierFunc) Notify(t Toast) { f(t) }

// Authenticator is the slice of the auth service the user views drive.
type Authenticator interface {
	Login(ctx context.Context, st *state.Store, tokens ports.TokenStore, email, password string, rememberMe bool) error
	ResetPassword(ctx context.Context, token, password, confirmPassword string) (string, error)
}

var validate = form.New()
