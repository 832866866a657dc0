package view

import (
	"context"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/form"
	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/core/state"
)

// MsgRegistered is the toast shown when the server confirms without a message.
const MsgRegistered = "Your account has been created. Please check your email to verify it."

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, in domain.SignUp) (string, error)
}

// FormState is the outcome of a login or register submission.
type FormState struct {
	Email  string
	Errors form.FieldErrors
	Alert  string
	Done   bool
}

// SubmitLogin validates the sign-in form and signs in. Success navigates
// home; failure keeps the user on the form with the server message.
func SubmitLogin(ctx context.Context, auth Authenticator, st *state.Store, tokens ports.TokenStore, nav Navigator, in form.Login) FormState {
	out := FormState{Email: in.Email}
	if err := validate.Struct(in); err != nil {
		out.Errors, _ = err.(form.FieldErrors)
		return out
	}
	if err := auth.Login(ctx, st, tokens, in.Email, in.Password, in.RememberMe); err != nil {
		out.Alert = domain.UserMessage(err)
		return out
	}
	out.Done = true
	nav.Navigate("/")
	return out
}

// SubmitRegister validates the sign-up form and creates the account. Success
// navigates to the login page and raises a confirmation toast.
func SubmitRegister(ctx context.Context, reg Registrar, nav Navigator, n Notifier, in form.Register) FormState {
	out := FormState{Email: in.Email}
	if err := validate.Struct(in); err != nil {
		out.Errors, _ = err.(form.FieldErrors)
		return out
	}
	msg, err := reg.Register(ctx, domain.SignUp{
		Email:           in.Email,
		Password:        in.Password,
		ConfirmPassword: in.ConfirmPassword,
	})
	if err != nil {
		out.Alert = domain.UserMessage(err)
		return out
	}
	if msg == "" {
		msg = MsgRegistered
	}
	out.Done = true
	n.Notify(Toast{Kind: ToastSuccess, Message: msg})
	nav.Navigate("/user/login")
	return out
}
