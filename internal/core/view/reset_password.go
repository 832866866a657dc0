package view

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/form"
	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/core/state"
)

// DefaultResetRedirectDelay is how long the confirmation panel stays before
// the dashboard redirect.
const DefaultResetRedirectDelay = 4 * time.Second

// ResetPhase is the panel the reset view shows.
type ResetPhase int

const (
	PhaseForm ResetPhase = iota
	PhaseCompleted
)

// ResetPasswordState is what the page renders.
type ResetPasswordState struct {
	Phase   ResetPhase
	Token   string
	Alert   string
	Errors  form.FieldErrors
	Email   string
	Sending bool
	// RedirectScheduled is set once the post-login redirect timer runs.
	RedirectScheduled bool
	RedirectDelay     time.Duration
}

// Completed reports whether the confirmation panel is shown.
func (s ResetPasswordState) Completed() bool { return s.Phase == PhaseCompleted }

// ResetPassword drives the password reset page.
type ResetPassword struct {
	auth   Authenticator
	st     *state.Store
	tokens ports.TokenStore
	nav    Navigator
	delay  time.Duration
	log    zerolog.Logger

	mu      sync.Mutex
	mounted bool
	timer   *time.Timer
	state   ResetPasswordState
}

func NewResetPassword(auth Authenticator, st *state.Store, tokens ports.TokenStore, nav Navigator, delay time.Duration, log zerolog.Logger) *ResetPassword {
	if delay <= 0 {
		delay = DefaultResetRedirectDelay
	}
	return &ResetPassword{
		auth:   auth,
		st:     st,
		tokens: tokens,
		nav:    nav,
		delay:  delay,
		log:    log,
		state:  ResetPasswordState{RedirectDelay: delay},
	}
}

// Mount reads the reset token from the query. Without one the user is sent
// home and Mount reports false.
func (v *ResetPassword) Mount(query url.Values) bool {
	token := query.Get("token")
	if token == "" {
		v.nav.Navigate("/")
		return false
	}
	v.mu.Lock()
	v.mounted = true
	v.state.Token = token
	v.mu.Unlock()
	return true
}

// Submit validates the form and resets the password. Validation failures
// return form.FieldErrors without touching the network. On success the view
// switches to the confirmation panel, signs the user in and schedules the
// redirect home.
func (v *ResetPassword) Submit(ctx context.Context, in form.ResetPassword) error {
	if err := validate.Struct(in); err != nil {
		v.mu.Lock()
		v.state.Errors, _ = err.(form.FieldErrors)
		v.mu.Unlock()
		return err
	}

	v.mu.Lock()
	if v.state.Sending {
		v.mu.Unlock()
		return errors.New("reset already in flight")
	}
	token := v.state.Token
	v.state.Sending = true
	v.state.Alert = ""
	v.state.Errors = nil
	v.mu.Unlock()

	email, err := v.auth.ResetPassword(ctx, token, in.Password, in.ConfirmPassword)

	v.mu.Lock()
	v.state.Sending = false
	if err != nil {
		v.state.Alert = domain.ResetReasonOf(err).Message()
		v.mu.Unlock()
		return err
	}
	v.state.Phase = PhaseCompleted
	v.state.Email = email
	v.mu.Unlock()

	if err := v.auth.Login(ctx, v.st, v.tokens, email, in.Password, false); err != nil {
		v.log.Warn().Err(err).Msg("sign-in after password reset failed")
		return nil
	}
	v.scheduleRedirect()
	return nil
}

func (v *ResetPassword) scheduleRedirect() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.mounted {
		return
	}
	v.state.RedirectScheduled = true
	v.timer = time.AfterFunc(v.delay, func() {
		v.mu.Lock()
		mounted := v.mounted
		v.mu.Unlock()
		if mounted {
			v.nav.Navigate("/")
		}
	})
}

// Unmount stops the pending redirect. No navigation happens afterwards.
func (v *ResetPassword) Unmount() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.mounted = false
	if v.timer != nil {
		v.timer.Stop()
		v.timer = nil
	}
}

// State returns a copy of the current page state.
func (v *ResetPassword) State() ResetPasswordState {
	v.mu.Lock()
	defer v.mu.Unlock()
	s := v.state
	if s.Errors != nil {
		s.Errors = make(form.FieldErrors, len(v.state.Errors))
		for k, m := range v.state.Errors {
			s.Errors[k] = m
		}
	}
	return s
}

