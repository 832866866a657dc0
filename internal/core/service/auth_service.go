package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/ratify/ratify-web/internal/api/metrics"
	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/core/state"
)

const (
	defaultTokenReadTimeout = 3 * time.Second
	defaultRefreshSkew      = 30 * time.Second
)

// AuthService wraps the auth endpoints and commits their results to a
// session's store and token store. It holds no per-session state; callers pass
// both handles on every call.
type AuthService struct {
	api         ports.AuthAPI
	log         zerolog.Logger
	readTimeout time.Duration
	skew        time.Duration
	now         func() time.Time
	flight      singleflight.Group
}

// AuthOption customises an AuthService.
type AuthOption func(*AuthService)

// WithTokenReadTimeout bounds how long a refresh waits for the token store.
func WithTokenReadTimeout(d time.Duration) AuthOption {
	return func(s *AuthService) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

// WithRefreshSkew sets how close to expiry an access token is refreshed
// before use.
func WithRefreshSkew(d time.Duration) AuthOption {
	return func(s *AuthService) { s.skew = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

func NewAuthService(api ports.AuthAPI, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		api:         api,
		log:         log,
		readTimeout: defaultTokenReadTimeout,
		skew:        defaultRefreshSkew,
		now:         time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Bootstrap runs the start-of-session sequence: one refresh, then a
// best-effort profile fetch. It never returns an error; a failed refresh
// leaves the session unauthenticated.
func (s *AuthService) Bootstrap(ctx context.Context, st *state.Store, tokens ports.TokenStore) {
	if err := s.RefreshToken(ctx, st, tokens); err != nil {
		if !errors.Is(err, domain.ErrNoTokens) {
			s.log.Warn().Err(err).Msg("session refresh failed")
		}
		return
	}
	if err := s.GetUserInfo(ctx, st, tokens); err != nil {
		s.log.Warn().Err(err).Msg("user info unavailable")
	}
}

// RefreshToken exchanges the stored refresh token for a new pair. Concurrent
// refreshes of the same token share one API call, so the pair is replaced
// once. On failure the session is marked unauthenticated.
func (s *AuthService) RefreshToken(ctx context.Context, st *state.Store, tokens ports.TokenStore) error {
	current, err := s.loadTokens(ctx, st, tokens)
	if err != nil {
		st.Dispatch(state.RefreshFailed{})
		if errors.Is(err, domain.ErrNoTokens) {
			metrics.TokenRefreshTotal.WithLabelValues("no_tokens").Inc()
		} else {
			metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
		}
		return err
	}

	v, err, _ := s.flight.Do(current.Refresh, func() (any, error) {
		fresh, err := s.api.Refresh(ctx, current.Refresh)
		if err != nil {
			return nil, err
		}
		if err := tokens.Save(ctx, fresh); err != nil {
			return nil, fmt.Errorf("save tokens: %w", err)
		}
		return fresh, nil
	})
	if err != nil {
		metrics.TokenRefreshTotal.WithLabelValues("failed").Inc()
		st.Dispatch(state.RefreshFailed{})
		if errors.Is(err, domain.ErrUnauthorized) {
			if clearErr := tokens.Clear(ctx); clearErr != nil {
				s.log.Warn().Err(clearErr).Msg("failed to clear rejected tokens")
			}
		}
		return fmt.Errorf("refresh token: %w", err)
	}

	metrics.TokenRefreshTotal.WithLabelValues("ok").Inc()
	st.Dispatch(state.TokensRefreshed{Tokens: v.(domain.Tokens)})
	return nil
}

// loadTokens prefers the pair already in the store and falls back to the
// token store, bounded by the read timeout.
func (s *AuthService) loadTokens(ctx context.Context, st *state.Store, tokens ports.TokenStore) (domain.Tokens, error) {
	if t := st.Snapshot().Auth.Tokens; !t.Empty() {
		return t, nil
	}
	readCtx, cancel := context.WithTimeout(ctx, s.readTimeout)
	defer cancel()

	t, err := tokens.Load(readCtx)
	if err != nil {
		return domain.Tokens{}, err
	}
	if t.Empty() {
		return domain.Tokens{}, domain.ErrNoTokens
	}
	return t, nil
}

// GetUserInfo fetches the profile of the signed-in user.
func (s *AuthService) GetUserInfo(ctx context.Context, st *state.Store, tokens ports.TokenStore) error {
	return s.WithAccess(ctx, st, tokens, func(access string) error {
		u, err := s.api.Me(ctx, access)
		if err != nil {
			return err
		}
		st.Dispatch(state.UserLoaded{User: u})
		return nil
	})
}

// Login signs in. Failures leave the store untouched; the error carries the
// server message (see domain.UserMessage).
func (s *AuthService) Login(ctx context.Context, st *state.Store, tokens ports.TokenStore, email, password string, rememberMe bool) error {
	pair, user, err := s.api.Login(ctx, email, password, rememberMe)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := tokens.Save(ctx, pair); err != nil {
		s.log.Error().Err(err).Msg("failed to persist tokens")
		return fmt.Errorf("login: save tokens: %w", err)
	}
	st.Dispatch(state.LoginSucceeded{Tokens: pair, User: user})
	s.log.Info().Int64("user_id", user.ID).Msg("user signed in")
	return nil
}

// Register creates an account and returns the server confirmation.
func (s *AuthService) Register(ctx context.Context, in domain.SignUp) (string, error) {
	resp, err := s.api.Register(ctx, in)
	if err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return resp.Message, nil
}

// ResetPassword submits a new password for a reset token and returns the
// account email. Classify failures with domain.ResetReasonOf.
func (s *AuthService) ResetPassword(ctx context.Context, token, password, confirmPassword string) (string, error) {
	email, err := s.api.ResetPassword(ctx, token, password, confirmPassword)
	if err != nil {
		return "", fmt.Errorf("reset password: %w", err)
	}
	return email, nil
}

// Logout forgets the session locally.
func (s *AuthService) Logout(ctx context.Context, st *state.Store, tokens ports.TokenStore) error {
	st.Dispatch(state.LoggedOut{})
	if err := tokens.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// WithAccess calls fn with a usable access token. A token about to expire is
// refreshed first; a 401 answer triggers one refresh and one retry.
func (s *AuthService) WithAccess(ctx context.Context, st *state.Store, tokens ports.TokenStore, fn func(access string) error) error {
	snap := st.Snapshot()
	if !snap.Auth.IsAuthenticated {
		return domain.ErrUnauthorized
	}
	access := snap.AccessToken()
	if s.expiring(access) {
		if err := s.RefreshToken(ctx, st, tokens); err != nil {
			return err
		}
		access = st.Snapshot().AccessToken()
	}

	err := fn(access)
	if !errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	if rerr := s.RefreshToken(ctx, st, tokens); rerr != nil {
		return err
	}
	return fn(st.Snapshot().AccessToken())
}

// expiring reports whether the access token's exp falls within the skew.
// The signature is not checked; the API does that on every call.
func (s *AuthService) expiring(access string) bool {
	if access == "" {
		return true
	}
	var claims domain.AccessClaims
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err != nil {
		return false
	}
	return claims.ExpiresWithin(s.now(), s.skew)
}
