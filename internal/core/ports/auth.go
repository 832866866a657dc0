package ports

import (
	"context"

	"github.com/ratify/ratify-web/internal/core/domain"
)

// AuthAPI is the remote authentication surface.
type AuthAPI interface {
	Refresh(ctx context.Context, refreshToken string) (domain.Tokens, error)
	Login(ctx context.Context, email, password string, rememberMe bool) (domain.Tokens, domain.User, error)
	Register(ctx context.Context, in domain.SignUp) (domain.BaseResponse, error)
	ResetPassword(ctx context.Context, token, password, confirmPassword string) (string, error)
	Me(ctx context.Context, accessToken string) (domain.User, error)
}

// TokenStore persists one session's token pair outside the request cycle.
// Load returns domain.ErrNoTokens when nothing is stored.
type TokenStore interface {
	Save(ctx context.Context, tokens domain.Tokens) error
	Load(ctx context.Context) (domain.Tokens, error)
	Clear(ctx context.Context) error
}

// TokenVault hands out the TokenStore of a session.
type TokenVault interface {
	For(sessionID string) TokenStore
}
