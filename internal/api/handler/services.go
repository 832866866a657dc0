package handler

import (
	"context"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/core/state"
	"github.com/ratify/ratify-web/internal/core/view"
)

// AuthService is what the user pages need from the auth service.
type AuthService interface {
	view.Authenticator
	view.Registrar
	Logout(ctx context.Context, st *state.Store, tokens ports.TokenStore) error
}

// ContractService is what the contract pages need from the contract service.
type ContractService interface {
	view.Contracts
	SendDocumentAgain(ctx context.Context, st *state.Store, tokens ports.TokenStore, signerID int64, name, email string) error
	Progress(ctx context.Context, st *state.Store, tokens ports.TokenStore, contractID int64) (domain.ContractProgress, error)
}

// SettingsService applies interface preferences.
type SettingsService interface {
	ChangeLocale(ctx context.Context, st *state.Store, clientID, locale string) error
	ChangeTheme(ctx context.Context, st *state.Store, clientID, color string) error
}
