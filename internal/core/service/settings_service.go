package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ratify/ratify-web/internal/core/domain"
	"github.com/ratify/ratify-web/internal/core/ports"
	"github.com/ratify/ratify-web/internal/core/state"
)

// SettingsService owns the settings slice: locale, direction and theme.
type SettingsService struct {
	repo ports.PreferenceRepository
	log  zerolog.Logger
}

func NewSettingsService(repo ports.PreferenceRepository, log zerolog.Logger) *SettingsService {
	return &SettingsService{repo: repo, log: log}
}

// Load reads the persisted preferences of clientID once and installs them.
// Read failures keep the defaults.
func (s *SettingsService) Load(ctx context.Context, st *state.Store, clientID string) {
	prefs, err := s.repo.Load(ctx, clientID)
	if err != nil {
		s.log.Warn().Err(err).Str("client_id", clientID).Msg("preferences unavailable, using defaults")
		return
	}
	st.Dispatch(state.SettingsLoaded{Settings: prefs.Settings()})
}

// ChangeLocale switches the interface language. The new value is applied
// even if persisting it fails.
func (s *SettingsService) ChangeLocale(ctx context.Context, st *state.Store, clientID, locale string) error {
	opt, ok := domain.LookupLocale(locale)
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownLocale, locale)
	}
	st.Dispatch(state.LocaleChanged{Locale: opt})
	s.persist(ctx, clientID, domain.LocaleStorageKey, opt.ID)
	return nil
}

// ChangeTheme switches the theme color.
func (s *SettingsService) ChangeTheme(ctx context.Context, st *state.Store, clientID, color string) error {
	if !domain.ValidThemeColor(color) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownColor, color)
	}
	st.Dispatch(state.ThemeChanged{Color: color})
	s.persist(ctx, clientID, domain.ThemeColorStorageKey, color)
	return nil
}

func (s *SettingsService) persist(ctx context.Context, clientID, key, value string) {
	if err := s.repo.Save(ctx, clientID, key, value); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to persist preference")
	}
}
