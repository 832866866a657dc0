package state

import "github.com/ratify/ratify-web/internal/core/domain"

// TokensRefreshed installs a fresh token pair and ends the loading window.
type TokensRefreshed struct {
	Tokens domain.Tokens
}

func (a TokensRefreshed) apply(s Snapshot) Snapshot {
	s.Auth.Tokens = a.Tokens
	s.Auth.IsAuthenticated = true
	s.Auth.Loading = false
	return s
}

// RefreshFailed marks the session unauthenticated.
type RefreshFailed struct{}

func (RefreshFailed) apply(s Snapshot) Snapshot {
	s.Auth = Auth{}
	return s
}

// LoginSucceeded installs tokens and user in one step.
type LoginSucceeded struct {
	Tokens domain.Tokens
	User   domain.User
}

func (a LoginSucceeded) apply(s Snapshot) Snapshot {
	u := a.User
	s.Auth = Auth{IsAuthenticated: true, Tokens: a.Tokens, User: &u}
	return s
}

// UserLoaded replaces the profile of the signed-in user.
type UserLoaded struct {
	User domain.User
}

func (a UserLoaded) apply(s Snapshot) Snapshot {
	u := a.User
	s.Auth.User = &u
	return s
}

// LoggedOut drops the session.
type LoggedOut struct{}

func (LoggedOut) apply(s Snapshot) Snapshot {
	s.Auth = Auth{}
	return s
}

// SettingsLoaded replaces the settings slice with persisted preferences.
type SettingsLoaded struct {
	Settings domain.Settings
}

func (a SettingsLoaded) apply(s Snapshot) Snapshot {
	s.Settings = a.Settings
	return s
}

// LocaleChanged switches locale and direction.
type LocaleChanged struct {
	Locale domain.LocaleOption
}

func (a LocaleChanged) apply(s Snapshot) Snapshot {
	s.Settings.Locale = a.Locale.ID
	s.Settings.Direction = a.Locale.Direction
	return s
}

// ThemeChanged switches the theme color.
type ThemeChanged struct {
	Color string
}

func (a ThemeChanged) apply(s Snapshot) Snapshot {
	s.Settings.ThemeColor = a.Color
	return s
}
