package domain

import "strings"

// Direction is the text direction of a locale.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// LocaleOption is one selectable interface language.
type LocaleOption struct {
	ID        string
	Name      string
	Direction Direction
}

// Storage keys for persisted preferences.
const (
	LocaleStorageKey     = "currentLanguage"
	ThemeColorStorageKey = "__theme_selected_color"
)

const (
	DefaultLocale = "en"
	DefaultColor  = "light.blueyale"
)

var LocaleOptions = []LocaleOption{
	{ID: "en", Name: "English - LTR", Direction: LTR},
	{ID: "es", Name: "Español", Direction: LTR},
	{ID: "enrtl", Name: "English - RTL", Direction: RTL},
}

var ThemeColors = []string{
	"bluenavy",
	"blueyale",
	"blueolympic",
	"greenmoss",
	"greenlime",
	"purplemonster",
	"orangecarrot",
	"redruby",
	"yellowgranola",
	"greysteel",
}

// LookupLocale returns the option with the given id.
func LookupLocale(id string) (LocaleOption, bool) {
	for _, o := range LocaleOptions {
		if o.ID == id {
			return o, true
		}
	}
	return LocaleOption{}, false
}

// ValidThemeColor accepts "light.<color>" and "dark.<color>".
func ValidThemeColor(c string) bool {
	mode, name, ok := strings.Cut(c, ".")
	if !ok || (mode != "light" && mode != "dark") {
		return false
	}
	for _, known := range ThemeColors {
		if known == name {
			return true
		}
	}
	return false
}

// Settings is the interface preference slice.
type Settings struct {
	Locale     string
	Direction  Direction
	ThemeColor string
}

// DefaultSettings is used until preferences are loaded.
func DefaultSettings() Settings {
	return Settings{Locale: DefaultLocale, Direction: LTR, ThemeColor: DefaultColor}
}

// Preferences are the raw persisted values, keyed by storage key.
type Preferences map[string]string

// Settings resolves preferences against the defaults, ignoring unknown values.
func (p Preferences) Settings() Settings {
	s := DefaultSettings()
	if o, ok := LookupLocale(p[LocaleStorageKey]); ok {
		s.Locale = o.ID
		s.Direction = o.Direction
	}
	if c := p[ThemeColorStorageKey]; ValidThemeColor(c) {
		s.ThemeColor = c
	}
	return s
}
