package storage

import (
	"context"
	"errors"

	"github.com/sandeepkv93/daystream/internal/calendar"
)

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

type Preferences struct {
	ViewMode calendar.ViewMode
	Theme    Theme
}

func DefaultPreferences() Preferences {
	return Preferences{ViewMode: calendar.ViewDay, Theme: ThemeDark}
}

// LoadPreferences falls back to the defaults for missing or unknown values
// and for a corrupt store.
func LoadPreferences(ctx context.Context, s Store) (Preferences, error) {
	prefs := DefaultPreferences()
	raw, err := s.Get(ctx, KeyViewMode)
	switch {
	case err == nil:
		if v, perr := calendar.ParseViewMode(string(raw)); perr == nil {
			prefs.ViewMode = v
		}
	case !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrCorrupt):
		return prefs, err
	}
	raw, err = s.Get(ctx, KeyTheme)
	switch {
	case err == nil:
		if Theme(raw) == ThemeLight {
			prefs.Theme = ThemeLight
		}
	case !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrCorrupt):
		return prefs, err
	}
	return prefs, nil
}

func SavePreferences(ctx context.Context, s Store, p Preferences) error {
	if err := s.Put(ctx, KeyViewMode, []byte(p.ViewMode)); err != nil {
		return err
	}
	return s.Put(ctx, KeyTheme, []byte(p.Theme))
}
