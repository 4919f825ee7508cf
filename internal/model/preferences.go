package model

import "time"

// Default theme colors applied when a user's preferences are first created.
const (
	DefaultPrimaryColor           = "#5A9AA8"
	DefaultBackgroundBaseColor    = "#C4DDE0"
	DefaultBackgroundSurfaceColor = "#F5E6D3"
	DefaultAccentColor            = "#D4A574"
)

// UserPreferences holds a user's theme colors. One row per user, created
// lazily on first access.
type UserPreferences struct {
	UserID                 string    `json:"-" db:"user_id"`
	PrimaryColor           string    `json:"primary_color" db:"primary_color"`
	BackgroundBaseColor    string    `json:"background_base_color" db:"background_base_color"`
	BackgroundSurfaceColor string    `json:"background_surface_color" db:"background_surface_color"`
	AccentColor            string    `json:"accent_color" db:"accent_color"`
	CreatedAt              time.Time `json:"-" db:"created_at"`
	UpdatedAt              time.Time `json:"-" db:"updated_at"`
}

// DefaultPreferences returns the default palette for userID.
func DefaultPreferences(userID string) UserPreferences {
	return UserPreferences{
		UserID:                 userID,
		PrimaryColor:           DefaultPrimaryColor,
		BackgroundBaseColor:    DefaultBackgroundBaseColor,
		BackgroundSurfaceColor: DefaultBackgroundSurfaceColor,
		AccentColor:            DefaultAccentColor,
	}
}

// PreferencesPatch carries optional color updates. Nil fields are unchanged.
type PreferencesPatch struct {
	PrimaryColor           *string `json:"primary_color"`
	BackgroundBaseColor    *string `json:"background_base_color"`
	BackgroundSurfaceColor *string `json:"background_surface_color"`
	AccentColor            *string `json:"accent_color"`
}
