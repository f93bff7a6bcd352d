package domain

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// UserSettings holds per-user preferences.
type UserSettings struct {
	UserID               string `json:"userId"`
	Theme                Theme  `json:"theme"`
	EmailNotifications   bool   `json:"emailNotifications"`
	DesktopNotifications bool   `json:"desktopNotifications"`
	Language             string `json:"language"`
}

// DefaultUserSettings is applied when a user has no stored settings.
func DefaultUserSettings(userID string) UserSettings {
	return UserSettings{
		UserID:               userID,
		Theme:                ThemeLight,
		EmailNotifications:   true,
		DesktopNotifications: true,
		Language:             "en",
	}
}
