package models

// Settings is the single per-installation preferences record.
type Settings struct {
	Theme                string `json:"theme"`
	Language             string `json:"language"`
	NotificationsEnabled bool   `json:"notificationsEnabled"`
	EmailNotifications   bool   `json:"emailNotifications"`
	Timezone             string `json:"timezone"`
}

// DefaultSettings returns the settings written on first start.
func DefaultSettings() Settings {
	return Settings{
		Theme:                "light",
		Language:             "ar",
		NotificationsEnabled: true,
		EmailNotifications:   false,
		Timezone:             "Asia/Riyadh",
	}
}
