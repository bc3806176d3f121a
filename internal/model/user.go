package model

// Provider tags the identity source of a User.
type Provider string

const (
	ProviderFacebook Provider = "facebook"
	ProviderGoogle   Provider = "google"
	ProviderDemo     Provider = "demo"
)

// Providers lists the login options in display order.
var Providers = []Provider{ProviderFacebook, ProviderGoogle, ProviderDemo}

// User is the single active session identity. Its presence in storage
// gates the task app.
type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Avatar   string   `json:"avatar"`
	Provider Provider `json:"provider"`
}

// Theme is the persisted color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Toggle returns the opposite theme.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseTheme maps a stored value to a Theme, defaulting to light.
func ParseTheme(s string) Theme {
	if Theme(s) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}
