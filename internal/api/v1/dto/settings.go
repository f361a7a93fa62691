package dto

import "github.com/Elandig/tabscribe/internal/config"

// SettingsResponse is the body of GET and PUT /settings
type SettingsResponse struct {
	Path     string          `json:"path,omitempty"`
	Settings config.Settings `json:"settings"`
}
