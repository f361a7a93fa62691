package services

import (
	"context"
	"encoding/json"

	"github.com/Elandig/tabscribe/internal/api/errors"
	"github.com/Elandig/tabscribe/internal/api/v1/dto"
	"github.com/Elandig/tabscribe/internal/config"
)

// SettingsServiceImpl implements SettingsService over a settings store
type SettingsServiceImpl struct {
	store config.Store
}

// NewSettingsService creates a new settings service
func NewSettingsService(store config.Store) SettingsService {
	return &SettingsServiceImpl{store: store}
}

// GetSettings returns the persisted settings. Environment overrides are not applied.
func (s *SettingsServiceImpl) GetSettings(ctx context.Context) (*dto.SettingsResponse, error) {
	settings, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	return s.response(settings), nil
}

// UpdateSettings merges a JSON document over the current settings and saves the result.
// Fields missing from body keep their current value.
func (s *SettingsServiceImpl) UpdateSettings(ctx context.Context, body []byte) (*dto.SettingsResponse, error) {
	settings, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(body, &settings); err != nil {
		return nil, errors.NewValidationError("Invalid settings", map[string]string{"settings": "invalid JSON format"})
	}
	if err := settings.Validate(); err != nil {
		return nil, errors.NewValidationError("Invalid settings", map[string]string{"settings": err.Error()})
	}
	if err := s.store.Save(settings); err != nil {
		return nil, err
	}
	return s.response(settings), nil
}

func (s *SettingsServiceImpl) response(settings config.Settings) *dto.SettingsResponse {
	resp := &dto.SettingsResponse{Settings: settings}
	if p, ok := s.store.(interface{ Path() string }); ok {
		resp.Path = p.Path()
	}
	return resp
}
