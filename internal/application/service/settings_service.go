package service

import (
	"context"
	"strings"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/internal/domain/repository"
	"github.com/buzzcafe/billing-api/pkg/apperror"
)

// SettingsService handles shop settings. There is a single settings row
// shared by the whole shop; handlers restrict updates to admins.
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetSettings retrieves the shop settings, creating defaults if none exist
func (s *SettingsService) GetSettings(ctx context.Context) (*entity.ShopSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if settings == nil {
		settings = &entity.ShopSettings{
			ShopName:      "Buzz Cafe",
			Currency:      "Rs",
			FooterMessage: "Thank you! Visit Again",
		}
		if err := s.settingsRepo.Create(ctx, settings); err != nil {
			return nil, err
		}
	}

	return settings, nil
}

// UpdateSettingsInput represents the input for updating shop settings
type UpdateSettingsInput struct {
	ShopName      string
	Address       string
	Phone         string
	Currency      string
	FooterMessage string
}

// UpdateSettings updates the shop settings
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.ShopSettings, error) {
	if strings.TrimSpace(input.ShopName) == "" {
		return nil, apperror.NewValidationError([]apperror.FieldError{
			{Field: "shop_name", Message: "Shop name is required"},
		})
	}

	settings, err := s.GetSettings(ctx)
	if err != nil {
		return nil, err
	}

	settings.ShopName = strings.TrimSpace(input.ShopName)
	settings.Address = strings.TrimSpace(input.Address)
	settings.Phone = strings.TrimSpace(input.Phone)
	settings.Currency = strings.TrimSpace(input.Currency)
	settings.FooterMessage = strings.TrimSpace(input.FooterMessage)
	if settings.Currency == "" {
		settings.Currency = "Rs"
	}

	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
