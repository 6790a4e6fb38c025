package repository

import (
	"context"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
)

// SettingsRepository defines the interface for the singleton shop profile
type SettingsRepository interface {
	Get(ctx context.Context) (*entity.ShopSettings, error)
	Create(ctx context.Context, settings *entity.ShopSettings) error
	Update(ctx context.Context, settings *entity.ShopSettings) error
}
