package repository

import (
	"context"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/pkg/pagination"
	"github.com/google/uuid"
)

// MenuItemRepository defines the interface for menu catalog data operations
type MenuItemRepository interface {
	Create(ctx context.Context, item *entity.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error)
	// GetByIDs retrieves multiple menu items in a single query (prevents N+1)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.MenuItem, error)
	Update(ctx context.Context, item *entity.MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *MenuItemFilterParams) ([]entity.MenuItem, int64, error)
	// ListCategories returns the distinct non-empty category names in use
	ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// MenuItemFilterParams contains filtering parameters for menu queries
type MenuItemFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string // matches item name, case-insensitive substring
	Category   string // exact category filter, empty means all
	SortBy     string
	SortOrder  string
}
