package service

import (
	"context"
	"strings"

	"github.com/buzzcafe/billing-api/internal/domain/entity"
	"github.com/buzzcafe/billing-api/internal/domain/repository"
	"github.com/buzzcafe/billing-api/pkg/apperror"
	"github.com/buzzcafe/billing-api/pkg/pagination"
	"github.com/google/uuid"
)

// MenuService handles menu catalog operations
type MenuService struct {
	menuRepo repository.MenuItemRepository
}

// NewMenuService creates a new menu service
func NewMenuService(menuRepo repository.MenuItemRepository) *MenuService {
	return &MenuService{menuRepo: menuRepo}
}

// CreateMenuItemInput represents the create menu item input
type CreateMenuItemInput struct {
	UserID   uuid.UUID
	Name     string
	Price    float64
	Category string
}

// CreateMenuItem creates a new menu item
func (s *MenuService) CreateMenuItem(ctx context.Context, input *CreateMenuItemInput) (*entity.MenuItem, error) {
	if err := validateMenuItem(input.Name, input.Price); err != nil {
		return nil, err
	}

	item := &entity.MenuItem{
		UserID:   input.UserID,
		Name:     strings.TrimSpace(input.Name),
		Category: strings.TrimSpace(input.Category),
	}
	item.SetPriceFromDecimal(input.Price)

	if err := s.menuRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateMenuItemInput represents the update menu item input
type UpdateMenuItemInput struct {
	UserID   uuid.UUID
	ID       uuid.UUID
	Name     string
	Price    float64
	Category string
}

// UpdateMenuItem updates an existing menu item. Past invoices hold copies
// of the old name and price, so they are unaffected.
func (s *MenuService) UpdateMenuItem(ctx context.Context, input *UpdateMenuItemInput) (*entity.MenuItem, error) {
	if err := validateMenuItem(input.Name, input.Price); err != nil {
		return nil, err
	}

	item, err := s.getOwnedItem(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	item.Name = strings.TrimSpace(input.Name)
	item.Category = strings.TrimSpace(input.Category)
	item.SetPriceFromDecimal(input.Price)

	if err := s.menuRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// GetMenuItem retrieves a menu item by ID
func (s *MenuService) GetMenuItem(ctx context.Context, userID, id uuid.UUID) (*entity.MenuItem, error) {
	return s.getOwnedItem(ctx, userID, id)
}

// DeleteMenuItem removes a menu item from the catalog
func (s *MenuService) DeleteMenuItem(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.getOwnedItem(ctx, userID, id); err != nil {
		return err
	}
	return s.menuRepo.Delete(ctx, id)
}

// ListMenuItems lists menu items with search and category filtering
func (s *MenuService) ListMenuItems(ctx context.Context, userID uuid.UUID, params *repository.MenuItemFilterParams) (*pagination.PaginatedResult[entity.MenuItem], error) {
	items, total, err := s.menuRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(items, pag), nil
}

// ListCategories returns the distinct category names in use
func (s *MenuService) ListCategories(ctx context.Context, userID uuid.UUID) ([]string, error) {
	categories, err := s.menuRepo.ListCategories(ctx, userID)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	return categories, nil
}

func (s *MenuService) getOwnedItem(ctx context.Context, userID, id uuid.UUID) (*entity.MenuItem, error) {
	item, err := s.menuRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperror.NewNotFoundError("Menu item")
	}
	if item.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return item, nil
}

func validateMenuItem(name string, price float64) error {
	var fieldErrors []apperror.FieldError
	if strings.TrimSpace(name) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "name", Message: "Name is required",
		})
	}
	if price < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{
			Field: "price", Message: "Price must not be negative",
		})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}
